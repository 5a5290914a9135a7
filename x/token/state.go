package token

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// Sizes of the persisted layouts. Both are fixed and shared with every
// client of the token standard.
const (
	AccountSize = 165
	MintSize    = 82
)

// Token account states.
const (
	AccountStateUninitialized uint8 = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Optional fields are prefixed with a u32 little endian flag and always
// occupy their full size.
const (
	optionNone uint32 = 0
	optionSome uint32 = 1
)

// Account is a token balance of a single mint, owned by a wallet.
type Account struct {
	Mint                 escrowswap.PublicKey
	Owner                escrowswap.PublicKey
	Amount               uint64
	DelegateOption       uint32
	Delegate             escrowswap.PublicKey
	State                uint8
	IsNativeOption       uint32
	IsNative             uint64
	DelegatedAmount      uint64
	CloseAuthorityOption uint32
	CloseAuthority       escrowswap.PublicKey
}

// IsInitialized returns true once InitializeAccount ran.
func (a *Account) IsInitialized() bool {
	return a.State != AccountStateUninitialized
}

// IsFrozen returns true if the account cannot be used.
func (a *Account) IsFrozen() bool {
	return a.State == AccountStateFrozen
}

// SetDelegate sets or clears the delegate.
func (a *Account) SetDelegate(key *escrowswap.PublicKey, amount uint64) {
	if key == nil {
		a.DelegateOption, a.Delegate, a.DelegatedAmount = optionNone, escrowswap.PublicKey{}, 0
		return
	}
	a.DelegateOption, a.Delegate, a.DelegatedAmount = optionSome, *key, amount
}

// SetCloseAuthority sets or clears the close authority.
func (a *Account) SetCloseAuthority(key *escrowswap.PublicKey) {
	if key == nil {
		a.CloseAuthorityOption, a.CloseAuthority = optionNone, escrowswap.PublicKey{}
		return
	}
	a.CloseAuthorityOption, a.CloseAuthority = optionSome, *key
}

// closer returns the key allowed to close the account.
func (a *Account) closer() escrowswap.PublicKey {
	if a.CloseAuthorityOption == optionSome {
		return a.CloseAuthority
	}
	return a.Owner
}

// Mint describes a token.
type Mint struct {
	MintAuthorityOption   uint32
	MintAuthority         escrowswap.PublicKey
	Supply                uint64
	Decimals              uint8
	IsInitialized         bool
	FreezeAuthorityOption uint32
	FreezeAuthority       escrowswap.PublicKey
}

// UnpackAccount decodes an initialized token account.
func UnpackAccount(data []byte) (*Account, error) {
	a, err := unpackAccount(data)
	if err != nil {
		return nil, err
	}
	if !a.IsInitialized() {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "token account")
	}
	return a, nil
}

func unpackAccount(data []byte) (*Account, error) {
	var a Account
	if err := unpack(data, AccountSize, &a); err != nil {
		return nil, errors.Wrap(err, "token account")
	}
	return &a, nil
}

// UnpackMint decodes an initialized mint.
func UnpackMint(data []byte) (*Mint, error) {
	m, err := unpackMint(data)
	if err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "mint")
	}
	return m, nil
}

func unpackMint(data []byte) (*Mint, error) {
	var m Mint
	if err := unpack(data, MintSize, &m); err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	return &m, nil
}

// Pack writes the account into dst, which must be AccountSize long.
func (a *Account) Pack(dst []byte) error {
	return pack(*a, dst, AccountSize)
}

// Pack writes the mint into dst, which must be MintSize long.
func (m *Mint) Pack(dst []byte) error {
	return pack(*m, dst, MintSize)
}

func pack(src interface{}, dst []byte, size int) error {
	if len(dst) != size {
		return errors.ErrInvalidAccountData.Newf("want %d bytes, got %d", size, len(dst))
	}
	raw, err := borsh.Serialize(src)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if len(raw) != size {
		return errors.ErrInternal.Newf("packed %d bytes, want %d", len(raw), size)
	}
	copy(dst, raw)
	return nil
}

func unpack(data []byte, size int, dst interface{}) (err error) {
	if len(data) != size {
		return errors.ErrInvalidAccountData.Newf("want %d bytes, got %d", size, len(data))
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.ErrInvalidAccountData.Newf("%v", r)
		}
	}()
	if err := borsh.Deserialize(dst, data); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return nil
}
