package escrowswap

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowswap/errors"
)

// AccountPrefix is prepended to every account key in the store.
var AccountPrefix = []byte("acct:")

// Account is the persisted state of a single ledger account.
//
// An account with zero lamports does not exist. Reading it returns an empty
// account owned by the system program.
type Account struct {
	Lamports   uint64
	Owner      PublicKey
	Data       []byte
	Executable bool
}

// NewAccount returns an account holding the given balance and a zero filled
// data buffer of the given size.
func NewAccount(lamports uint64, space int, owner PublicKey) *Account {
	return &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, space),
	}
}

// accountModel is the protobuf message an Account is persisted as.
type accountModel struct {
	Lamports   uint64 `protobuf:"varint,1,opt,name=lamports,proto3" json:"lamports,omitempty"`
	Owner      []byte `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	Data       []byte `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
	Executable bool   `protobuf:"varint,4,opt,name=executable,proto3" json:"executable,omitempty"`
}

var _ proto.Message = (*accountModel)(nil)

func (m *accountModel) Reset()         { *m = accountModel{} }
func (m *accountModel) String() string { return proto.CompactTextString(m) }
func (*accountModel) ProtoMessage()    {}

// Marshal encodes the account using the protobuf wire format.
func (a *Account) Marshal() ([]byte, error) {
	raw, err := proto.Marshal(&accountModel{
		Lamports:   a.Lamports,
		Owner:      a.Owner[:],
		Data:       a.Data,
		Executable: a.Executable,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return raw, nil
}

// Unmarshal decodes an account encoded with Marshal.
func (a *Account) Unmarshal(raw []byte) error {
	var m accountModel
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	var owner PublicKey
	if len(m.Owner) != 0 {
		key, err := PublicKeyFromBytes(m.Owner)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidAccountData, "owner")
		}
		owner = key
	}
	*a = Account{
		Lamports:   m.Lamports,
		Owner:      owner,
		Data:       m.Data,
		Executable: m.Executable,
	}
	return nil
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := *a
	if a.Data != nil {
		cpy.Data = append([]byte(nil), a.Data...)
	}
	return &cpy
}

// Equals returns true if both accounts hold the same state.
func (a *Account) Equals(b *Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

// AccountKey returns the store key an account is persisted under.
func AccountKey(key PublicKey) []byte {
	return append(append([]byte(nil), AccountPrefix...), key[:]...)
}

// ParseAccountKey returns the account public key a store key was built
// from by AccountKey.
func ParseAccountKey(storeKey []byte) (PublicKey, error) {
	if !bytes.HasPrefix(storeKey, AccountPrefix) {
		return PublicKey{}, errors.Wrap(errors.ErrInput, "not an account key")
	}
	return PublicKeyFromBytes(storeKey[len(AccountPrefix):])
}

// LoadAccount reads an account from the store. A missing account is
// returned as an empty, system owned account.
func LoadAccount(db ReadOnlyKVStore, key PublicKey) (*Account, error) {
	raw, err := db.Get(AccountKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	if raw == nil {
		return &Account{Owner: SystemProgramID}, nil
	}
	var acct Account
	if err := acct.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "account %s", key)
	}
	return &acct, nil
}

// SaveAccount persists an account. Accounts left without lamports are
// removed from the store.
func SaveAccount(db KVStore, key PublicKey, acct *Account) error {
	if acct.Lamports == 0 {
		return db.Delete(AccountKey(key))
	}
	raw, err := acct.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal account")
	}
	return db.Set(AccountKey(key), raw)
}

// AccountInfo is the view of an account given to a program. Infos that
// reference the same key share the same Account.
type AccountInfo struct {
	Key        PublicKey
	IsSigner   bool
	IsWritable bool
	*Account
}

// IsEmpty returns true if the account holds no data and no lamports.
func (a *AccountInfo) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0
}

// AccountIter hands out account infos in the positional order a program
// expects them.
type AccountIter struct {
	accounts []*AccountInfo
	pos      int
}

// NewAccountIter returns an iterator over the given accounts.
func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account or ErrNotEnoughAccountKeys.
func (it *AccountIter) Next() (*AccountInfo, error) {
	if it.pos >= len(it.accounts) {
		return nil, errors.ErrNotEnoughAccountKeys.Newf("expected at least %d accounts", it.pos+1)
	}
	acc := it.accounts[it.pos]
	it.pos++
	return acc, nil
}
