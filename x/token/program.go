/*
Package token implements the subset of the fungible token standard the
escrow needs: mints, token accounts, transfers, authority changes and
closing accounts.

Instructions use the same wire format as the builders of
github.com/blocto/solana-go-sdk/program/token, so clients can assemble them
with that package. Multisig authorities are not supported, every authority
must sign directly.
*/
package token

import (
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Program is the token program.
type Program struct{}

var _ escrowswap.Program = Program{}

// NewProgram returns the token program.
func NewProgram() Program {
	return Program{}
}

// Process implements escrowswap.Program.
func (p Program) Process(ctx escrowswap.Context, env escrowswap.Invoker, accounts []*escrowswap.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "empty")
	}
	h := handler{
		env:    env,
		it:     escrowswap.NewAccountIter(accounts),
		logger: escrowswap.GetLogger(ctx).With("program", "token"),
	}

	switch data[0] {
	case byte(sdktoken.InstructionInitializeMint):
		msg, err := decodeInitializeMint(data)
		if err != nil {
			return err
		}
		return h.initializeMint(msg)
	case byte(sdktoken.InstructionInitializeAccount):
		if len(data) != 1 {
			return errors.Wrap(errors.ErrInvalidInstructionData, "initialize account")
		}
		return h.initializeAccount()
	case byte(sdktoken.InstructionTransfer):
		amount, err := decodeAmount(data)
		if err != nil {
			return err
		}
		return h.transfer(amount)
	case byte(sdktoken.InstructionSetAuthority):
		msg, err := decodeSetAuthority(data)
		if err != nil {
			return err
		}
		return h.setAuthority(msg)
	case byte(sdktoken.InstructionMintTo):
		amount, err := decodeAmount(data)
		if err != nil {
			return err
		}
		return h.mintTo(amount)
	case byte(sdktoken.InstructionCloseAccount):
		if len(data) != 1 {
			return errors.Wrap(errors.ErrInvalidInstructionData, "close account")
		}
		return h.closeAccount()
	default:
		return errors.ErrInvalidInstructionData.Newf("unsupported token instruction %d", data[0])
	}
}

// handler processes a single instruction.
type handler struct {
	env    escrowswap.Invoker
	it     *escrowswap.AccountIter
	logger log.Logger
}

// nextOwned returns the next account, which must be owned by this program.
func (h *handler) nextOwned() (*escrowswap.AccountInfo, error) {
	info, err := h.it.Next()
	if err != nil {
		return nil, err
	}
	if info.Owner != h.env.ProgramID() {
		return nil, errors.Wrapf(errors.ErrWrongProgramOwner, "account %s", info.Key)
	}
	return info, nil
}

// authorize checks that the next account is the expected authority and
// that it signed.
func (h *handler) authorize(expected escrowswap.PublicKey) error {
	auth, err := h.it.Next()
	if err != nil {
		return err
	}
	if auth.Key != expected {
		return errors.Wrapf(errors.ErrOwnerMismatch, "authority %s", auth.Key)
	}
	if !auth.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "authority %s", auth.Key)
	}
	return nil
}

func (h *handler) rentExempt(info *escrowswap.AccountInfo) error {
	rent, err := h.env.Rent()
	if err != nil {
		return err
	}
	if !rent.IsExempt(info.Lamports, len(info.Data)) {
		return errors.Wrapf(errors.ErrNotRentExempt, "account %s", info.Key)
	}
	return nil
}

// initializeMint accounts:
//   0. [writable] mint
//   1. [] rent sysvar
func (h *handler) initializeMint(msg *initializeMintData) error {
	info, err := h.nextOwned()
	if err != nil {
		return err
	}
	mint, err := unpackMint(info.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "mint %s", info.Key)
	}
	if err := h.rentExempt(info); err != nil {
		return err
	}

	mint.MintAuthorityOption = optionSome
	mint.MintAuthority = msg.MintAuthority
	mint.Decimals = msg.Decimals
	mint.IsInitialized = true
	if msg.FreezeOption == 1 {
		mint.FreezeAuthorityOption = optionSome
		mint.FreezeAuthority = msg.FreezeAuthority
	}
	h.logger.Debug("initialize mint", "mint", info.Key.String(), "decimals", msg.Decimals)
	return mint.Pack(info.Data)
}

// initializeAccount accounts:
//   0. [writable] token account
//   1. [] mint
//   2. [] owner
//   3. [] rent sysvar
func (h *handler) initializeAccount() error {
	info, err := h.nextOwned()
	if err != nil {
		return err
	}
	mintInfo, err := h.nextOwned()
	if err != nil {
		return err
	}
	owner, err := h.it.Next()
	if err != nil {
		return err
	}

	acct, err := unpackAccount(info.Data)
	if err != nil {
		return err
	}
	if acct.IsInitialized() {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "token account %s", info.Key)
	}
	if err := h.rentExempt(info); err != nil {
		return err
	}
	if _, err := UnpackMint(mintInfo.Data); err != nil {
		return err
	}

	acct.Mint = mintInfo.Key
	acct.Owner = owner.Key
	acct.State = AccountStateInitialized
	h.logger.Debug("initialize account", "account", info.Key.String(), "mint", mintInfo.Key.String())
	return acct.Pack(info.Data)
}

// transfer accounts:
//   0. [writable] source
//   1. [writable] destination
//   2. [signer] source owner or delegate
func (h *handler) transfer(amount uint64) error {
	srcInfo, err := h.nextOwned()
	if err != nil {
		return err
	}
	dstInfo, err := h.nextOwned()
	if err != nil {
		return err
	}
	auth, err := h.it.Next()
	if err != nil {
		return err
	}

	src, err := UnpackAccount(srcInfo.Data)
	if err != nil {
		return err
	}
	dst, err := UnpackAccount(dstInfo.Data)
	if err != nil {
		return err
	}
	if src.IsFrozen() || dst.IsFrozen() {
		return errors.Wrap(errors.ErrInput, "account frozen")
	}
	if src.Mint != dst.Mint {
		return errors.Wrapf(errors.ErrMintMismatch, "%s and %s", srcInfo.Key, dstInfo.Key)
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d, need %d", srcInfo.Key, src.Amount, amount)
	}

	switch {
	case auth.Key == src.Owner:
	case src.DelegateOption == optionSome && auth.Key == src.Delegate:
		if src.DelegatedAmount < amount {
			return errors.Wrapf(errors.ErrInsufficientFunds, "delegated %d, need %d", src.DelegatedAmount, amount)
		}
		src.DelegatedAmount -= amount
		if src.DelegatedAmount == 0 {
			src.SetDelegate(nil, 0)
		}
	default:
		return errors.Wrapf(errors.ErrOwnerMismatch, "authority %s", auth.Key)
	}
	if !auth.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "authority %s", auth.Key)
	}

	if srcInfo.Key == dstInfo.Key {
		return src.Pack(srcInfo.Data)
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrapf(errors.ErrOverflow, "account %s", dstInfo.Key)
	}
	src.Amount -= amount
	dst.Amount += amount
	h.logger.Debug("transfer", "from", srcInfo.Key.String(), "to", dstInfo.Key.String(), "amount", amount)
	if err := src.Pack(srcInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

// setAuthority accounts:
//   0. [writable] mint or token account
//   1. [signer] current authority
func (h *handler) setAuthority(msg *setAuthorityData) error {
	info, err := h.nextOwned()
	if err != nil {
		return err
	}
	newAuth := msg.newAuthority()

	switch len(info.Data) {
	case AccountSize:
		acct, err := UnpackAccount(info.Data)
		if err != nil {
			return err
		}
		if acct.IsFrozen() {
			return errors.Wrap(errors.ErrInput, "account frozen")
		}
		switch msg.AuthorityType {
		case byte(sdktoken.AuthorityTypeAccountOwner):
			if err := h.authorize(acct.Owner); err != nil {
				return err
			}
			if newAuth == nil {
				return errors.Wrap(errors.ErrInvalidInstructionData, "account owner cannot be cleared")
			}
			acct.Owner = *newAuth
			acct.SetDelegate(nil, 0)
		case byte(sdktoken.AuthorityTypeCloseAccount):
			if err := h.authorize(acct.closer()); err != nil {
				return err
			}
			acct.SetCloseAuthority(newAuth)
		default:
			return errors.ErrInvalidInstructionData.Newf("authority type %d not valid for accounts", msg.AuthorityType)
		}
		h.logger.Debug("set authority", "account", info.Key.String(), "type", msg.AuthorityType)
		return acct.Pack(info.Data)

	case MintSize:
		mint, err := UnpackMint(info.Data)
		if err != nil {
			return err
		}
		switch msg.AuthorityType {
		case byte(sdktoken.AuthorityTypeMintTokens):
			if mint.MintAuthorityOption != optionSome {
				return errors.Wrap(errors.ErrOwnerMismatch, "mint authority disabled")
			}
			if err := h.authorize(mint.MintAuthority); err != nil {
				return err
			}
			mint.MintAuthorityOption, mint.MintAuthority = optionNone, escrowswap.PublicKey{}
			if newAuth != nil {
				mint.MintAuthorityOption, mint.MintAuthority = optionSome, *newAuth
			}
		case byte(sdktoken.AuthorityTypeFreezeAccount):
			if mint.FreezeAuthorityOption != optionSome {
				return errors.Wrap(errors.ErrOwnerMismatch, "freeze authority disabled")
			}
			if err := h.authorize(mint.FreezeAuthority); err != nil {
				return err
			}
			mint.FreezeAuthorityOption, mint.FreezeAuthority = optionNone, escrowswap.PublicKey{}
			if newAuth != nil {
				mint.FreezeAuthorityOption, mint.FreezeAuthority = optionSome, *newAuth
			}
		default:
			return errors.ErrInvalidInstructionData.Newf("authority type %d not valid for mints", msg.AuthorityType)
		}
		h.logger.Debug("set authority", "mint", info.Key.String(), "type", msg.AuthorityType)
		return mint.Pack(info.Data)

	default:
		return errors.Wrapf(errors.ErrInvalidAccountData, "account %s is neither mint nor token account", info.Key)
	}
}

// mintTo accounts:
//   0. [writable] mint
//   1. [writable] destination
//   2. [signer] mint authority
func (h *handler) mintTo(amount uint64) error {
	mintInfo, err := h.nextOwned()
	if err != nil {
		return err
	}
	dstInfo, err := h.nextOwned()
	if err != nil {
		return err
	}

	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	dst, err := UnpackAccount(dstInfo.Data)
	if err != nil {
		return err
	}
	if dst.IsFrozen() {
		return errors.Wrap(errors.ErrInput, "account frozen")
	}
	if dst.Mint != mintInfo.Key {
		return errors.Wrapf(errors.ErrMintMismatch, "account %s", dstInfo.Key)
	}
	if mint.MintAuthorityOption != optionSome {
		return errors.Wrap(errors.ErrOwnerMismatch, "mint authority disabled")
	}
	if err := h.authorize(mint.MintAuthority); err != nil {
		return err
	}
	if mint.Supply+amount < mint.Supply || dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "mint supply")
	}

	mint.Supply += amount
	dst.Amount += amount
	h.logger.Debug("mint", "mint", mintInfo.Key.String(), "to", dstInfo.Key.String(), "amount", amount)
	if err := mint.Pack(mintInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

// closeAccount accounts:
//   0. [writable] token account
//   1. [writable] destination of the deposit
//   2. [signer] close authority or owner
func (h *handler) closeAccount() error {
	info, err := h.nextOwned()
	if err != nil {
		return err
	}
	dest, err := h.it.Next()
	if err != nil {
		return err
	}
	if info.Key == dest.Key {
		return errors.Wrap(errors.ErrInput, "cannot close into itself")
	}

	acct, err := UnpackAccount(info.Data)
	if err != nil {
		return err
	}
	if acct.Amount != 0 {
		return errors.Wrapf(errors.ErrNonZeroBalance, "account %s holds %d", info.Key, acct.Amount)
	}
	if err := h.authorize(acct.closer()); err != nil {
		return err
	}
	if dest.Lamports+info.Lamports < dest.Lamports {
		return errors.Wrapf(errors.ErrOverflow, "account %s", dest.Key)
	}

	dest.Lamports += info.Lamports
	info.Lamports = 0
	for i := range info.Data {
		info.Data[i] = 0
	}
	h.logger.Debug("close account", "account", info.Key.String(), "destination", dest.Key.String())
	return nil
}
