/*
Package system implements the program every new account starts out owned
by. It creates accounts, hands them over to another program and moves
lamports between accounts it owns.
*/
package system

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
)

// Program is the system program.
type Program struct{}

var _ escrowswap.Program = Program{}

// NewProgram returns the system program.
func NewProgram() Program {
	return Program{}
}

// Process implements escrowswap.Program.
func (p Program) Process(ctx escrowswap.Context, env escrowswap.Invoker, accounts []*escrowswap.AccountInfo, data []byte) error {
	tag, err := decodeTag(data)
	if err != nil {
		return err
	}
	logger := escrowswap.GetLogger(ctx).With("program", "system")

	switch tag {
	case InstructionCreateAccount:
		var msg createAccountData
		if err := decode(data, createAccountDataSize, &msg); err != nil {
			return err
		}
		logger.Debug("create account", "lamports", msg.Lamports, "space", msg.Space)
		return p.createAccount(accounts, msg)
	case InstructionAssign:
		var msg assignData
		if err := decode(data, assignDataSize, &msg); err != nil {
			return err
		}
		logger.Debug("assign", "owner", msg.Owner.String())
		return p.assign(accounts, msg.Owner)
	case InstructionTransfer:
		var msg transferData
		if err := decode(data, transferDataSize, &msg); err != nil {
			return err
		}
		logger.Debug("transfer", "lamports", msg.Lamports)
		return p.transfer(accounts, msg.Lamports)
	default:
		return errors.ErrInvalidInstructionData.Newf("unknown system instruction %d", tag)
	}
}

// createAccount accounts:
//   0. [signer, writable] funding account
//   1. [signer, writable] new account
func (p Program) createAccount(accounts []*escrowswap.AccountInfo, msg createAccountData) error {
	it := escrowswap.NewAccountIter(accounts)
	from, err := it.Next()
	if err != nil {
		return err
	}
	to, err := it.Next()
	if err != nil {
		return err
	}

	if !from.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "funding account")
	}
	if !to.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "new account")
	}
	if from.Key == to.Key {
		return errors.Wrap(errors.ErrInput, "funding and new account are the same")
	}
	if to.Lamports != 0 || len(to.Data) != 0 || to.Owner != escrowswap.SystemProgramID {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "account %s already in use", to.Key)
	}
	if msg.Space > MaxPermittedDataLength {
		return errors.Wrapf(errors.ErrInput, "space %d above limit", msg.Space)
	}
	if err := debit(from, msg.Lamports); err != nil {
		return err
	}

	to.Lamports = msg.Lamports
	to.Data = make([]byte, msg.Space)
	to.Owner = msg.Owner
	return nil
}

// assign accounts:
//   0. [signer, writable] assigned account
func (p Program) assign(accounts []*escrowswap.AccountInfo, owner escrowswap.PublicKey) error {
	acct, err := escrowswap.NewAccountIter(accounts).Next()
	if err != nil {
		return err
	}
	if acct.Owner == owner {
		return nil
	}
	if !acct.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "assigned account")
	}
	if acct.Owner != escrowswap.SystemProgramID {
		return errors.Wrapf(errors.ErrWrongProgramOwner, "account %s", acct.Key)
	}
	acct.Owner = owner
	return nil
}

// transfer accounts:
//   0. [signer, writable] funding account
//   1. [writable] recipient account
func (p Program) transfer(accounts []*escrowswap.AccountInfo, lamports uint64) error {
	it := escrowswap.NewAccountIter(accounts)
	from, err := it.Next()
	if err != nil {
		return err
	}
	to, err := it.Next()
	if err != nil {
		return err
	}

	if !from.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "funding account")
	}
	if err := debit(from, lamports); err != nil {
		return err
	}
	if to.Lamports+lamports < to.Lamports {
		return errors.Wrapf(errors.ErrOverflow, "account %s", to.Key)
	}
	to.Lamports += lamports
	return nil
}

// debit removes lamports from an account that must be a plain wallet.
func debit(from *escrowswap.AccountInfo, lamports uint64) error {
	if len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidAccountData, "funding account %s carries data", from.Key)
	}
	if from.Owner != escrowswap.SystemProgramID {
		return errors.Wrapf(errors.ErrWrongProgramOwner, "funding account %s", from.Key)
	}
	if from.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d, need %d", from.Key, from.Lamports, lamports)
	}
	from.Lamports -= lamports
	return nil
}
