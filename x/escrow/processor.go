package escrow

import (
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// Processor is the escrow program.
type Processor struct{}

var _ escrowswap.Program = Processor{}

// NewProcessor returns the escrow program.
func NewProcessor() Processor {
	return Processor{}
}

// Process implements escrowswap.Program.
func (Processor) Process(ctx escrowswap.Context, env escrowswap.Invoker, accounts []*escrowswap.AccountInfo, data []byte) error {
	ix, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	p := processor{
		env:    env,
		it:     escrowswap.NewAccountIter(accounts),
		logger: escrowswap.GetLogger(ctx).With("program", "escrow"),
	}
	switch ix.Tag {
	case TagInitialize:
		return p.initialize(ix.Amount)
	case TagExchange:
		return p.exchange(ix.Amount)
	case TagCancel:
		return p.cancel()
	}
	return errors.ErrInvalidInstructionData.Newf("unknown tag %d", ix.Tag)
}

type processor struct {
	env    escrowswap.Invoker
	it     *escrowswap.AccountIter
	logger log.Logger
}

// next returns the next n accounts.
func (p *processor) next(n int) ([]*escrowswap.AccountInfo, error) {
	res := make([]*escrowswap.AccountInfo, n)
	for i := range res {
		info, err := p.it.Next()
		if err != nil {
			return nil, err
		}
		res[i] = info
	}
	return res, nil
}

func requireSigner(info *escrowswap.AccountInfo) error {
	if !info.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "account %s", info.Key)
	}
	return nil
}

func requireTokenProgram(info *escrowswap.AccountInfo) error {
	if info.Key != escrowswap.TokenProgramID {
		return errors.Wrapf(errors.ErrWrongProgramOwner, "%s is not the token program", info.Key)
	}
	return nil
}

func requireKey(name string, got *escrowswap.AccountInfo, want escrowswap.PublicKey) error {
	if got.Key != want {
		return errors.Wrapf(errors.ErrInvalidAccountData, "%s: expected %s, got %s", name, want, got.Key)
	}
	return nil
}

// loadRecord returns the initialized record held by info.
func (p *processor) loadRecord(info *escrowswap.AccountInfo) (*Record, error) {
	if info.Owner != p.env.ProgramID() {
		return nil, errors.Wrapf(errors.ErrWrongProgramOwner, "record %s", info.Key)
	}
	rec, err := UnpackRecord(info.Data)
	if err != nil {
		return nil, err
	}
	if !rec.IsInitialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "record %s", info.Key)
	}
	return rec, nil
}

// initialize accounts:
//   0. [signer] initiator
//   1. [writable] token account with the offered tokens
//   2. [] token account receiving the payment
//   3. [writable] empty record
//   4. [] token program
func (p *processor) initialize(expectedPayment uint64) error {
	accts, err := p.next(5)
	if err != nil {
		return err
	}
	initiator, locked, payout, recordInfo, tokenProgram := accts[0], accts[1], accts[2], accts[3], accts[4]

	if err := requireSigner(initiator); err != nil {
		return err
	}
	if _, err := token.UnpackAccount(payout.Data); err != nil {
		return errors.ErrInvalidAccountData.Newf("payout account %s: %s", payout.Key, err)
	}
	if payout.Owner != escrowswap.TokenProgramID {
		return errors.Wrapf(errors.ErrWrongProgramOwner, "payout account %s", payout.Key)
	}
	rent, err := p.env.Rent()
	if err != nil {
		return err
	}
	if !rent.IsExempt(recordInfo.Lamports, len(recordInfo.Data)) {
		return errors.Wrapf(errors.ErrNotRentExempt, "record %s", recordInfo.Key)
	}
	rec, err := UnpackRecord(recordInfo.Data)
	if err != nil {
		return err
	}
	if rec.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "record %s", recordInfo.Key)
	}
	if recordInfo.Owner != p.env.ProgramID() {
		return errors.Wrapf(errors.ErrWrongProgramOwner, "record %s", recordInfo.Key)
	}
	if err := requireTokenProgram(tokenProgram); err != nil {
		return err
	}

	custody, bump, err := FindCustodyAddress(p.env.ProgramID(), initiator.Key)
	if err != nil {
		return err
	}
	*rec = Record{
		IsInitialized:   true,
		Initiator:       initiator.Key,
		LockedAccount:   locked.Key,
		PayoutAccount:   payout.Key,
		ExpectedPayment: expectedPayment,
		CustodyBump:     bump,
	}
	if err := rec.Pack(recordInfo.Data); err != nil {
		return err
	}

	ix := sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
		Account:  locked.Key,
		NewAuth:  &custody,
		AuthType: sdktoken.AuthorityTypeAccountOwner,
		Auth:     initiator.Key,
	})
	if err := p.env.Invoke(ix, []*escrowswap.AccountInfo{locked, initiator, tokenProgram}); err != nil {
		return errors.Wrap(err, "lock tokens")
	}
	p.logger.Debug("initialized", "record", recordInfo.Key.String(), "custody", custody.String(), "payment", expectedPayment)
	return nil
}

// exchange accounts:
//   0. [signer] counterparty
//   1. [writable] counterparty token account paying
//   2. [writable] counterparty token account receiving the locked tokens
//   3. [writable] locked token account
//   4. [writable] initiator
//   5. [writable] initiator token account receiving the payment
//   6. [writable] record
//   7. [] token program
//   8. [] custody address
func (p *processor) exchange(expectedLocked uint64) error {
	accts, err := p.next(9)
	if err != nil {
		return err
	}
	counterparty, payment, receiving, locked := accts[0], accts[1], accts[2], accts[3]
	initiator, payout, recordInfo, tokenProgram, custody := accts[4], accts[5], accts[6], accts[7], accts[8]

	if err := requireSigner(counterparty); err != nil {
		return err
	}
	rec, err := p.loadRecord(recordInfo)
	if err != nil {
		return err
	}
	if err := requireKey("initiator", initiator, rec.Initiator); err != nil {
		return err
	}
	if err := requireKey("payout account", payout, rec.PayoutAccount); err != nil {
		return err
	}
	custodyKey, err := CustodyAddress(p.env.ProgramID(), rec.Initiator, rec.CustodyBump)
	if err != nil {
		return err
	}
	if err := requireKey("custody", custody, custodyKey); err != nil {
		return err
	}
	if err := requireKey("locked account", locked, rec.LockedAccount); err != nil {
		return err
	}
	lockedState, err := token.UnpackAccount(locked.Data)
	if err != nil {
		return err
	}
	if lockedState.Amount != expectedLocked {
		return errors.Wrapf(errors.ErrInsufficientFunds, "locked account holds %d, expected %d", lockedState.Amount, expectedLocked)
	}
	if err := requireTokenProgram(tokenProgram); err != nil {
		return err
	}

	pay := sdktoken.Transfer(sdktoken.TransferParam{
		From:   payment.Key,
		To:     payout.Key,
		Auth:   counterparty.Key,
		Amount: rec.ExpectedPayment,
	})
	if err := p.env.Invoke(pay, []*escrowswap.AccountInfo{payment, payout, counterparty, tokenProgram}); err != nil {
		return errors.Wrap(err, "payment")
	}
	if err := p.release(rec, locked, receiving, initiator, custody, tokenProgram, lockedState.Amount); err != nil {
		return err
	}
	if err := closeRecord(recordInfo, initiator); err != nil {
		return err
	}
	p.logger.Debug("exchanged", "record", recordInfo.Key.String(), "counterparty", counterparty.Key.String(),
		"payment", rec.ExpectedPayment, "released", lockedState.Amount)
	return nil
}

// cancel accounts:
//   0. [signer, writable] initiator
//   1. [writable] record
//   2. [writable] locked token account
//   3. [writable] initiator token account reclaiming the locked tokens
//   4. [] token program
//   5. [] custody address
func (p *processor) cancel() error {
	accts, err := p.next(6)
	if err != nil {
		return err
	}
	initiator, recordInfo, locked, reclaim, tokenProgram, custody := accts[0], accts[1], accts[2], accts[3], accts[4], accts[5]

	rec, err := p.loadRecord(recordInfo)
	if err != nil {
		return err
	}
	if err := requireKey("locked account", locked, rec.LockedAccount); err != nil {
		return err
	}
	custodyKey, err := CustodyAddress(p.env.ProgramID(), rec.Initiator, rec.CustodyBump)
	if err != nil {
		return err
	}
	if err := requireKey("custody", custody, custodyKey); err != nil {
		return err
	}
	if err := requireSigner(initiator); err != nil {
		return err
	}
	if err := requireKey("initiator", initiator, rec.Initiator); err != nil {
		return err
	}
	if err := requireTokenProgram(tokenProgram); err != nil {
		return err
	}

	lockedState, err := token.UnpackAccount(locked.Data)
	if err != nil {
		return err
	}
	if err := p.release(rec, locked, reclaim, initiator, custody, tokenProgram, lockedState.Amount); err != nil {
		return err
	}
	if err := closeRecord(recordInfo, initiator); err != nil {
		return err
	}
	p.logger.Debug("cancelled", "record", recordInfo.Key.String(), "reclaimed", lockedState.Amount)
	return nil
}

// release moves amount out of the locked account, signed by the custody
// address, and closes it returning the deposit to the initiator.
func (p *processor) release(rec *Record, locked, to, initiator, custody, tokenProgram *escrowswap.AccountInfo, amount uint64) error {
	seeds := custodySeeds(rec.Initiator, rec.CustodyBump)

	transfer := sdktoken.Transfer(sdktoken.TransferParam{
		From:   locked.Key,
		To:     to.Key,
		Auth:   custody.Key,
		Amount: amount,
	})
	if err := p.env.InvokeSigned(transfer, []*escrowswap.AccountInfo{locked, to, custody, tokenProgram}, seeds); err != nil {
		return errors.Wrap(err, "release locked tokens")
	}
	closeIx := sdktoken.CloseAccount(sdktoken.CloseAccountParam{
		Account: locked.Key,
		To:      initiator.Key,
		Auth:    custody.Key,
	})
	if err := p.env.InvokeSigned(closeIx, []*escrowswap.AccountInfo{locked, initiator, custody, tokenProgram}, seeds); err != nil {
		return errors.Wrap(err, "close locked account")
	}
	return nil
}
