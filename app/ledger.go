package app

import (
	"context"
	"sync"
	"time"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/store"
	"github.com/iov-one/escrowswap/sysvar"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger owns the committed state and runs transactions against it.
//
// All methods are serialized, a transaction always runs to completion
// before the next one starts.
type Ledger struct {
	mu sync.Mutex

	logger  log.Logger
	store   *CommitStore
	handler escrowswap.Handler

	// chainID is loaded from db in initialization
	// saved once in InitGenesis
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this ledger (eg. chainID)
	baseContext escrowswap.Context

	// slot is the slot transactions are currently delivered in
	slot uint64
	now  func() time.Time
}

// KeyedAccount is an account together with its address.
type KeyedAccount struct {
	Key escrowswap.PublicKey
	*escrowswap.Account
}

// NewLedger loads the latest state from the store and returns a ledger
// executing transactions with the given handler.
func NewLedger(db escrowswap.CommitKVStore, handler escrowswap.Handler, logger log.Logger) (*Ledger, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	l := &Ledger{
		logger:      logger,
		store:       cs,
		handler:     handler,
		baseContext: escrowswap.WithLogger(context.Background(), logger),
		now:         time.Now,
	}

	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		l.setChainID(chainID)
	}

	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	l.slot = uint64(info.Version) + 1
	return l, nil
}

// WithClock replaces the time source used to stamp committed slots.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
	return l
}

func (l *Ledger) setChainID(chainID string) {
	l.chainID = chainID
	l.baseContext = escrowswap.WithChainID(l.baseContext, chainID)
}

// ChainID returns the chain id set at genesis, or an empty string.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// Slot returns the slot the next transaction is delivered in.
func (l *Ledger) Slot() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slot
}

// InitGenesis writes the initial state. It can be called only once in the
// lifetime of the ledger state. The state must be committed afterwards.
func (l *Ledger) InitGenesis(g *Genesis) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "genesis previously loaded for chain: %s", l.chainID)
	}
	if err := g.Validate(); err != nil {
		return err
	}
	db := l.store.DeliverStore()
	if err := saveChainID(db, g.ChainID); err != nil {
		return err
	}
	if err := g.apply(db); err != nil {
		return err
	}
	l.setChainID(g.ChainID)
	l.logger.Info("genesis loaded", "chain_id", g.ChainID, "accounts", len(g.Accounts))
	return nil
}

func (l *Ledger) context(call string) (escrowswap.Context, error) {
	if l.chainID == "" {
		return nil, errors.Wrap(errors.ErrNotFound, "chain id not set, load genesis first")
	}
	ctx := escrowswap.WithLogInfo(l.baseContext, "call", call, "slot", l.slot)
	return escrowswap.WithSlot(ctx, l.slot), nil
}

// CheckTx runs the admission checks of the handler against the check
// state.
func (l *Ledger) CheckTx(tx *escrowswap.Tx) (*escrowswap.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, err := l.context("check_tx")
	if err != nil {
		return nil, err
	}
	return l.handler.Check(ctx, l.store.CheckStore(), tx)
}

// DeliverTx executes the transaction against the deliver state.
func (l *Ledger) DeliverTx(tx *escrowswap.Tx) (*escrowswap.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, err := l.context("deliver_tx")
	if err != nil {
		return nil, err
	}
	return l.handler.Deliver(ctx, l.store.DeliverStore(), tx)
}

// DeliverTxBytes decodes a serialized transaction and delivers it.
func (l *Ledger) DeliverTxBytes(raw []byte) (*escrowswap.DeliverResult, error) {
	tx, err := loadTx(raw)
	if err != nil {
		return nil, err
	}
	return l.DeliverTx(tx)
}

// loadTx calls the decoder, and capture any panics
func loadTx(raw []byte) (tx *escrowswap.Tx, err error) {
	defer errors.Recover(&err)
	tx = new(escrowswap.Tx)
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return tx, nil
}

// Simulate executes the transaction on top of the deliver state and
// throws every change away.
func (l *Ledger) Simulate(tx *escrowswap.Tx) (*escrowswap.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, err := l.context("simulate")
	if err != nil {
		return nil, err
	}
	cache := l.store.DeliverStore().CacheWrap()
	defer cache.Discard()
	return l.handler.Deliver(ctx, cache, tx)
}

// Commit stamps the clock sysvar for the current slot and persists all
// delivered transactions.
func (l *Ledger) Commit() (escrowswap.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	clock := sysvar.Clock{Slot: l.slot, UnixTimestamp: l.now().Unix()}
	if err := sysvar.SaveClock(l.store.DeliverStore(), clock); err != nil {
		return escrowswap.CommitID{}, errors.Wrap(err, "clock sysvar")
	}
	id, err := l.store.Commit()
	if err != nil {
		return id, err
	}
	l.slot = uint64(id.Version) + 1
	l.logger.Info("committed", "version", id.Version, "hash", escrowswap.HexBytes(id.Hash).String())
	return id, nil
}

// Account returns the latest delivered state of an account. Missing
// accounts are returned empty and owned by the system program.
func (l *Ledger) Account(key escrowswap.PublicKey) (*escrowswap.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return escrowswap.LoadAccount(l.store.DeliverStore(), key)
}

// ProgramAccounts returns all existing accounts owned by the program, in
// key order.
func (l *Ledger) ProgramAccounts(owner escrowswap.PublicKey) ([]KeyedAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res []KeyedAccount
	err := store.EachAccount(l.store.DeliverStore(), func(key escrowswap.PublicKey, acct *escrowswap.Account) error {
		if acct.Owner == owner {
			res = append(res, KeyedAccount{Key: key, Account: acct})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// TokenBalance returns the token amount held by a token account.
func (l *Ledger) TokenBalance(key escrowswap.PublicKey) (uint64, error) {
	acct, err := l.Account(key)
	if err != nil {
		return 0, err
	}
	if acct.Owner != escrowswap.TokenProgramID {
		return 0, errors.Wrapf(errors.ErrWrongProgramOwner, "account %s", key)
	}
	ta, err := sdktoken.TokenAccountFromData(acct.Data)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return ta.Amount, nil
}
