package app

import (
	"bytes"
	"fmt"
	"math/bits"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/sysvar"
)

// MaxInvokeDepth is the deepest a chain of program invocations may go,
// counting the top level instruction.
const MaxInvokeDepth = 4

// Executor is the final handler of the stack. It runs every instruction of
// a transaction through the program registered for it and persists the
// resulting account state.
type Executor struct {
	router *Router
	auth   escrowswap.Authenticator
}

var _ escrowswap.Handler = (*Executor)(nil)

// NewExecutor returns an executor dispatching to the programs of the router.
// Signer flags are granted only to keys the authenticator confirms.
func NewExecutor(r *Router, auth escrowswap.Authenticator) *Executor {
	return &Executor{router: r, auth: auth}
}

// Check makes sure the transaction is well formed, that every program it
// calls is known and that every required signature is present. It does not
// execute anything.
func (e *Executor) Check(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx) (*escrowswap.CheckResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	for i, ix := range tx.Instructions {
		if _, err := e.router.Program(ix.ProgramID); err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
	}
	for _, key := range tx.RequiredSigners() {
		if !e.auth.HasSigner(ctx, key) {
			return nil, errors.Wrapf(errors.ErrMissingSignature, "signer %s", key)
		}
	}
	return &escrowswap.CheckResult{
		Log: fmt.Sprintf("%d instructions", len(tx.Instructions)),
	}, nil
}

// Deliver executes all instructions in order. The first failure aborts the
// transaction. Rolling back the writes of previous instructions is the job
// of a Savepoint decorator.
func (e *Executor) Deliver(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx) (*escrowswap.DeliverResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	var modified []escrowswap.PublicKey
	seen := make(map[escrowswap.PublicKey]bool)
	for i, ix := range tx.Instructions {
		written, err := e.execute(ctx, store, ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		for _, k := range written {
			if !seen[k] {
				seen[k] = true
				modified = append(modified, k)
			}
		}
	}
	return &escrowswap.DeliverResult{
		Log:      fmt.Sprintf("%d instructions", len(tx.Instructions)),
		Modified: modified,
	}, nil
}

// execute runs a single top level instruction and returns the keys of the
// accounts it persisted.
func (e *Executor) execute(ctx escrowswap.Context, store escrowswap.KVStore, ix types.Instruction) ([]escrowswap.PublicKey, error) {
	program, err := e.router.Program(ix.ProgramID)
	if err != nil {
		return nil, err
	}

	shared := make(map[escrowswap.PublicKey]*escrowswap.Account, len(ix.Accounts))
	for _, m := range ix.Accounts {
		if m.IsSigner && !e.auth.HasSigner(ctx, m.PubKey) {
			return nil, errors.Wrapf(errors.ErrMissingSignature, "signer %s", m.PubKey)
		}
		if _, ok := shared[m.PubKey]; ok {
			continue
		}
		acct, err := escrowswap.LoadAccount(store, m.PubKey)
		if err != nil {
			return nil, err
		}
		shared[m.PubKey] = acct
	}

	f := newFrame(e, ctx, store, nil, ix, func(key escrowswap.PublicKey) *escrowswap.Account {
		return shared[key]
	})
	if err := f.run(program); err != nil {
		return nil, err
	}

	written := make([]escrowswap.PublicKey, 0, len(f.order))
	for _, key := range f.order {
		if !f.writable[key] {
			continue
		}
		if err := escrowswap.SaveAccount(store, key, shared[key]); err != nil {
			return nil, errors.Wrapf(err, "save account %s", key)
		}
		written = append(written, key)
	}
	return written, nil
}

// frame is a single program execution, either a top level instruction or a
// nested invocation. It implements escrowswap.Invoker for the running
// program.
//
// Privileges are tracked by the frame itself. Flags of the AccountInfo
// values handed to the program are informational only.
type frame struct {
	exec      *Executor
	ctx       escrowswap.Context
	store     escrowswap.KVStore
	parent    *frame
	depth     int
	programID escrowswap.PublicKey
	data      []byte

	metas    []types.AccountMeta
	order    []escrowswap.PublicKey
	accounts map[escrowswap.PublicKey]*escrowswap.Account
	signer   map[escrowswap.PublicKey]bool
	writable map[escrowswap.PublicKey]bool
	snapshot map[escrowswap.PublicKey]*escrowswap.Account
}

var _ escrowswap.Invoker = (*frame)(nil)

func newFrame(
	exec *Executor,
	ctx escrowswap.Context,
	store escrowswap.KVStore,
	parent *frame,
	ix types.Instruction,
	lookup func(escrowswap.PublicKey) *escrowswap.Account,
) *frame {
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	f := &frame{
		exec:      exec,
		ctx:       escrowswap.WithInvokeDepth(ctx, depth),
		store:     store,
		parent:    parent,
		depth:     depth,
		programID: ix.ProgramID,
		data:      ix.Data,
		metas:     ix.Accounts,
		accounts:  make(map[escrowswap.PublicKey]*escrowswap.Account, len(ix.Accounts)),
		signer:    make(map[escrowswap.PublicKey]bool, len(ix.Accounts)),
		writable:  make(map[escrowswap.PublicKey]bool, len(ix.Accounts)),
	}
	for _, m := range ix.Accounts {
		if _, ok := f.accounts[m.PubKey]; !ok {
			f.accounts[m.PubKey] = lookup(m.PubKey)
			f.order = append(f.order, m.PubKey)
		}
		f.signer[m.PubKey] = f.signer[m.PubKey] || m.IsSigner
		f.writable[m.PubKey] = f.writable[m.PubKey] || m.IsWritable
	}
	f.takeSnapshot()
	return f
}

// run executes the program within this frame and verifies the state it
// left behind.
func (f *frame) run(program escrowswap.Program) error {
	infos := make([]*escrowswap.AccountInfo, len(f.metas))
	for i, m := range f.metas {
		infos[i] = &escrowswap.AccountInfo{
			Key:        m.PubKey,
			IsSigner:   f.signer[m.PubKey],
			IsWritable: f.writable[m.PubKey],
			Account:    f.accounts[m.PubKey],
		}
	}
	if err := program.Process(f.ctx, f, infos, f.data); err != nil {
		return err
	}
	return f.verify()
}

func (f *frame) takeSnapshot() {
	f.snapshot = make(map[escrowswap.PublicKey]*escrowswap.Account, len(f.accounts))
	for key, acct := range f.accounts {
		f.snapshot[key] = acct.Copy()
	}
}

// verify compares the current account state with the snapshot and returns
// an error if the running program changed anything it was not allowed to.
func (f *frame) verify() error {
	var preHi, preLo, postHi, postLo uint64
	for _, key := range f.order {
		pre, post := f.snapshot[key], f.accounts[key]

		var carry uint64
		preLo, carry = bits.Add64(preLo, pre.Lamports, 0)
		preHi += carry
		postLo, carry = bits.Add64(postLo, post.Lamports, 0)
		postHi += carry

		owned := pre.Owner == f.programID
		writable := f.writable[key]

		if pre.Executable != post.Executable {
			return errors.Wrapf(errors.ErrIllegalModification, "executable flag of %s", key)
		}
		if pre.Owner != post.Owner {
			if !owned || !writable || !isZeroed(post.Data) {
				return errors.Wrapf(errors.ErrIllegalModification, "owner of %s", key)
			}
		}
		if !bytes.Equal(pre.Data, post.Data) {
			if !owned || !writable {
				return errors.Wrapf(errors.ErrIllegalModification, "data of %s", key)
			}
		}
		if post.Lamports < pre.Lamports && (!owned || !writable) {
			return errors.Wrapf(errors.ErrIllegalModification, "debit of %s", key)
		}
		if post.Lamports > pre.Lamports && !writable {
			return errors.Wrapf(errors.ErrIllegalModification, "credit of read-only %s", key)
		}
	}
	if preHi != postHi || preLo != postLo {
		return errors.Wrapf(errors.ErrUnbalanced, "program %s", f.programID)
	}
	return nil
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// ProgramID implements escrowswap.Invoker.
func (f *frame) ProgramID() escrowswap.PublicKey {
	return f.programID
}

// Rent implements escrowswap.Invoker.
func (f *frame) Rent() (escrowswap.Rent, error) {
	return sysvar.LoadRent(f.store)
}

// Invoke implements escrowswap.Invoker.
func (f *frame) Invoke(ix types.Instruction, accounts []*escrowswap.AccountInfo) error {
	return f.invoke(ix, accounts, nil)
}

// InvokeSigned implements escrowswap.Invoker.
func (f *frame) InvokeSigned(ix types.Instruction, accounts []*escrowswap.AccountInfo, signerSeeds ...[][]byte) error {
	signers := make(map[escrowswap.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := escrowswap.CreateProgramAddress(seeds, f.programID)
		if err != nil {
			return err
		}
		signers[addr] = true
	}
	return f.invoke(ix, accounts, signers)
}

func (f *frame) invoke(ix types.Instruction, accounts []*escrowswap.AccountInfo, derived map[escrowswap.PublicKey]bool) error {
	if f.depth >= MaxInvokeDepth {
		return errors.Wrapf(errors.ErrCallDepth, "depth %d", f.depth+1)
	}
	// Only direct recursion is allowed.
	if ix.ProgramID != f.programID {
		for p := f.parent; p != nil; p = p.parent {
			if p.programID == ix.ProgramID {
				return errors.Wrapf(errors.ErrPrivilegeEscalation, "reentrant call into %s", ix.ProgramID)
			}
		}
	}
	program, err := f.exec.router.Program(ix.ProgramID)
	if err != nil {
		return err
	}

	passed := make(map[escrowswap.PublicKey]bool, len(accounts))
	for _, a := range accounts {
		passed[a.Key] = true
	}
	for _, m := range ix.Accounts {
		if _, ok := f.accounts[m.PubKey]; !ok || !passed[m.PubKey] {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s not available to %s", m.PubKey, f.programID)
		}
		if m.IsWritable && !f.writable[m.PubKey] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "writable %s", m.PubKey)
		}
		if m.IsSigner && !f.signer[m.PubKey] && !derived[m.PubKey] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "signer %s", m.PubKey)
		}
	}

	// Changes made so far must be legal for the caller, the callee is
	// checked against its own entry state.
	if err := f.verify(); err != nil {
		return err
	}

	callee := newFrame(f.exec, f.ctx, f.store, f, ix, func(key escrowswap.PublicKey) *escrowswap.Account {
		return f.accounts[key]
	})
	escrowswap.GetLogger(f.ctx).Debug("invoke", "caller", f.programID.String(), "program", ix.ProgramID.String(), "depth", callee.depth)
	if err := callee.run(program); err != nil {
		return err
	}
	f.takeSnapshot()
	return nil
}
