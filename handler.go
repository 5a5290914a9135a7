package escrowswap

import (
	"context"

	"github.com/blocto/solana-go-sdk/types"
)

// Context is the context passed between the runtime, decorators and
// programs.
type Context = context.Context

// Handler is a core engine that can process transactions.
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx *Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx *Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or logging, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx *Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx *Tx, next Deliverer) (*DeliverResult, error)
}

// CheckResult captures the result of a transaction that passed admission.
type CheckResult struct {
	// Log is human-readable informational string
	Log string
}

// DeliverResult captures the result of an executed transaction.
type DeliverResult struct {
	// Log is human-readable informational string
	Log string
	// Modified lists the accounts whose state was written.
	Modified []PublicKey
}

// Program is the on-ledger logic owning a set of accounts.
//
// Accounts are passed in the positional order defined by the instruction.
// A program may only modify accounts it owns, and may only debit lamports
// from them. Everything else must go through the Invoker.
type Program interface {
	Process(ctx Context, env Invoker, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc allows a plain function to be used as a Program.
type ProgramFunc func(ctx Context, env Invoker, accounts []*AccountInfo, data []byte) error

// Process implements Program.
func (fn ProgramFunc) Process(ctx Context, env Invoker, accounts []*AccountInfo, data []byte) error {
	return fn(ctx, env, accounts, data)
}

// Invoker is the ledger capability a running program receives.
type Invoker interface {
	// ProgramID returns the identity of the running program.
	ProgramID() PublicKey

	// Rent returns the current rent parameters of the ledger.
	Rent() (Rent, error)

	// Invoke calls another program. Every account the instruction
	// references must be present in accounts, and signer privilege is
	// granted only to accounts that signed the caller.
	Invoke(ix types.Instruction, accounts []*AccountInfo) error

	// InvokeSigned works as Invoke, but additionally grants signer
	// privilege to every program address that can be created from one of
	// the seed sets and the caller program id.
	InvokeSigned(ix types.Instruction, accounts []*AccountInfo, signerSeeds ...[][]byte) error
}

// Authenticator reveals which keys signed the current transaction.
type Authenticator interface {
	HasSigner(ctx Context, key PublicKey) bool
}
