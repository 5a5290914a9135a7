package escrowswap

import (
	"context"
	"regexp"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the escrowswap module

const (
	contextKeyChainID contextKey = iota
	contextKeyLogger
	contextKeySlot
	contextKeyDepth
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// WithChainID sets the chain id for the Context.
// panics if called with chain id already set
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain ID already set in Context")
	}
	if !IsValidChainID(chainID) {
		panic("Invalid chain ID")
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id
// panics if chain id not already set (should never happen)
func GetChainID(ctx Context) string {
	if x := ctx.Value(contextKeyChainID); x == nil {
		panic("Chain id is not in context")
	}
	return ctx.Value(contextKeyChainID).(string)
}

// WithSlot sets the slot (block height) the transaction is executed in.
// panics if slot already set
func WithSlot(ctx Context, slot uint64) Context {
	if _, ok := GetSlot(ctx); ok {
		panic("Slot already set in Context")
	}
	return context.WithValue(ctx, contextKeySlot, slot)
}

// GetSlot returns the slot, if set.
func GetSlot(ctx Context) (uint64, bool) {
	val, ok := ctx.Value(contextKeySlot).(uint64)
	return val, ok
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithInvokeDepth records how deep in nested program invocations the
// context is.
func WithInvokeDepth(ctx Context, depth int) Context {
	return context.WithValue(ctx, contextKeyDepth, depth)
}

// GetInvokeDepth returns the current invocation depth. Top level
// instructions run at depth one, zero means no program is running.
func GetInvokeDepth(ctx Context) int {
	val, _ := ctx.Value(contextKeyDepth).(int)
	return val
}
