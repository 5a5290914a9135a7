package utils

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ escrowswap.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Checker) (_ *escrowswap.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Deliverer) (_ *escrowswap.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
