/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction.
*/
package sigs

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
)

//----------------- Decorator ----------------
//
// This is just a binding from the functionality into the
// Application stack, not much business logic here.

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ escrowswap.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Checker) (*escrowswap.CheckResult, error) {
	ctx, err := d.withVerifiedSigners(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx escrowswap.Context, store escrowswap.KVStore, tx *escrowswap.Tx, next escrowswap.Deliverer) (*escrowswap.DeliverResult, error) {
	ctx, err := d.withVerifiedSigners(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) withVerifiedSigners(ctx escrowswap.Context, tx *escrowswap.Tx) (escrowswap.Context, error) {
	chainID := escrowswap.GetChainID(ctx)
	signers, err := VerifyTxSignatures(tx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrMissingSignature, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
