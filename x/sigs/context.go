package sigs

import (
	"context"

	"github.com/iov-one/escrowswap"
)

//------------------- Context --------
// Add context information specific to this package

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx escrowswap.Context, signers []escrowswap.PublicKey) escrowswap.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gives access to the keys whose signatures were verified by
// the Decorator.
type Authenticate struct{}

var _ escrowswap.Authenticator = Authenticate{}

// GetSigners returns who signed the current Context.
// May be empty
func (a Authenticate) GetSigners(ctx escrowswap.Context) []escrowswap.PublicKey {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]escrowswap.PublicKey)
	return val
}

// HasSigner returns true if the key signed the current transaction.
func (a Authenticate) HasSigner(ctx escrowswap.Context, key escrowswap.PublicKey) bool {
	for _, s := range a.GetSigners(ctx) {
		if s == key {
			return true
		}
	}
	return false
}
