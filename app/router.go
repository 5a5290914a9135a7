package app

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
)

// Router maps program ids to the programs that execute their instructions.
type Router struct {
	programs map[escrowswap.PublicKey]escrowswap.Program
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		programs: make(map[escrowswap.PublicKey]escrowswap.Program),
	}
}

// Register adds a program under the given id.
//
// panics if another program is already registered for the id
func (r *Router) Register(id escrowswap.PublicKey, p escrowswap.Program) {
	if _, ok := r.programs[id]; ok {
		panic("program already registered: " + id.String())
	}
	r.programs[id] = p
}

// Program returns the program registered for the id, or ErrUnknownProgram.
func (r *Router) Program(id escrowswap.PublicKey) (escrowswap.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownProgram, "program %s", id)
	}
	return p, nil
}
