package app_test

import (
	"context"
	"testing"

	"github.com/iov-one/escrowswap/app"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/escrowtest"
	"github.com/iov-one/escrowswap/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &escrowtest.Decorator{}
	c2 := &escrowtest.Decorator{}
	c3 := &escrowtest.Decorator{}
	h := &escrowtest.Handler{}

	stack := app.ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		nil,
		c3,
	).WithHandler(h)

	bg := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, nil)
	assert.NoError(t, err)
	_, err = stack.Deliver(bg, nil, nil)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic below the recovery
	c2.Panic = "boom"
	_, err = stack.Check(bg, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(bg, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	// the panic never reaches c3 nor the handler
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainErrorStopsExecution(t *testing.T) {
	d := &escrowtest.Decorator{DeliverErr: errors.ErrInsufficientFunds}
	h := &escrowtest.Handler{}
	stack := app.ChainDecorators(d).WithHandler(h)

	_, err := stack.Deliver(context.Background(), nil, nil)
	assert.True(t, errors.ErrInsufficientFunds.Is(err))
	assert.Equal(t, 0, h.DeliverCallCount())

	_, err = stack.Check(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
}
