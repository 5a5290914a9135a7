package escrowswap

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// test slot - uninitialized
	val, ok := GetSlot(ctx)
	assert.Equal(t, uint64(0), val)
	assert.False(t, ok)
	// set
	ctx = WithSlot(ctx, 7)
	val, ok = GetSlot(ctx)
	assert.Equal(t, uint64(7), val)
	assert.True(t, ok)
	// no reset
	assert.Panics(t, func() { WithSlot(ctx, 9) })

	// changing the info, should modify the logger, but not the slot
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	val, _ = GetSlot(ctx2)
	assert.Equal(t, uint64(7), val)

	// chain id MUST be set exactly once
	assert.Panics(t, func() { GetChainID(ctx) })
	ctx2 = WithChainID(ctx, "my-chain")
	assert.Equal(t, "my-chain", GetChainID(ctx2))
	// don't try a second time
	assert.Panics(t, func() { WithChainID(ctx2, "my-chain") })

	// nested invocations start at the top level
	assert.Equal(t, 0, GetInvokeDepth(ctx))
	assert.Equal(t, 2, GetInvokeDepth(WithInvokeDepth(ctx, 2)))
}

func TestChainID(t *testing.T) {
	cases := []struct {
		chainID string
		valid   bool
	}{
		{"", false},
		{"foo", false},
		{"special", true},
		{"wish-YOU-88", true},
		{"invalid;;chars", false},
		{"this-chain-id-is-way-too-long", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidChainID(tc.chainID), tc.chainID)
	}
}
