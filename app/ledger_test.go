package app_test

import (
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/app"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/store/iavl"
	"github.com/iov-one/escrowswap/sysvar"
	"github.com/iov-one/escrowswap/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerGenesis(t *testing.T) {
	db := iavl.NewMemCommitStore()
	handler := app.Stack(app.DefaultRouter(app.DefaultEscrowProgramID))

	l, err := app.NewLedger(db, handler, nil)
	require.NoError(t, err)
	assert.Equal(t, "", l.ChainID())
	assert.Equal(t, uint64(1), l.Slot())

	_, err = l.DeliverTx(&escrowswap.Tx{})
	assert.True(t, errors.ErrNotFound.Is(err))

	err = l.InitGenesis(&app.Genesis{ChainID: "x"})
	assert.True(t, errors.ErrInput.Is(err))

	g := &app.Genesis{
		ChainID:  "genesis-test",
		Accounts: []app.GenesisAccount{{Address: app.Key(walletKey), Lamports: 5}},
	}
	require.NoError(t, l.InitGenesis(g))
	err = l.InitGenesis(g)
	assert.True(t, errors.ErrAlreadyInitialized.Is(err))

	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	l.WithClock(func() time.Time { return stamp })
	id, err := l.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.Equal(t, uint64(2), l.Slot())

	clockAcct, err := l.Account(sysvar.ClockID)
	require.NoError(t, err)
	var clock sysvar.Clock
	require.NoError(t, sysvar.FromAccount(clockAcct.Data, &clock))
	assert.Equal(t, sysvar.Clock{Slot: 1, UnixTimestamp: stamp.Unix()}, clock)

	rentAcct, err := l.Account(sysvar.RentID)
	require.NoError(t, err)
	var rent sysvar.Rent
	require.NoError(t, sysvar.FromAccount(rentAcct.Data, &rent))

	// state survives reopening the store
	again, err := app.NewLedger(db, handler, nil)
	require.NoError(t, err)
	assert.Equal(t, "genesis-test", again.ChainID())
	assert.Equal(t, uint64(2), again.Slot())
	assert.Equal(t, uint64(5), lamports(t, again, walletKey))
}

func TestSimulateDiscardsChanges(t *testing.T) {
	l, signer := newTestLedger(t, noop, noop)

	tx := &escrowswap.Tx{Instructions: []types.Instruction{
		system.Transfer(system.TransferParam{From: signer.PublicKey(), To: walletKey, Amount: 30}),
	}}
	require.NoError(t, sigs.Sign(tx, testChainID, signer))

	res, err := l.Simulate(tx)
	require.NoError(t, err)
	assert.Equal(t, []escrowswap.PublicKey{signer.PublicKey(), walletKey}, res.Modified)
	assert.Equal(t, uint64(1000), lamports(t, l, signer.PublicKey()))
	assert.Equal(t, uint64(100), lamports(t, l, walletKey))

	raw, err := tx.Marshal()
	require.NoError(t, err)
	_, err = l.DeliverTxBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(970), lamports(t, l, signer.PublicKey()))
	assert.Equal(t, uint64(130), lamports(t, l, walletKey))

	_, err = l.DeliverTxBytes([]byte("not a transaction"))
	assert.Error(t, err)
}

func TestProgramAccounts(t *testing.T) {
	l, _ := newTestLedger(t, noop, noop)

	accts, err := l.ProgramAccounts(programA)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.Equal(t, ownedKey, accts[0].Key)
	assert.Equal(t, uint64(100), accts[0].Lamports)

	accts, err = l.ProgramAccounts(escrowswap.SystemProgramID)
	require.NoError(t, err)
	// signer, wallet and vault
	assert.Len(t, accts, 3)
	for i := 1; i < len(accts); i++ {
		assert.True(t, string(accts[i-1].Key[:]) < string(accts[i].Key[:]), "accounts must be sorted")
	}

	_, err = l.TokenBalance(walletKey)
	assert.True(t, errors.ErrWrongProgramOwner.Is(err))
}
