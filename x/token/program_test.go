package token_test

import (
	"testing"

	"github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/crypto"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/escrowtest"
	"github.com/iov-one/escrowswap/escrowtest/assert"
	"github.com/iov-one/escrowswap/x/token"
)

func TestMintAndTransfer(t *testing.T) {
	alice, bob := escrowtest.NewKey(), escrowtest.NewKey()
	l := escrowtest.NewLedger(t, alice.PublicKey(), bob.PublicKey())

	mint := l.CreateMint()
	from := l.CreateTokenAccount(mint, alice.PublicKey())
	to := l.CreateTokenAccount(mint, bob.PublicKey())
	l.MintTo(mint, from, 1000)

	acct, err := l.Account(mint)
	assert.Nil(t, err)
	m, err := token.UnpackMint(acct.Data)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), m.Supply)

	l.MustDeliver([]crypto.Signer{alice}, sdktoken.Transfer(sdktoken.TransferParam{
		From:   from,
		To:     to,
		Auth:   alice.PublicKey(),
		Amount: 400,
	}))
	assert.Equal(t, uint64(600), l.Tokens(from))
	assert.Equal(t, uint64(400), l.Tokens(to))
}

func TestTransferFailures(t *testing.T) {
	alice, bob := escrowtest.NewKey(), escrowtest.NewKey()
	l := escrowtest.NewLedger(t, alice.PublicKey(), bob.PublicKey())

	mint := l.CreateMint()
	other := l.CreateMint()
	from := l.CreateTokenAccount(mint, alice.PublicKey())
	to := l.CreateTokenAccount(mint, bob.PublicKey())
	foreign := l.CreateTokenAccount(other, bob.PublicKey())
	l.MintTo(mint, from, 100)

	transfer := func(to escrowswap.PublicKey, auth escrowswap.PublicKey, amount uint64) types.Instruction {
		return sdktoken.Transfer(sdktoken.TransferParam{From: from, To: to, Auth: auth, Amount: amount})
	}

	cases := map[string]struct {
		signer  crypto.Signer
		ix      types.Instruction
		wantErr *errors.Error
	}{
		"not enough tokens": {
			signer:  alice,
			ix:      transfer(to, alice.PublicKey(), 101),
			wantErr: errors.ErrInsufficientFunds,
		},
		"different mint": {
			signer:  alice,
			ix:      transfer(foreign, alice.PublicKey(), 1),
			wantErr: errors.ErrMintMismatch,
		},
		"not the owner": {
			signer:  bob,
			ix:      transfer(to, bob.PublicKey(), 1),
			wantErr: errors.ErrOwnerMismatch,
		},
		"destination not a token account": {
			signer:  alice,
			ix:      transfer(bob.PublicKey(), alice.PublicKey(), 1),
			wantErr: errors.ErrWrongProgramOwner,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := l.Deliver([]crypto.Signer{tc.signer}, tc.ix)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, uint64(100), l.Tokens(from))
		})
	}
}

func TestSetAuthority(t *testing.T) {
	alice, bob := escrowtest.NewKey(), escrowtest.NewKey()
	l := escrowtest.NewLedger(t, alice.PublicKey(), bob.PublicKey())

	mint := l.CreateMint()
	acct := l.CreateTokenAccount(mint, alice.PublicKey())
	l.MintTo(mint, acct, 10)

	newOwner := bob.PublicKey()
	l.MustDeliver([]crypto.Signer{alice}, sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
		Account:  acct,
		NewAuth:  &newOwner,
		AuthType: sdktoken.AuthorityTypeAccountOwner,
		Auth:     alice.PublicKey(),
	}))

	_, err := l.Deliver([]crypto.Signer{alice}, sdktoken.Transfer(sdktoken.TransferParam{
		From: acct, To: acct, Auth: alice.PublicKey(), Amount: 1,
	}))
	assert.IsErr(t, errors.ErrOwnerMismatch, err)

	// the owner cannot be cleared
	_, err = l.Deliver([]crypto.Signer{bob}, sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
		Account:  acct,
		AuthType: sdktoken.AuthorityTypeAccountOwner,
		Auth:     bob.PublicKey(),
	}))
	assert.IsErr(t, errors.ErrInvalidInstructionData, err)

	// disable minting
	l.MustDeliver([]crypto.Signer{l.Payer}, sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
		Account:  mint,
		AuthType: sdktoken.AuthorityTypeMintTokens,
		Auth:     l.Payer.PublicKey(),
	}))
	_, err = l.Deliver([]crypto.Signer{l.Payer}, sdktoken.MintTo(sdktoken.MintToParam{
		Mint: mint, To: acct, Auth: l.Payer.PublicKey(), Amount: 1,
	}))
	assert.IsErr(t, errors.ErrOwnerMismatch, err)
}

func TestCloseAccount(t *testing.T) {
	alice := escrowtest.NewKey()
	l := escrowtest.NewLedger(t, alice.PublicKey())

	mint := l.CreateMint()
	acct := l.CreateTokenAccount(mint, alice.PublicKey())
	l.MintTo(mint, acct, 5)

	closeIx := sdktoken.CloseAccount(sdktoken.CloseAccountParam{
		Account: acct,
		To:      alice.PublicKey(),
		Auth:    alice.PublicKey(),
	})
	_, err := l.Deliver([]crypto.Signer{alice}, closeIx)
	assert.IsErr(t, errors.ErrNonZeroBalance, err)

	sink := l.CreateTokenAccount(mint, alice.PublicKey())
	deposit := l.Lamports(acct)
	before := l.Lamports(alice.PublicKey())
	l.MustDeliver([]crypto.Signer{alice},
		sdktoken.Transfer(sdktoken.TransferParam{From: acct, To: sink, Auth: alice.PublicKey(), Amount: 5}),
		closeIx,
	)
	assert.Equal(t, before+deposit, l.Lamports(alice.PublicKey()))
	assert.Equal(t, uint64(0), l.Lamports(acct))
}

func TestInitializeTwice(t *testing.T) {
	l := escrowtest.NewLedger(t)
	mint := l.CreateMint()
	acct := l.CreateTokenAccount(mint, l.Payer.PublicKey())

	_, err := l.Deliver([]crypto.Signer{l.Payer}, sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
		Account: acct,
		Mint:    mint,
		Owner:   l.Payer.PublicKey(),
	}))
	assert.IsErr(t, errors.ErrAlreadyInitialized, err)
}

func TestNotRentExempt(t *testing.T) {
	l := escrowtest.NewLedger(t)
	mint := escrowtest.NewKey()
	create := system.CreateAccount(system.CreateAccountParam{
		From:     l.Payer.PublicKey(),
		New:      mint.PublicKey(),
		Owner:    escrowswap.TokenProgramID,
		Lamports: 1,
		Space:    token.MintSize,
	})
	_, err := l.Deliver([]crypto.Signer{l.Payer, mint}, create, sdktoken.InitializeMint(sdktoken.InitializeMintParam{
		Mint:     mint.PublicKey(),
		MintAuth: l.Payer.PublicKey(),
	}))
	assert.IsErr(t, errors.ErrNotRentExempt, err)
}
