package escrowtest

import (
	"testing"

	"github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/app"
	"github.com/iov-one/escrowswap/crypto"
	"github.com/iov-one/escrowswap/store/iavl"
	"github.com/iov-one/escrowswap/x/sigs"
	"github.com/iov-one/escrowswap/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// ChainID is the chain id of every ledger created by NewLedger.
const ChainID = "escrow-test"

// FundedLamports is the genesis balance of every funded key.
const FundedLamports = 1000000000000

// EscrowProgramID is the address the escrow program is registered at.
var EscrowProgramID = app.DefaultEscrowProgramID

// Ledger is an in memory ledger running the default program stack,
// together with a funded payer used to create accounts.
type Ledger struct {
	t testing.TB
	*app.Ledger
	// Payer funds every account created by the helpers and is the
	// authority of every mint created by CreateMint.
	Payer *crypto.PrivateKey
}

// NewKey returns a fresh key pair.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewLedger returns a committed ledger where the payer and every given key
// hold FundedLamports.
func NewLedger(t testing.TB, funded ...escrowswap.PublicKey) *Ledger {
	t.Helper()
	payer := NewKey()
	g := &app.Genesis{ChainID: ChainID}
	for _, key := range append([]escrowswap.PublicKey{payer.PublicKey()}, funded...) {
		g.Accounts = append(g.Accounts, app.GenesisAccount{
			Address:  app.Key(key),
			Lamports: FundedLamports,
		})
	}

	handler := app.Stack(app.DefaultRouter(EscrowProgramID))
	l, err := app.NewLedger(iavl.NewMemCommitStore(), handler, log.NewNopLogger())
	if err != nil {
		t.Fatalf("cannot create ledger: %s", err)
	}
	if err := l.InitGenesis(g); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}
	if _, err := l.Commit(); err != nil {
		t.Fatalf("cannot commit genesis: %s", err)
	}
	return &Ledger{t: t, Ledger: l, Payer: payer}
}

// Deliver signs a transaction made of the instructions and delivers it.
func (l *Ledger) Deliver(signers []crypto.Signer, ixs ...types.Instruction) (*escrowswap.DeliverResult, error) {
	tx := &escrowswap.Tx{Instructions: ixs}
	if err := sigs.Sign(tx, ChainID, signers...); err != nil {
		return nil, err
	}
	return l.DeliverTx(tx)
}

// MustDeliver works as Deliver but fails the test on error.
func (l *Ledger) MustDeliver(signers []crypto.Signer, ixs ...types.Instruction) *escrowswap.DeliverResult {
	l.t.Helper()
	res, err := l.Deliver(signers, ixs...)
	if err != nil {
		l.t.Fatalf("cannot deliver: %+v", err)
	}
	return res
}

// Lamports returns the balance of the account.
func (l *Ledger) Lamports(key escrowswap.PublicKey) uint64 {
	l.t.Helper()
	acct, err := l.Account(key)
	if err != nil {
		l.t.Fatalf("cannot load account %s: %s", key, err)
	}
	return acct.Lamports
}

// Tokens returns the token balance of a token account.
func (l *Ledger) Tokens(key escrowswap.PublicKey) uint64 {
	l.t.Helper()
	amount, err := l.TokenBalance(key)
	if err != nil {
		l.t.Fatalf("cannot load token balance of %s: %s", key, err)
	}
	return amount
}

// Snapshot returns a copy of the current state of the accounts.
func (l *Ledger) Snapshot(keys ...escrowswap.PublicKey) map[escrowswap.PublicKey]*escrowswap.Account {
	l.t.Helper()
	res := make(map[escrowswap.PublicKey]*escrowswap.Account, len(keys))
	for _, key := range keys {
		acct, err := l.Account(key)
		if err != nil {
			l.t.Fatalf("cannot load account %s: %s", key, err)
		}
		res[key] = acct
	}
	return res
}

// RentExempt returns the minimum balance of an account holding size bytes.
func (l *Ledger) RentExempt(size int) uint64 {
	return escrowswap.DefaultRent().MinimumBalance(size)
}

// CreateAccountInstruction returns an instruction creating a rent exempt
// account of the given size, funded by the payer.
func (l *Ledger) CreateAccountInstruction(key, owner escrowswap.PublicKey, size int) types.Instruction {
	return system.CreateAccount(system.CreateAccountParam{
		From:     l.Payer.PublicKey(),
		New:      key,
		Owner:    owner,
		Lamports: l.RentExempt(size),
		Space:    uint64(size),
	})
}

// CreateMint creates an initialized mint with the payer as mint authority.
func (l *Ledger) CreateMint() escrowswap.PublicKey {
	l.t.Helper()
	mint := NewKey()
	l.MustDeliver([]crypto.Signer{l.Payer, mint},
		l.CreateAccountInstruction(mint.PublicKey(), escrowswap.TokenProgramID, token.MintSize),
		sdktoken.InitializeMint(sdktoken.InitializeMintParam{
			Decimals: 0,
			Mint:     mint.PublicKey(),
			MintAuth: l.Payer.PublicKey(),
		}),
	)
	return mint.PublicKey()
}

// CreateTokenAccount creates an initialized token account of the mint.
func (l *Ledger) CreateTokenAccount(mint, owner escrowswap.PublicKey) escrowswap.PublicKey {
	l.t.Helper()
	acct := NewKey()
	l.MustDeliver([]crypto.Signer{l.Payer, acct},
		l.CreateAccountInstruction(acct.PublicKey(), escrowswap.TokenProgramID, token.AccountSize),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: acct.PublicKey(),
			Mint:    mint,
			Owner:   owner,
		}),
	)
	return acct.PublicKey()
}

// MintTo mints amount tokens of a mint created by CreateMint.
func (l *Ledger) MintTo(mint, to escrowswap.PublicKey, amount uint64) {
	l.t.Helper()
	l.MustDeliver([]crypto.Signer{l.Payer},
		sdktoken.MintTo(sdktoken.MintToParam{
			Mint:   mint,
			To:     to,
			Auth:   l.Payer.PublicKey(),
			Amount: amount,
		}),
	)
}
