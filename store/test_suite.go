package store

import (
	"testing"

	"github.com/iov-one/escrowswap"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the ledger state checks against any store implementation.
// A store package wires it to its own constructor and calls every method
// from a test function.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns an empty store and a function to release it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running on stores made by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

func suiteKey(n byte) escrowswap.PublicKey {
	return escrowswap.PublicKey{n, 0xee}
}

func suiteAccount(lamports uint64, data ...byte) *escrowswap.Account {
	return &escrowswap.Account{
		Lamports: lamports,
		Owner:    escrowswap.TokenProgramID,
		Data:     data,
	}
}

// AccountRoundTrip checks accounts written through the store read back
// unchanged and that an account without lamports disappears.
func (s *TestSuite) AccountRoundTrip(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	key := suiteKey(1)
	require.NoError(t, escrowswap.SaveAccount(base, key, suiteAccount(10, 1, 2)))
	s.requireAccount(t, base, key, suiteAccount(10, 1, 2))

	has, err := base.Has(escrowswap.AccountKey(key))
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, escrowswap.SaveAccount(base, key, suiteAccount(0, 1, 2)))
	has, err = base.Has(escrowswap.AccountKey(key))
	require.NoError(t, err)
	require.False(t, has)

	acct, err := escrowswap.LoadAccount(base, key)
	require.NoError(t, err)
	require.Equal(t, escrowswap.SystemProgramID, acct.Owner)
}

// Savepoints checks nested cache wraps the way a transaction and its
// instructions use them.
func (s *TestSuite) Savepoints(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, bob := suiteKey(1), suiteKey(2)
	require.NoError(t, escrowswap.SaveAccount(base, alice, suiteAccount(100)))

	tx := base.CacheWrap()
	require.NoError(t, escrowswap.SaveAccount(tx, bob, suiteAccount(5)))

	// a failed instruction leaves the transaction cache untouched
	failed := tx.CacheWrap()
	require.NoError(t, escrowswap.SaveAccount(failed, alice, suiteAccount(0)))
	require.NoError(t, escrowswap.SaveAccount(failed, bob, suiteAccount(99)))
	s.requireAccount(t, failed, bob, suiteAccount(99))
	failed.Discard()
	s.requireAccount(t, tx, alice, suiteAccount(100))
	s.requireAccount(t, tx, bob, suiteAccount(5))

	ok := tx.CacheWrap()
	require.NoError(t, escrowswap.SaveAccount(ok, alice, suiteAccount(95)))
	require.NoError(t, ok.Write())
	s.requireAccount(t, tx, alice, suiteAccount(95))

	// nothing reaches the base before the transaction is written
	s.requireAccount(t, base, alice, suiteAccount(100))
	s.requireMissing(t, base, bob)

	other := base.CacheWrap()
	s.requireMissing(t, other, bob)
	other.Discard()

	require.NoError(t, tx.Write())
	s.requireAccount(t, base, alice, suiteAccount(95))
	s.requireAccount(t, base, bob, suiteAccount(5))

	dropped := base.CacheWrap()
	require.NoError(t, escrowswap.SaveAccount(dropped, alice, suiteAccount(0)))
	dropped.Discard()
	s.requireAccount(t, base, alice, suiteAccount(95))
}

// AccountScan checks that walking accounts through a cache wrap merges the
// staged writes into the parent in key order.
func (s *TestSuite) AccountScan(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for n := byte(1); n <= 5; n++ {
		require.NoError(t, escrowswap.SaveAccount(base, suiteKey(n), suiteAccount(uint64(n))))
	}
	require.NoError(t, base.Set([]byte("chain_id"), []byte("not an account")))

	cache := base.CacheWrap()
	require.NoError(t, escrowswap.SaveAccount(cache, suiteKey(2), suiteAccount(0)))
	require.NoError(t, escrowswap.SaveAccount(cache, suiteKey(3), suiteAccount(30, 7)))
	require.NoError(t, escrowswap.SaveAccount(cache, suiteKey(6), suiteAccount(6)))
	require.NoError(t, escrowswap.SaveAccount(cache, suiteKey(0), suiteAccount(1)))

	want := map[byte]*escrowswap.Account{
		0: suiteAccount(1),
		1: suiteAccount(1),
		3: suiteAccount(30, 7),
		4: suiteAccount(4),
		5: suiteAccount(5),
		6: suiteAccount(6),
	}
	s.requireScan(t, cache, []byte{0, 1, 3, 4, 5, 6}, want)
	s.requireScan(t, base, []byte{1, 2, 3, 4, 5}, map[byte]*escrowswap.Account{
		1: suiteAccount(1),
		2: suiteAccount(2),
		3: suiteAccount(3),
		4: suiteAccount(4),
		5: suiteAccount(5),
	})

	require.NoError(t, cache.Write())
	s.requireScan(t, base, []byte{0, 1, 3, 4, 5, 6}, want)

	// bounded ranges see only their part of the merged state
	cache = base.CacheWrap()
	require.NoError(t, escrowswap.SaveAccount(cache, suiteKey(4), suiteAccount(0)))
	it, err := cache.Iterator(escrowswap.AccountKey(suiteKey(3)), escrowswap.AccountKey(suiteKey(6)))
	require.NoError(t, err)
	models, err := ReadAll(it)
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, escrowswap.AccountKey(suiteKey(3)), models[0].Key)
	require.Equal(t, escrowswap.AccountKey(suiteKey(5)), models[1].Key)
	cache.Discard()
}

func (s *TestSuite) requireAccount(t testing.TB, kv ReadOnlyKVStore, key escrowswap.PublicKey, want *escrowswap.Account) {
	t.Helper()
	got, err := escrowswap.LoadAccount(kv, key)
	require.NoError(t, err)
	require.True(t, want.Equals(got), "account %d: want %+v, got %+v", key[0], want, got)
}

func (s *TestSuite) requireMissing(t testing.TB, kv ReadOnlyKVStore, key escrowswap.PublicKey) {
	t.Helper()
	has, err := kv.Has(escrowswap.AccountKey(key))
	require.NoError(t, err)
	require.False(t, has, "account %d must not exist", key[0])
}

func (s *TestSuite) requireScan(t testing.TB, kv ReadOnlyKVStore, order []byte, want map[byte]*escrowswap.Account) {
	t.Helper()
	var got []byte
	err := EachAccount(kv, func(key escrowswap.PublicKey, acct *escrowswap.Account) error {
		got = append(got, key[0])
		w, ok := want[key[0]]
		require.True(t, ok, "unexpected account %d", key[0])
		require.True(t, w.Equals(acct), "account %d: want %+v, got %+v", key[0], w, acct)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, order, got)
}
