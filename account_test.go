package escrowswap_test

import (
	"testing"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/store"
	"github.com/stretchr/testify/require"
)

func TestAccountMarshal(t *testing.T) {
	owner := escrowswap.TokenProgramID
	cases := map[string]*escrowswap.Account{
		"empty":      {},
		"only funds": {Lamports: 1000, Owner: escrowswap.SystemProgramID},
		"with data":  {Lamports: 2039280, Owner: owner, Data: []byte{1, 2, 3, 0, 0}},
		"executable": {Lamports: 1, Owner: owner, Executable: true},
	}
	for testName, acct := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := acct.Marshal()
			require.NoError(t, err)
			var got escrowswap.Account
			require.NoError(t, got.Unmarshal(raw))
			require.True(t, acct.Equals(&got), "want %+v, got %+v", acct, got)
		})
	}
}

func TestAccountUnmarshalCorrupted(t *testing.T) {
	acct := escrowswap.NewAccount(5, 10, escrowswap.TokenProgramID)
	raw, err := acct.Marshal()
	require.NoError(t, err)

	var got escrowswap.Account
	err = got.Unmarshal(raw[:len(raw)-3])
	require.True(t, errors.ErrInvalidAccountData.Is(err), "unexpected error: %v", err)

	err = got.Unmarshal([]byte{0x7a, 0x01})
	require.True(t, errors.ErrInvalidAccountData.Is(err), "unexpected error: %v", err)

	// owner field holding three bytes instead of a public key
	err = got.Unmarshal([]byte{0x12, 0x03, 1, 2, 3})
	require.True(t, errors.ErrInvalidAccountData.Is(err), "unexpected error: %v", err)
}

func TestAccountWireFormat(t *testing.T) {
	acct := &escrowswap.Account{Lamports: 300, Owner: escrowswap.PublicKey{9}, Data: []byte{4}, Executable: true}
	raw, err := acct.Marshal()
	require.NoError(t, err)

	want := []byte{0x08, 0xac, 0x02, 0x12, 0x20, 9}
	want = append(want, make([]byte, 31)...)
	want = append(want, 0x1a, 0x01, 4, 0x20, 0x01)
	require.Equal(t, want, raw)
}

func TestAccountCopyIsDeep(t *testing.T) {
	acct := escrowswap.NewAccount(5, 4, escrowswap.TokenProgramID)
	cpy := acct.Copy()
	cpy.Data[0] = 9
	cpy.Lamports = 7
	require.Equal(t, byte(0), acct.Data[0])
	require.Equal(t, uint64(5), acct.Lamports)
	require.False(t, acct.Equals(cpy))
}

func TestLoadSaveAccount(t *testing.T) {
	db := store.MemStore()
	key := escrowswap.PublicKey{1, 2, 3}

	// missing accounts are empty and belong to the system program
	acct, err := escrowswap.LoadAccount(db, key)
	require.NoError(t, err)
	require.Equal(t, uint64(0), acct.Lamports)
	require.Equal(t, escrowswap.SystemProgramID, acct.Owner)

	acct.Lamports = 42
	acct.Data = []byte("state")
	require.NoError(t, escrowswap.SaveAccount(db, key, acct))

	loaded, err := escrowswap.LoadAccount(db, key)
	require.NoError(t, err)
	require.True(t, acct.Equals(loaded))

	// draining the balance removes the account
	loaded.Lamports = 0
	require.NoError(t, escrowswap.SaveAccount(db, key, loaded))
	has, err := db.Has(escrowswap.AccountKey(key))
	require.NoError(t, err)
	require.False(t, has)
}

func TestAccountIter(t *testing.T) {
	a := &escrowswap.AccountInfo{Key: escrowswap.PublicKey{1}, Account: &escrowswap.Account{}}
	b := &escrowswap.AccountInfo{Key: escrowswap.PublicKey{2}, Account: &escrowswap.Account{}}
	it := escrowswap.NewAccountIter([]*escrowswap.AccountInfo{a, b})

	got, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, a, got)
	got, err = it.Next()
	require.NoError(t, err)
	require.Equal(t, b, got)
	_, err = it.Next()
	require.True(t, errors.ErrNotEnoughAccountKeys.Is(err))
}

func TestParseAccountKey(t *testing.T) {
	key := escrowswap.PublicKey{7, 7, 7}
	got, err := escrowswap.ParseAccountKey(escrowswap.AccountKey(key))
	require.NoError(t, err)
	require.Equal(t, key, got)

	_, err = escrowswap.ParseAccountKey([]byte("other"))
	require.True(t, errors.ErrInput.Is(err))
}
