package app_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/app"
	"github.com/iov-one/escrowswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr *errors.Error
		check   func(t *testing.T, c *app.Config)
	}{
		"empty keeps defaults": {
			raw: "",
			check: func(t *testing.T, c *app.Config) {
				assert.Equal(t, app.DefaultConfig(), *c)
				assert.Equal(t, app.DefaultEscrowProgramID, c.EscrowProgramID())
			},
		},
		"all fields": {
			raw: `
chain_id: local-chain
genesis: /tmp/genesis.yaml
escrow_program: hex:0909090909090909090909090909090909090909090909090909090909090909
store:
  dir: /var/lib/escrowswap
  name: state
log:
  format: json
  level: debug
`,
			check: func(t *testing.T, c *app.Config) {
				assert.Equal(t, "local-chain", c.ChainID)
				assert.Equal(t, "/tmp/genesis.yaml", c.Genesis)
				var want escrowswap.PublicKey
				for i := range want {
					want[i] = 9
				}
				assert.Equal(t, want, c.EscrowProgramID())
				assert.Equal(t, app.StoreConfig{Dir: "/var/lib/escrowswap", Name: "state"}, c.Store)
				assert.Equal(t, "json", c.Log.Format)
				assert.Equal(t, "debug", c.Log.Level)
			},
		},
		"invalid chain id": {
			raw:     "chain_id: a",
			wantErr: errors.ErrInput,
		},
		"store without a name": {
			raw:     "store:\n  dir: /tmp\n  name: \"\"\n",
			wantErr: errors.ErrInput,
		},
		"invalid program key": {
			raw:     "escrow_program: hex:zz",
			wantErr: errors.ErrInput,
		},
		"not yaml": {
			raw:     "chain_id: [",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			c, err := app.ParseConfig([]byte(tc.raw))
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "want %q, got %+v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

const genesisYAML = `
chain_id: escrow-local
rent:
  lamports_per_byte_year: 3480
  exemption_threshold: 2
  burn_percent: 50
accounts:
  - address: 11111111111111111111111111111112
    lamports: 1000
  - address: hex:0101010101010101010101010101010101010101010101010101010101010101
    lamports: 5
    owner: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
    data: 0A0B
`

func TestParseGenesis(t *testing.T) {
	g, err := app.ParseGenesis([]byte(genesisYAML))
	require.NoError(t, err)
	assert.Equal(t, "escrow-local", g.ChainID)
	require.Len(t, g.Accounts, 2)
	assert.Equal(t, uint64(1000), g.Accounts[0].Lamports)
	assert.Nil(t, g.Accounts[0].Owner)
	assert.Equal(t, app.Key(escrowswap.TokenProgramID), *g.Accounts[1].Owner)
	assert.Equal(t, escrowswap.HexBytes{0x0a, 0x0b}, g.Accounts[1].Data)

	cases := map[string]string{
		"duplicated address": `
chain_id: escrow-local
accounts:
  - address: 11111111111111111111111111111112
    lamports: 1
  - address: 11111111111111111111111111111112
    lamports: 2
`,
		"account without lamports": `
chain_id: escrow-local
accounts:
  - address: 11111111111111111111111111111112
`,
		"invalid rent": `
chain_id: escrow-local
rent:
  lamports_per_byte_year: 0
  exemption_threshold: 2
`,
		"invalid data": `
chain_id: escrow-local
accounts:
  - address: 11111111111111111111111111111112
    lamports: 1
    data: xyz
`,
		"missing chain id": `
accounts: []
`,
	}
	for testName, raw := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := app.ParseGenesis([]byte(raw))
			assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
		})
	}
}

func TestOpen(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowswap")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	genesisPath := filepath.Join(dir, "genesis.yaml")
	require.NoError(t, ioutil.WriteFile(genesisPath, []byte(genesisYAML), 0600))

	conf := app.DefaultConfig()
	conf.Genesis = genesisPath
	conf.Log.LogDir = dir

	l, closeAll, err := app.Open(&conf)
	require.NoError(t, err)
	assert.Equal(t, "escrow-local", l.ChainID())
	assert.Equal(t, uint64(2), l.Slot())

	key, err := escrowswap.ParsePublicKey("hex:0101010101010101010101010101010101010101010101010101010101010101")
	require.NoError(t, err)
	acct, err := l.Account(key)
	require.NoError(t, err)
	assert.Equal(t, escrowswap.TokenProgramID, acct.Owner)
	assert.Equal(t, []byte{0x0a, 0x0b}, acct.Data)
	require.NoError(t, closeAll())

	_, err = os.Stat(filepath.Join(dir, "escrowswap.log"))
	assert.NoError(t, err)

	conf.ChainID = "other-chain"
	_, _, err = app.Open(&conf)
	assert.True(t, errors.ErrInput.Is(err))

	conf = app.DefaultConfig()
	_, _, err = app.Open(&conf)
	assert.True(t, errors.ErrInput.Is(err))
}
