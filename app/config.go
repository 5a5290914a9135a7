package app

import (
	"io/ioutil"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/logging"
	"github.com/iov-one/escrowswap/store/iavl"
	"gopkg.in/yaml.v3"
)

// DefaultEscrowProgramID is the address the escrow program is deployed at
// unless the configuration says otherwise.
var DefaultEscrowProgramID = mustParseKey("EscrowSwap111111111111111111111111111111111")

func mustParseKey(enc string) escrowswap.PublicKey {
	key, err := escrowswap.ParsePublicKey(enc)
	if err != nil {
		panic(err)
	}
	return key
}

// Config holds everything needed to open a ledger.
type Config struct {
	// ChainID if set must match the chain id of the stored state.
	ChainID string `yaml:"chain_id"`
	// Genesis is the path of the genesis file applied to an empty store.
	Genesis string `yaml:"genesis"`
	// EscrowProgram is the address the escrow program is registered at.
	EscrowProgram *Key           `yaml:"escrow_program,omitempty"`
	Store         StoreConfig    `yaml:"store"`
	Log           logging.Config `yaml:"log"`
}

// StoreConfig describes where the committed state lives. An empty
// directory keeps the state in memory.
type StoreConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

// DefaultConfig returns an in memory configuration.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{Name: "escrowswap"},
		Log:   logging.DefaultConfig(),
	}
}

// LoadConfig reads a YAML configuration file. Values missing from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return ParseConfig(raw)
}

// ParseConfig decodes a YAML configuration.
func ParseConfig(raw []byte) (*Config, error) {
	conf := DefaultConfig()
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if conf.ChainID != "" && !escrowswap.IsValidChainID(conf.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", conf.ChainID)
	}
	if conf.Store.Dir != "" && conf.Store.Name == "" {
		return nil, errors.Wrap(errors.ErrInput, "store name required")
	}
	return &conf, nil
}

// EscrowProgramID returns the configured escrow program address.
func (c *Config) EscrowProgramID() escrowswap.PublicKey {
	if c.EscrowProgram == nil {
		return DefaultEscrowProgramID
	}
	return escrowswap.PublicKey(*c.EscrowProgram)
}

// Open returns the committed store described by the configuration.
func (c StoreConfig) Open() (*iavl.CommitStore, error) {
	if c.Dir == "" {
		return iavl.NewMemCommitStore(), nil
	}
	return iavl.NewCommitStore(c.Dir, c.Name)
}
