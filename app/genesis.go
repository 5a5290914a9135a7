package app

import (
	"io/ioutil"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/sysvar"
	"gopkg.in/yaml.v3"
)

// Genesis is the initial state of the ledger.
type Genesis struct {
	ChainID string `yaml:"chain_id"`
	// Rent defaults to escrowswap.DefaultRent when not set.
	Rent     *GenesisRent     `yaml:"rent,omitempty"`
	Accounts []GenesisAccount `yaml:"accounts"`
}

// GenesisRent mirrors escrowswap.Rent.
type GenesisRent struct {
	LamportsPerByteYear uint64  `yaml:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `yaml:"exemption_threshold"`
	BurnPercent         uint8   `yaml:"burn_percent"`
}

// GenesisAccount is an account present from the first slot.
type GenesisAccount struct {
	Address    Key                 `yaml:"address"`
	Lamports   uint64              `yaml:"lamports"`
	Owner      *Key                `yaml:"owner,omitempty"`
	Data       escrowswap.HexBytes `yaml:"data,omitempty"`
	Executable bool                `yaml:"executable,omitempty"`
}

// Key is a public key in any text form escrowswap.ParsePublicKey accepts.
// It is always written as base58.
type Key escrowswap.PublicKey

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(escrowswap.PublicKey(k).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(raw []byte) error {
	key, err := escrowswap.ParsePublicKey(string(raw))
	if err != nil {
		return err
	}
	*k = Key(key)
	return nil
}

// LoadGenesis reads a YAML encoded genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return ParseGenesis(raw)
}

// ParseGenesis decodes a YAML encoded genesis and validates it.
func ParseGenesis(raw []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate returns an error if the genesis cannot be applied.
func (g *Genesis) Validate() error {
	if !escrowswap.IsValidChainID(g.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", g.ChainID)
	}
	if err := g.rent().Validate(); err != nil {
		return errors.Wrap(err, "rent")
	}
	seen := make(map[Key]bool, len(g.Accounts))
	for i, a := range g.Accounts {
		if seen[a.Address] {
			return errors.Wrapf(errors.ErrInput, "account %d: duplicated address", i)
		}
		seen[a.Address] = true
		if a.Lamports == 0 {
			return errors.Wrapf(errors.ErrInput, "account %d: no lamports", i)
		}
	}
	return nil
}

func (g *Genesis) rent() escrowswap.Rent {
	if g.Rent == nil {
		return escrowswap.DefaultRent()
	}
	return escrowswap.Rent{
		LamportsPerByteYear: g.Rent.LamportsPerByteYear,
		ExemptionThreshold:  g.Rent.ExemptionThreshold,
		BurnPercent:         g.Rent.BurnPercent,
	}
}

// apply writes the genesis state into the store.
func (g *Genesis) apply(db escrowswap.KVStore) error {
	if err := sysvar.SaveRent(db, g.rent()); err != nil {
		return errors.Wrap(err, "rent sysvar")
	}
	for _, a := range g.Accounts {
		owner := escrowswap.SystemProgramID
		if a.Owner != nil {
			owner = escrowswap.PublicKey(*a.Owner)
		}
		acct := &escrowswap.Account{
			Lamports:   a.Lamports,
			Owner:      owner,
			Data:       a.Data,
			Executable: a.Executable,
		}
		if err := escrowswap.SaveAccount(db, escrowswap.PublicKey(a.Address), acct); err != nil {
			return errors.Wrapf(err, "account %s", escrowswap.PublicKey(a.Address))
		}
	}
	return nil
}
