package sysvar

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// RentSize is the length of the encoded Rent sysvar.
const RentSize = 8 + 8 + 1

// Rent is the sysvar form of escrowswap.Rent.
type Rent struct {
	escrowswap.Rent
}

var _ ValidMarshaler = (*Rent)(nil)

type rentLayout struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

// Marshal encodes the rent parameters.
func (r *Rent) Marshal() ([]byte, error) {
	raw, err := borsh.Serialize(rentLayout{
		LamportsPerByteYear: r.LamportsPerByteYear,
		ExemptionThreshold:  r.ExemptionThreshold,
		BurnPercent:         r.BurnPercent,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Unmarshal decodes the rent parameters.
func (r *Rent) Unmarshal(raw []byte) error {
	var l rentLayout
	if err := decode(raw, RentSize, &l); err != nil {
		return err
	}
	r.Rent = escrowswap.Rent{
		LamportsPerByteYear: l.LamportsPerByteYear,
		ExemptionThreshold:  l.ExemptionThreshold,
		BurnPercent:         l.BurnPercent,
	}
	return nil
}

// SaveRent writes the rent parameters.
func SaveRent(db escrowswap.KVStore, rent escrowswap.Rent) error {
	return Save(db, RentID, &Rent{Rent: rent})
}

// LoadRent reads the rent parameters.
func LoadRent(db escrowswap.ReadOnlyKVStore) (escrowswap.Rent, error) {
	var r Rent
	if err := Load(db, RentID, &r); err != nil {
		return escrowswap.Rent{}, err
	}
	return r.Rent, nil
}
