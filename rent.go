package escrowswap

import (
	"math"

	"github.com/iov-one/escrowswap/errors"
)

const (
	// AccountStorageOverhead is the number of bytes of metadata charged for
	// every account on top of its data.
	AccountStorageOverhead = 128

	// DefaultLamportsPerByteYear is the rent price of one byte for one year.
	DefaultLamportsPerByteYear = 1000000000 / 100 * 365 / (1024 * 1024)

	// DefaultExemptionThreshold is the number of years of rent an account
	// must hold to be exempt.
	DefaultExemptionThreshold = 2.0

	// DefaultBurnPercent is the share of collected rent that is destroyed.
	DefaultBurnPercent = 50
)

// Rent describes the price of keeping an account in the ledger.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

// DefaultRent returns the rent parameters used unless genesis says
// otherwise.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// MinimumBalance returns the balance an account holding dataLen bytes
// needs in order to be rent exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(AccountStorageOverhead + dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt returns true if the balance covers the minimum balance.
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}

// Validate returns an error if the rent parameters are not usable.
func (r Rent) Validate() error {
	if r.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrInput, "lamports per byte year must be positive")
	}
	if r.ExemptionThreshold <= 0 || math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) {
		return errors.Wrap(errors.ErrInput, "invalid exemption threshold")
	}
	if r.BurnPercent > 100 {
		return errors.Wrap(errors.ErrInput, "burn percent above 100")
	}
	return nil
}
