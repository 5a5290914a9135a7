package escrowswap

import (
	"encoding/hex"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/escrowswap/errors"
	"github.com/mr-tron/base58"
)

const (
	// PublicKeyLength is the length of all account keys.
	PublicKeyLength = 32

	// MaxSeeds is the maximum number of seeds a program address can be
	// derived from.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// PublicKey identifies an account. It is either an ed25519 public key or a
// program address that no private key can sign for.
type PublicKey = common.PublicKey

var (
	// SystemProgramID owns every account that was not assigned to
	// another program.
	SystemProgramID = common.SystemProgramID

	// TokenProgramID is the identity of the token standard program.
	TokenProgramID = common.TokenProgramID

	// RentSysvarID holds the rent parameters of the ledger.
	RentSysvarID = common.SysVarRentPubkey
)

// PublicKeyFromBytes returns a key from its raw representation.
func PublicKeyFromBytes(raw []byte) (PublicKey, error) {
	if len(raw) != PublicKeyLength {
		return PublicKey{}, errors.ErrInput.Newf("public key length %d", len(raw))
	}
	return common.PublicKeyFromBytes(raw), nil
}

// ParsePublicKey decodes a human readable key.
//
// Base58 is the default encoding. A "hex:" or "bech32:" prefix selects
// another one.
func ParsePublicKey(enc string) (PublicKey, error) {
	chunks := strings.SplitN(enc, ":", 2)
	format := "base58"
	if len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if len(enc) == 0 {
		return PublicKey{}, errors.ErrInput.New("empty public key")
	}

	switch format {
	case "base58":
		raw, err := base58.Decode(enc)
		if err != nil {
			return PublicKey{}, errors.Wrapf(errors.ErrInput, "cannot decode base58: %s", err)
		}
		return PublicKeyFromBytes(raw)
	case "hex":
		raw, err := hex.DecodeString(enc)
		if err != nil {
			return PublicKey{}, errors.Wrapf(errors.ErrInput, "cannot decode hex: %s", err)
		}
		return PublicKeyFromBytes(raw)
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return PublicKey{}, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
		}
		raw, err := bech32.ConvertBits(payload, 5, 8, false)
		if err != nil {
			return PublicKey{}, errors.Wrapf(errors.ErrInput, "bech32 payload: %s", err)
		}
		return PublicKeyFromBytes(raw)
	default:
		return PublicKey{}, errors.ErrInput.Newf("unknown format %q", format)
	}
}

// EncodeBech32 returns the bech32 representation of a key with the given
// human readable part.
func EncodeBech32(hrp string, key PublicKey) (string, error) {
	conv, err := bech32.ConvertBits(key[:], 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	enc, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return enc, nil
}

// IsOnCurve returns true if the key is a valid ed25519 point, which means
// a private key may exist for it.
func IsOnCurve(key PublicKey) bool {
	return common.IsOnCurve(key)
}

// CreateProgramAddress computes the program address for the given seeds. It
// fails with ErrInvalidSeeds if the result could be signed for by a private
// key.
func CreateProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, error) {
	if err := validateSeeds(seeds); err != nil {
		return PublicKey{}, err
	}
	addr, err := common.CreateProgramAddress(seeds, programID)
	if err != nil {
		return PublicKey{}, errors.Wrap(errors.ErrInvalidSeeds, err.Error())
	}
	return addr, nil
}

// FindProgramAddress searches for a bump seed that, appended to the given
// seeds, yields a valid program address. It returns the address together
// with the bump.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {
	// One seed is reserved for the bump.
	if len(seeds) >= MaxSeeds {
		return PublicKey{}, 0, errors.ErrInvalidSeeds.Newf("too many seeds: %d", len(seeds))
	}
	if err := validateSeeds(seeds); err != nil {
		return PublicKey{}, 0, err
	}
	addr, bump, err := common.FindProgramAddress(seeds, programID)
	if err != nil {
		return PublicKey{}, 0, errors.Wrap(errors.ErrInvalidSeeds, err.Error())
	}
	return addr, bump, nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.ErrInvalidSeeds.Newf("too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.ErrInvalidSeeds.Newf("seed %d too long: %d", i, len(s))
		}
	}
	return nil
}
