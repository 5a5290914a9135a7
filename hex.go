package escrowswap

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/escrowswap/errors"
)

// HexBytes is a byte slice written as upper case hex in text formats such
// as genesis files.
type HexBytes []byte

// MarshalText implements encoding.TextMarshaler.
func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(hex.EncodeToString(h))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HexBytes) UnmarshalText(raw []byte) error {
	b, err := hex.DecodeString(string(raw))
	if err != nil {
		return errors.Wrap(errors.ErrInput, "hex")
	}
	*h = b
	return nil
}

// String returns the upper case hex form.
func (h HexBytes) String() string {
	return strings.ToUpper(hex.EncodeToString(h))
}
