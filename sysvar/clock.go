package sysvar

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// ClockSize is the length of the encoded Clock sysvar.
const ClockSize = 8 + 8

// Clock records the slot and time of the last committed state.
type Clock struct {
	Slot          uint64
	UnixTimestamp int64
}

var _ ValidMarshaler = (*Clock)(nil)

// Marshal encodes the clock.
func (c *Clock) Marshal() ([]byte, error) {
	raw, err := borsh.Serialize(*c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Unmarshal decodes the clock.
func (c *Clock) Unmarshal(raw []byte) error {
	return decode(raw, ClockSize, c)
}

// Validate rejects a clock set before the epoch.
func (c *Clock) Validate() error {
	if c.UnixTimestamp < 0 {
		return errors.Wrap(errors.ErrInput, "negative timestamp")
	}
	return nil
}

// SaveClock writes the clock.
func SaveClock(db escrowswap.KVStore, c Clock) error {
	return Save(db, ClockID, &c)
}

// LoadClock reads the clock.
func LoadClock(db escrowswap.ReadOnlyKVStore) (Clock, error) {
	var c Clock
	err := Load(db, ClockID, &c)
	return c, err
}
