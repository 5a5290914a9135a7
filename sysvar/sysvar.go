package sysvar

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

var (
	// OwnerID owns every sysvar account.
	OwnerID = mustKey("Sysvar1111111111111111111111111111111111111")

	// RentID holds the Rent parameters.
	RentID = escrowswap.RentSysvarID

	// ClockID holds the Clock of the last committed slot.
	ClockID = mustKey("SysvarC1ock11111111111111111111111111111111")
)

func mustKey(enc string) escrowswap.PublicKey {
	key, err := escrowswap.ParsePublicKey(enc)
	if err != nil {
		panic(err)
	}
	return key
}

// ValidMarshaler is implemented by a sysvar value that can be written.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by a sysvar value that can be read.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Save will Validate the object, before writing it into the data of the
// sysvar account. The account keeps its balance, new accounts are funded
// with a single lamport so they exist.
func Save(db escrowswap.KVStore, id escrowswap.PublicKey, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: sysvar %s", id)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: sysvar %s", id)
	}
	acct, err := escrowswap.LoadAccount(db, id)
	if err != nil {
		return err
	}
	if acct.Lamports == 0 {
		acct.Lamports = 1
	}
	acct.Owner = OwnerID
	acct.Data = raw
	return escrowswap.SaveAccount(db, id, acct)
}

// Load reads the sysvar account into dst.
func Load(db escrowswap.ReadOnlyKVStore, id escrowswap.PublicKey, dst Unmarshaler) error {
	acct, err := escrowswap.LoadAccount(db, id)
	if err != nil {
		return err
	}
	if acct.Owner != OwnerID || len(acct.Data) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "sysvar %s", id)
	}
	return FromAccount(acct.Data, dst)
}

// FromAccount decodes sysvar data handed to a program.
func FromAccount(data []byte, dst Unmarshaler) error {
	if err := dst.Unmarshal(data); err != nil {
		return errors.Wrap(err, "unmarshal sysvar")
	}
	return nil
}

func decode(raw []byte, size int, dst interface{}) (err error) {
	if len(raw) != size {
		return errors.ErrInvalidAccountData.Newf("want %d bytes, got %d", size, len(raw))
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.ErrInvalidAccountData.Newf("%v", r)
		}
	}()
	if err := borsh.Deserialize(dst, raw); err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return nil
}
