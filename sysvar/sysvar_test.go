package sysvar

import (
	"testing"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/escrowtest/assert"
	"github.com/iov-one/escrowswap/store"
)

func TestSaveLoadRent(t *testing.T) {
	cases := map[string]struct {
		Rent        escrowswap.Rent
		WantSaveErr *errors.Error
	}{
		"default": {
			Rent: escrowswap.DefaultRent(),
		},
		"custom": {
			Rent: escrowswap.Rent{LamportsPerByteYear: 10, ExemptionThreshold: 1.5, BurnPercent: 0},
		},
		"invalid rent cannot be saved": {
			Rent:        escrowswap.Rent{},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := SaveRent(db, tc.Rent); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}
			got, err := LoadRent(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.Rent, got)

			acct, err := escrowswap.LoadAccount(db, RentID)
			assert.Nil(t, err)
			assert.Equal(t, OwnerID, acct.Owner)
			assert.Equal(t, RentSize, len(acct.Data))
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	_, err := LoadRent(db)
	assert.IsErr(t, errors.ErrNotFound, err)

	// an account with the right key but a foreign owner is not a sysvar
	acct := escrowswap.NewAccount(5, RentSize, escrowswap.SystemProgramID)
	assert.Nil(t, escrowswap.SaveAccount(db, RentID, acct))
	_, err = LoadRent(db)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestRentUnmarshalWrongSize(t *testing.T) {
	var r Rent
	err := r.Unmarshal(make([]byte, RentSize-1))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}

func TestClock(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, SaveClock(db, Clock{Slot: 12, UnixTimestamp: 1600000000}))
	got, err := LoadClock(db)
	assert.Nil(t, err)
	assert.Equal(t, Clock{Slot: 12, UnixTimestamp: 1600000000}, got)

	// a second save keeps the balance of the account
	before, err := escrowswap.LoadAccount(db, ClockID)
	assert.Nil(t, err)
	assert.Nil(t, SaveClock(db, Clock{Slot: 13}))
	after, err := escrowswap.LoadAccount(db, ClockID)
	assert.Nil(t, err)
	assert.Equal(t, before.Lamports, after.Lamports)

	err = SaveClock(db, Clock{UnixTimestamp: -1})
	assert.IsErr(t, errors.ErrInput, err)
}
