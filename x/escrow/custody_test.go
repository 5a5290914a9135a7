package escrow

import (
	"testing"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/escrowtest/assert"
)

func TestCustodyAddress(t *testing.T) {
	programID := escrowswap.PublicKey{7, 7, 7}
	alice := escrowswap.PublicKey{1}
	bob := escrowswap.PublicKey{2}

	addr, bump, err := FindCustodyAddress(programID, alice)
	assert.Nil(t, err)
	assert.Equal(t, false, escrowswap.IsOnCurve(addr))

	again, againBump, err := FindCustodyAddress(programID, alice)
	assert.Nil(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	recreated, err := CustodyAddress(programID, alice, bump)
	assert.Nil(t, err)
	assert.Equal(t, addr, recreated)

	other, _, err := FindCustodyAddress(programID, bob)
	assert.Nil(t, err)
	if other == addr {
		t.Fatal("custody addresses of different initiators must differ")
	}

	otherProgram, _, err := FindCustodyAddress(escrowswap.PublicKey{8}, alice)
	assert.Nil(t, err)
	if otherProgram == addr {
		t.Fatal("custody addresses of different programs must differ")
	}
}

func TestCustodyAddressRejectsOnCurveBump(t *testing.T) {
	programID := escrowswap.PublicKey{7, 7, 7}
	alice := escrowswap.PublicKey{1}

	// With these seeds bump 251 hashes to a point on the curve.
	_, err := CustodyAddress(programID, alice, 251)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)

	var rejected int
	for bump := 0; bump <= 255; bump++ {
		addr, err := CustodyAddress(programID, alice, uint8(bump))
		if err != nil {
			assert.IsErr(t, errors.ErrInvalidSeeds, err)
			rejected++
			continue
		}
		if escrowswap.IsOnCurve(addr) {
			t.Fatalf("bump %d produced an address with a private key", bump)
		}
	}
	if rejected == 0 {
		t.Fatal("no bump was rejected")
	}
}
