package escrow

import (
	"github.com/iov-one/escrowswap"
)

// CustodySeed separates custody addresses from other addresses the
// program may derive.
const CustodySeed = "escrow"

func custodySeeds(initiator escrowswap.PublicKey, bump ...byte) [][]byte {
	seeds := [][]byte{[]byte(CustodySeed), initiator[:]}
	if len(bump) != 0 {
		seeds = append(seeds, bump)
	}
	return seeds
}

// FindCustodyAddress returns the custody address of the initiator together
// with the bump seed that recreates it.
func FindCustodyAddress(programID, initiator escrowswap.PublicKey) (escrowswap.PublicKey, uint8, error) {
	return escrowswap.FindProgramAddress(custodySeeds(initiator), programID)
}

// CustodyAddress recreates the custody address from a stored bump seed.
func CustodyAddress(programID, initiator escrowswap.PublicKey, bump uint8) (escrowswap.PublicKey, error) {
	return escrowswap.CreateProgramAddress(custodySeeds(initiator, bump), programID)
}
