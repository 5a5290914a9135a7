package token

import (
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// Instruction payloads as produced by the builders of
// github.com/blocto/solana-go-sdk/program/token. The first byte is the
// instruction tag.

type initializeMintData struct {
	Instruction     uint8
	Decimals        uint8
	MintAuthority   escrowswap.PublicKey
	FreezeOption    uint8
	FreezeAuthority escrowswap.PublicKey
}

type amountData struct {
	Instruction uint8
	Amount      uint64
}

type setAuthorityData struct {
	Instruction   uint8
	AuthorityType uint8
	NewOption     uint8
	NewAuthority  escrowswap.PublicKey
}

const (
	initializeMintDataSize = 1 + 1 + 32 + 1 + 32
	amountDataSize         = 1 + 8
	setAuthorityDataSize   = 1 + 1 + 1 + 32
)

func decodeInitializeMint(data []byte) (*initializeMintData, error) {
	var msg initializeMintData
	// Without a freeze authority the trailing key may be left out.
	if len(data) == initializeMintDataSize-32 {
		data = append(append([]byte(nil), data...), make([]byte, 32)...)
	}
	if err := decode(data, initializeMintDataSize, &msg); err != nil {
		return nil, err
	}
	if msg.FreezeOption > 1 {
		return nil, errors.Wrap(errors.ErrInvalidInstructionData, "freeze authority flag")
	}
	return &msg, nil
}

func decodeAmount(data []byte) (uint64, error) {
	var msg amountData
	if err := decode(data, amountDataSize, &msg); err != nil {
		return 0, err
	}
	return msg.Amount, nil
}

func decodeSetAuthority(data []byte) (*setAuthorityData, error) {
	var msg setAuthorityData
	if len(data) == setAuthorityDataSize-32 {
		data = append(append([]byte(nil), data...), make([]byte, 32)...)
	}
	if err := decode(data, setAuthorityDataSize, &msg); err != nil {
		return nil, err
	}
	if msg.NewOption > 1 {
		return nil, errors.Wrap(errors.ErrInvalidInstructionData, "new authority flag")
	}
	if msg.AuthorityType > byte(sdktoken.AuthorityTypeCloseAccount) {
		return nil, errors.ErrInvalidInstructionData.Newf("unknown authority type %d", msg.AuthorityType)
	}
	return &msg, nil
}

// newAuthority returns the requested authority or nil to clear it.
func (m *setAuthorityData) newAuthority() *escrowswap.PublicKey {
	if m.NewOption == 0 {
		return nil
	}
	key := m.NewAuthority
	return &key
}

func decode(data []byte, size int, dst interface{}) (err error) {
	if len(data) != size {
		return errors.ErrInvalidInstructionData.Newf("want %d bytes, got %d", size, len(data))
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.ErrInvalidInstructionData.Newf("%v", r)
		}
	}()
	if err := borsh.Deserialize(dst, data); err != nil {
		return errors.Wrap(errors.ErrInvalidInstructionData, err.Error())
	}
	return nil
}
