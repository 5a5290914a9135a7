package system

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// Instruction tags, encoded as u32 little endian in front of the data.
// They match the tags used by the builders of
// github.com/blocto/solana-go-sdk/program/system.
const (
	InstructionCreateAccount uint32 = 0
	InstructionAssign        uint32 = 1
	InstructionTransfer      uint32 = 2
)

// MaxPermittedDataLength is the largest account CreateAccount allocates.
const MaxPermittedDataLength = 10 * 1024 * 1024

type createAccountData struct {
	Instruction uint32
	Lamports    uint64
	Space       uint64
	Owner       escrowswap.PublicKey
}

const createAccountDataSize = 4 + 8 + 8 + 32

type assignData struct {
	Instruction uint32
	Owner       escrowswap.PublicKey
}

const assignDataSize = 4 + 32

type transferData struct {
	Instruction uint32
	Lamports    uint64
}

const transferDataSize = 4 + 8

// decodeTag returns the instruction tag of the data.
func decodeTag(data []byte) (uint32, error) {
	var tag uint32
	if len(data) < 4 {
		return 0, errors.Wrap(errors.ErrInvalidInstructionData, "missing tag")
	}
	if err := decode(data[:4], 4, &tag); err != nil {
		return 0, err
	}
	return tag, nil
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
