package escrow

import (
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// Instruction tags.
const (
	TagInitialize uint8 = 0
	TagExchange   uint8 = 1
	TagCancel     uint8 = 2
)

// Instruction is a decoded escrow instruction.
type Instruction struct {
	Tag uint8
	// Amount is the expected payment for Initialize and the expected
	// locked balance for Exchange. It is not used by Cancel.
	Amount uint64
}

type amountPayload struct {
	Tag    uint8
	Amount uint64
}

// DecodeInstruction parses instruction data. Initialize and Exchange carry
// a little endian u64 after the tag. Trailing bytes are ignored.
func DecodeInstruction(data []byte) (ix Instruction, err error) {
	if len(data) == 0 {
		return Instruction{}, errors.Wrap(errors.ErrInvalidInstructionData, "empty instruction")
	}
	switch data[0] {
	case TagInitialize, TagExchange:
		if len(data) < 9 {
			return Instruction{}, errors.ErrInvalidInstructionData.Newf("amount needs 8 bytes, got %d", len(data)-1)
		}
		defer func() {
			if r := recover(); r != nil {
				ix, err = Instruction{}, errors.ErrInvalidInstructionData.Newf("%v", r)
			}
		}()
		var p amountPayload
		if err := borsh.Deserialize(&p, data[:9]); err != nil {
			return Instruction{}, errors.Wrap(errors.ErrInvalidInstructionData, err.Error())
		}
		return Instruction{Tag: p.Tag, Amount: p.Amount}, nil
	case TagCancel:
		return Instruction{Tag: TagCancel}, nil
	default:
		return Instruction{}, errors.ErrInvalidInstructionData.Newf("unknown tag %d", data[0])
	}
}

// Marshal encodes the instruction data.
func (ix Instruction) Marshal() ([]byte, error) {
	switch ix.Tag {
	case TagInitialize, TagExchange:
		raw, err := borsh.Serialize(amountPayload{Tag: ix.Tag, Amount: ix.Amount})
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidInstructionData, err.Error())
		}
		return raw, nil
	case TagCancel:
		return []byte{TagCancel}, nil
	default:
		return nil, errors.ErrInvalidInstructionData.Newf("unknown tag %d", ix.Tag)
	}
}

func mustMarshal(ix Instruction) []byte {
	raw, err := ix.Marshal()
	if err != nil {
		panic(err)
	}
	return raw
}

// InitializeParam lists the accounts of an Initialize instruction.
type InitializeParam struct {
	ProgramID escrowswap.PublicKey
	// Initiator signs and owns the locked account until now.
	Initiator escrowswap.PublicKey
	// LockedAccount is a token account holding the offered tokens.
	LockedAccount escrowswap.PublicKey
	// PayoutAccount receives the payment.
	PayoutAccount escrowswap.PublicKey
	// Record is an empty, rent exempt account owned by the program.
	Record          escrowswap.PublicKey
	ExpectedPayment uint64
}

// NewInitializeInstruction builds an Initialize instruction.
func NewInitializeInstruction(p InitializeParam) types.Instruction {
	return types.Instruction{
		ProgramID: p.ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: p.Initiator, IsSigner: true, IsWritable: false},
			{PubKey: p.LockedAccount, IsSigner: false, IsWritable: true},
			{PubKey: p.PayoutAccount, IsSigner: false, IsWritable: false},
			{PubKey: p.Record, IsSigner: false, IsWritable: true},
			{PubKey: escrowswap.TokenProgramID, IsSigner: false, IsWritable: false},
		},
		Data: mustMarshal(Instruction{Tag: TagInitialize, Amount: p.ExpectedPayment}),
	}
}

// ExchangeParam lists the accounts of an Exchange instruction.
type ExchangeParam struct {
	ProgramID escrowswap.PublicKey
	// Counterparty signs and pays.
	Counterparty escrowswap.PublicKey
	// PaymentAccount is the counterparty token account paying.
	PaymentAccount escrowswap.PublicKey
	// ReceivingAccount is the counterparty token account receiving the
	// locked tokens.
	ReceivingAccount escrowswap.PublicKey
	LockedAccount    escrowswap.PublicKey
	Initiator        escrowswap.PublicKey
	PayoutAccount    escrowswap.PublicKey
	Record           escrowswap.PublicKey
	// Custody is the address returned by FindCustodyAddress for the
	// initiator.
	Custody escrowswap.PublicKey
	// ExpectedLocked must equal the locked balance.
	ExpectedLocked uint64
}

// NewExchangeInstruction builds an Exchange instruction.
func NewExchangeInstruction(p ExchangeParam) types.Instruction {
	return types.Instruction{
		ProgramID: p.ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: p.Counterparty, IsSigner: true, IsWritable: false},
			{PubKey: p.PaymentAccount, IsSigner: false, IsWritable: true},
			{PubKey: p.ReceivingAccount, IsSigner: false, IsWritable: true},
			{PubKey: p.LockedAccount, IsSigner: false, IsWritable: true},
			{PubKey: p.Initiator, IsSigner: false, IsWritable: true},
			{PubKey: p.PayoutAccount, IsSigner: false, IsWritable: true},
			{PubKey: p.Record, IsSigner: false, IsWritable: true},
			{PubKey: escrowswap.TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: p.Custody, IsSigner: false, IsWritable: false},
		},
		Data: mustMarshal(Instruction{Tag: TagExchange, Amount: p.ExpectedLocked}),
	}
}

// CancelParam lists the accounts of a Cancel instruction.
type CancelParam struct {
	ProgramID     escrowswap.PublicKey
	Initiator     escrowswap.PublicKey
	Record        escrowswap.PublicKey
	LockedAccount escrowswap.PublicKey
	// ReclaimAccount receives the locked tokens.
	ReclaimAccount escrowswap.PublicKey
	Custody        escrowswap.PublicKey
}

// NewCancelInstruction builds a Cancel instruction.
func NewCancelInstruction(p CancelParam) types.Instruction {
	return types.Instruction{
		ProgramID: p.ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: p.Initiator, IsSigner: true, IsWritable: true},
			{PubKey: p.Record, IsSigner: false, IsWritable: true},
			{PubKey: p.LockedAccount, IsSigner: false, IsWritable: true},
			{PubKey: p.ReclaimAccount, IsSigner: false, IsWritable: true},
			{PubKey: escrowswap.TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: p.Custody, IsSigner: false, IsWritable: false},
		},
		Data: mustMarshal(Instruction{Tag: TagCancel}),
	}
}
