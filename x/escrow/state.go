package escrow

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// RecordSize is the size of the persisted Record.
const RecordSize = 1 + 32 + 32 + 32 + 8 + 1

// Record is the state of one in-flight trade. The field order defines the
// persisted layout.
type Record struct {
	IsInitialized bool
	// Initiator locked the tokens and receives every deposit back.
	Initiator escrowswap.PublicKey
	// LockedAccount is the token account held by the custody address.
	LockedAccount escrowswap.PublicKey
	// PayoutAccount receives the payment of the counterparty.
	PayoutAccount escrowswap.PublicKey
	// ExpectedPayment is the amount the counterparty has to pay.
	ExpectedPayment uint64
	// CustodyBump recreates the custody address.
	CustodyBump uint8
}

// Pack writes the record into dst, which must be RecordSize long.
func (r *Record) Pack(dst []byte) error {
	if len(dst) != RecordSize {
		return errors.ErrInvalidAccountData.Newf("record needs %d bytes, got %d", RecordSize, len(dst))
	}
	raw, err := borsh.Serialize(*r)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	copy(dst, raw)
	return nil
}

// UnpackRecord decodes a record. A zeroed buffer decodes into an
// uninitialized record.
func UnpackRecord(data []byte) (r *Record, err error) {
	if len(data) != RecordSize {
		return nil, errors.ErrInvalidAccountData.Newf("record needs %d bytes, got %d", RecordSize, len(data))
	}
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, errors.ErrInvalidAccountData.Newf("record: %v", rec)
		}
	}()
	var rec Record
	if err := borsh.Deserialize(&rec, data); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return &rec, nil
}

// closeRecord wipes the record data and moves its deposit to dest. An account
// left without lamports is removed once the transaction completes.
func closeRecord(record, dest *escrowswap.AccountInfo) error {
	if dest.Lamports+record.Lamports < dest.Lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "account %s overflows", dest.Key)
	}
	dest.Lamports += record.Lamports
	record.Lamports = 0
	for i := range record.Data {
		record.Data[i] = 0
	}
	return nil
}
