package escrowswap

import (
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/escrowswap/errors"
	"github.com/near/borsh-go"
)

// MaxInstructions limits the number of instructions a single transaction
// may carry.
const MaxInstructions = 64

// Signature binds a signer key to its signature over the transaction sign
// bytes.
type Signature struct {
	PubKey    PublicKey
	Signature []byte
}

// Tx represent the data sent from the user to the ledger. Instructions are
// executed in order and either all of them are applied or none is.
type Tx struct {
	Instructions []types.Instruction
	Signatures   []Signature
}

type wireMeta struct {
	PubKey     PublicKey
	IsSigner   bool
	IsWritable bool
}

type wireInstruction struct {
	ProgramID PublicKey
	Accounts  []wireMeta
	Data      []byte
}

type wireSignBytes struct {
	ChainID      string
	Instructions []wireInstruction
}

type wireTx struct {
	Instructions []wireInstruction
	Signatures   []Signature
}

func toWire(ixs []types.Instruction) []wireInstruction {
	out := make([]wireInstruction, len(ixs))
	for i, ix := range ixs {
		metas := make([]wireMeta, len(ix.Accounts))
		for j, m := range ix.Accounts {
			metas[j] = wireMeta{PubKey: m.PubKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable}
		}
		out[i] = wireInstruction{ProgramID: ix.ProgramID, Accounts: metas, Data: ix.Data}
	}
	return out
}

func fromWire(ixs []wireInstruction) []types.Instruction {
	out := make([]types.Instruction, len(ixs))
	for i, ix := range ixs {
		metas := make([]types.AccountMeta, len(ix.Accounts))
		for j, m := range ix.Accounts {
			metas[j] = types.AccountMeta{PubKey: m.PubKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable}
		}
		out[i] = types.Instruction{ProgramID: ix.ProgramID, Accounts: metas, Data: ix.Data}
	}
	return out
}

// SignBytes returns the bytes every signer must sign. They commit to the
// chain id, so a signature cannot be replayed on another chain.
func (tx *Tx) SignBytes(chainID string) ([]byte, error) {
	raw, err := borsh.Serialize(wireSignBytes{
		ChainID:      chainID,
		Instructions: toWire(tx.Instructions),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Marshal serializes the whole transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := borsh.Serialize(wireTx{
		Instructions: toWire(tx.Instructions),
		Signatures:   tx.Signatures,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Unmarshal deserializes a transaction created with Marshal.
func (tx *Tx) Unmarshal(raw []byte) (err error) {
	// Malformed input may panic inside of the decoder.
	defer func() {
		if r := recover(); r != nil {
			err = errors.ErrInput.Newf("cannot decode transaction: %v", r)
		}
	}()

	var w wireTx
	if err := borsh.Deserialize(&w, raw); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	tx.Instructions = fromWire(w.Instructions)
	tx.Signatures = w.Signatures
	return nil
}

// Validate checks the structure of the transaction. It does not verify
// signatures.
func (tx *Tx) Validate() error {
	if len(tx.Instructions) == 0 {
		return errors.Wrap(errors.ErrInput, "no instructions")
	}
	if len(tx.Instructions) > MaxInstructions {
		return errors.Wrapf(errors.ErrInput, "too many instructions: %d", len(tx.Instructions))
	}
	seen := make(map[PublicKey]bool, len(tx.Signatures))
	for _, s := range tx.Signatures {
		if seen[s.PubKey] {
			return errors.Wrapf(errors.ErrInput, "duplicated signature of %s", s.PubKey)
		}
		seen[s.PubKey] = true
	}
	return nil
}

// RequiredSigners returns all keys marked as signer by any instruction, in
// the order of their first appearance.
func (tx *Tx) RequiredSigners() []PublicKey {
	var signers []PublicKey
	seen := make(map[PublicKey]bool)
	for _, ix := range tx.Instructions {
		for _, m := range ix.Accounts {
			if m.IsSigner && !seen[m.PubKey] {
				seen[m.PubKey] = true
				signers = append(signers, m.PubKey)
			}
		}
	}
	return signers
}
