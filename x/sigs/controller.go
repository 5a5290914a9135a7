package sigs

import (
	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/crypto"
	"github.com/iov-one/escrowswap/errors"
)

// VerifyTxSignatures checks all the signatures on the tx against the sign
// bytes bound to the chain id.
//
// returns list of signer keys (possibly empty),
// or error if any signature is invalid
func VerifyTxSignatures(tx *escrowswap.Tx, chainID string) ([]escrowswap.PublicKey, error) {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return nil, err
	}

	signers := make([]escrowswap.PublicKey, 0, len(tx.Signatures))
	for i, sig := range tx.Signatures {
		if !crypto.Verify(sig.PubKey, bz, sig.Signature) {
			return nil, errors.Wrapf(errors.ErrMissingSignature, "invalid signature %d of %s", i, sig.PubKey)
		}
		signers = append(signers, sig.PubKey)
	}
	return signers, nil
}

// SignTx creates a signature of the transaction for the given chain.
// The signature is not attached to the transaction.
func SignTx(signer crypto.Signer, tx *escrowswap.Tx, chainID string) (escrowswap.Signature, error) {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return escrowswap.Signature{}, err
	}
	sig, err := signer.Sign(bz)
	if err != nil {
		return escrowswap.Signature{}, errors.Wrap(err, "sign")
	}
	return escrowswap.Signature{
		PubKey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}

// Sign appends a signature from every signer to the transaction.
func Sign(tx *escrowswap.Tx, chainID string, signers ...crypto.Signer) error {
	for _, s := range signers {
		sig, err := SignTx(s, tx, chainID)
		if err != nil {
			return err
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	return nil
}
