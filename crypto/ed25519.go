package crypto

import (
	"github.com/iov-one/escrowswap"
	"golang.org/x/crypto/ed25519"
)

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() escrowswap.PublicKey
}

// PrivateKey is an ed25519 key able to sign for its account.
type PrivateKey struct {
	Ed25519 ed25519.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(p.Ed25519, message), nil
}

// PublicKey returns the account key of this private key.
func (p *PrivateKey) PublicKey() escrowswap.PublicKey {
	pub := p.Ed25519.Public().(ed25519.PublicKey)
	var key escrowswap.PublicKey
	copy(key[:], pub)
	return key
}

// Verify verifies the signature was created with this message and public key
func Verify(pub escrowswap.PublicKey, message, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), message, sig)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
