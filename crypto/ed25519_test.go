package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/escrowswap"
	"github.com/iov-one/escrowswap/escrowtest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !Verify(public, msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !Verify(public, msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}

	if Verify(public, msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if Verify(public, msg2, sig) {
		t.Fatal("verified message signature of the wrong message")
	}

	if Verify(public, msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
}

func TestEd25519Keys(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()

	if pub == pub2 {
		t.Fatal("two random keys are equal")
	}
	if !escrowswap.IsOnCurve(pub) {
		t.Fatal("ed25519 public key is not on the curve")
	}

	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed).PublicKey()
	b := PrivKeyEd25519FromSeed(seed).PublicKey()
	assert.Equal(t, a, b)
}
