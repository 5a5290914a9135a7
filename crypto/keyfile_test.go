package crypto

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/escrowswap/errors"
	"github.com/iov-one/escrowswap/escrowtest/assert"
)

func TestKeyFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "keys")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	key := PrivKeyEd25519FromSeed(make([]byte, 32))
	path := filepath.Join(dir, "initiator.key")

	assert.Nil(t, SavePrivateKey(key, path, false))
	assert.IsErr(t, errors.ErrInput, SavePrivateKey(key, path, false))
	assert.Nil(t, SavePrivateKey(key, path, true))

	loaded, err := LoadPrivateKey(path)
	assert.Nil(t, err)
	assert.Equal(t, key.PublicKey(), loaded.PublicKey())

	_, err = LoadPrivateKey(filepath.Join(dir, "missing"))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestDecodePrivateKey(t *testing.T) {
	key := GenPrivKeyEd25519()
	decoded, err := DecodePrivateKey(EncodePrivateKey(key))
	assert.Nil(t, err)
	assert.Equal(t, key.Ed25519, decoded.Ed25519)

	_, err = DecodePrivateKey("not hex")
	assert.IsErr(t, errors.ErrInput, err)
	_, err = DecodePrivateKey("abcd")
	assert.IsErr(t, errors.ErrInput, err)
}
