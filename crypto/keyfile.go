package crypto

import (
	"encoding/hex"
	"io/ioutil"
	"os"

	"github.com/iov-one/escrowswap/errors"
	"golang.org/x/crypto/ed25519"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// DecodePrivateKey reads a hex string created by EncodePrivateKey
// and returns the original PrivateKey
func DecodePrivateKey(hexKey string) (*PrivateKey, error) {
	data, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(data) != ed25519.PrivateKeySize {
		return nil, errors.ErrInput.Newf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(data))
	}
	return &PrivateKey{Ed25519: ed25519.PrivateKey(data)}, nil
}

// EncodePrivateKey stores the private key as a hex string
// that can be saved and later loaded
func EncodePrivateKey(key *PrivateKey) string {
	return hex.EncodeToString(key.Ed25519)
}

// LoadPrivateKey will load a private key from a file,
// Which was previously writen by SavePrivateKey
func LoadPrivateKey(filename string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNotFound, err.Error())
	}
	return DecodePrivateKey(string(raw))
}

// SavePrivateKey will encode the privatekey in hex and write to
// the named file. It will refuse to overwrite a file
func SavePrivateKey(key *PrivateKey, filename string, force bool) error {
	if !force { // check before overwriting keys
		if _, err := os.Stat(filename); err == nil {
			return errors.Wrapf(errors.ErrInput, "refusing to overwrite %s", filename)
		}
	}
	if err := ioutil.WriteFile(filename, []byte(EncodePrivateKey(key)), KeyPerm); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
