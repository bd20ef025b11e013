package primitives

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

const (
	// KeySize is the size of master, share and content keys.
	KeySize = 16

	// BlockSize is the wrapping granularity.
	BlockSize = aes.BlockSize
)

// UnwrapKey decrypts wrapped key material block by block with key.
func UnwrapKey(wrapped, key []byte) ([]byte, error) {
	block, err := newWrapCipher(wrapped, key)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(wrapped))
	for i := 0; i < len(wrapped); i += BlockSize {
		iv := make([]byte, BlockSize)
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain[i:i+BlockSize], wrapped[i:i+BlockSize])
	}

	return plain, nil
}

// WrapKey is the inverse of UnwrapKey.
func WrapKey(plain, key []byte) ([]byte, error) {
	block, err := newWrapCipher(plain, key)
	if err != nil {
		return nil, err
	}

	wrapped := make([]byte, len(plain))
	for i := 0; i < len(plain); i += BlockSize {
		iv := make([]byte, BlockSize)
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(wrapped[i:i+BlockSize], plain[i:i+BlockSize])
	}

	return wrapped, nil
}

func newWrapCipher(data, key []byte) (cipher.Block, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte blocks", kerrors.ErrMalformedKey, len(data), BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedKey, err)
	}

	return block, nil
}

// NewKey returns a fresh 128-bit key read from r, or from crypto/rand when r
// is nil.
func NewKey(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	return key, nil
}
