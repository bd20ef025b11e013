package configs

import (
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

const (
	saltSize  = 16
	nonceSize = 24

	// scrypt cost parameters for interactive use.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// deriveSealKey stretches a passphrase into a secretbox key.
func deriveSealKey(passphrase, salt []byte) (*[32]byte, error) {
	if len(passphrase) == 0 {
		return nil, kerrors.ErrPassphraseRequired
	}

	derived, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}

	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}

// sealBytes returns nonce || secretbox(plain).
func sealBytes(plain []byte, key *[32]byte, rand io.Reader) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, key), nil
}

func openBytes(sealed []byte, key *[32]byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: sealed value is %d bytes", kerrors.ErrInvalidSession, len(sealed))
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, kerrors.ErrWrongPassphrase
	}
	return plain, nil
}
