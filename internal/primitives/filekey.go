package primitives

import (
	"fmt"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

const (
	// FileKeySize is the size of an unwrapped file key blob.
	FileKeySize = 32

	// IVSize and MetaMacSize are the sizes of the two halves of the blob's tail.
	IVSize      = 8
	MetaMacSize = 8
)

// SplitFileKey folds a 256-bit file key blob into its IV, meta-MAC and
// 128-bit content key.
func SplitFileKey(full []byte) (iv, metaMac, contentKey []byte, err error) {
	if len(full) != FileKeySize {
		return nil, nil, nil, fmt.Errorf("%w: file key is %d bytes, expected %d", kerrors.ErrMissingKeyMaterial, len(full), FileKeySize)
	}

	iv = make([]byte, IVSize)
	metaMac = make([]byte, MetaMacSize)
	copy(iv, full[16:24])
	copy(metaMac, full[24:32])

	contentKey = make([]byte, KeySize)
	for i := range contentKey {
		contentKey[i] = full[i] ^ full[i+16]
	}

	return iv, metaMac, contentKey, nil
}

// MergeFileKey builds the 256-bit blob for a new file node from its parts.
func MergeFileKey(contentKey, iv, metaMac []byte) ([]byte, error) {
	if len(contentKey) != KeySize || len(iv) != IVSize || len(metaMac) != MetaMacSize {
		return nil, fmt.Errorf("%w: file key parts must be %d/%d/%d bytes", kerrors.ErrMalformedKey, KeySize, IVSize, MetaMacSize)
	}

	full := make([]byte, FileKeySize)
	copy(full[16:24], iv)
	copy(full[24:32], metaMac)
	for i := 0; i < KeySize; i++ {
		full[i] = contentKey[i] ^ full[i+16]
	}

	return full, nil
}
