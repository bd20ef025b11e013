package primitives

import (
	"encoding/binary"
	"fmt"
	"math/big"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

// RSAPrivateKey holds the components of the account's RSA key.
type RSAPrivateKey struct {
	P *big.Int // first prime factor
	Q *big.Int // second prime factor
	D *big.Int // private exponent
	U *big.Int // CRT coefficient
}

// ReadMPI reads one MPI integer from the start of data and returns it with
// the number of bytes consumed.
func ReadMPI(data []byte) (*big.Int, int, error) {
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("%w: MPI header needs 2 bytes, have %d", kerrors.ErrMalformedKey, len(data))
	}

	bits := int(binary.BigEndian.Uint16(data))
	size := (bits + 7) / 8
	if 2+size > len(data) {
		return nil, 0, fmt.Errorf("%w: MPI of %d bits overruns buffer of %d bytes", kerrors.ErrMalformedKey, bits, len(data))
	}

	return new(big.Int).SetBytes(data[2 : 2+size]), 2 + size, nil
}

// DecodeRSAPrivateKey unwraps the encoded private key with the master key and
// reads its four MPI components.
func DecodeRSAPrivateKey(encoded, masterKey []byte) (*RSAPrivateKey, error) {
	padded := encoded
	if rem := len(encoded) % BlockSize; rem != 0 {
		padded = make([]byte, len(encoded)+BlockSize-rem)
		copy(padded, encoded)
	}

	plain, err := UnwrapKey(padded, masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap RSA private key: %w", err)
	}

	var components [4]*big.Int
	offset := 0
	for i := range components {
		v, n, err := ReadMPI(plain[offset:])
		if err != nil {
			return nil, fmt.Errorf("reading RSA component %d: %w", i, err)
		}
		components[i] = v
		offset += n
	}

	// A modulus or exponent this small makes Decrypt unbounded.
	for i, name := range []string{"p", "q", "d"} {
		if components[i].Cmp(big.NewInt(1)) <= 0 {
			return nil, fmt.Errorf("%w: RSA component %s is %v", kerrors.ErrMalformedKey, name, components[i])
		}
	}

	return &RSAPrivateKey{
		P: components[0],
		Q: components[1],
		D: components[2],
		U: components[3],
	}, nil
}

// Modulus returns p*q.
func (k *RSAPrivateKey) Modulus() *big.Int {
	return new(big.Int).Mul(k.P, k.Q)
}

// Decrypt applies the raw private-key operation to a big-endian ciphertext.
// The result has its leading zero bytes stripped.
func (k *RSAPrivateKey) Decrypt(ciphertext []byte) []byte {
	c := new(big.Int).SetBytes(ciphertext)
	return new(big.Int).Exp(c, k.D, k.Modulus()).Bytes()
}

// DecryptMPI decrypts a ciphertext that is itself MPI encoded, as share keys
// sent by other users are.
func (k *RSAPrivateKey) DecryptMPI(data []byte) ([]byte, error) {
	c, _, err := ReadMPI(data)
	if err != nil {
		return nil, err
	}
	return k.Decrypt(c.Bytes()), nil
}
