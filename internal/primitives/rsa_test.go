package primitives

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"errors"
	"math/big"
	"testing"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

func appendMPI(dst []byte, v *big.Int) []byte {
	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(v.BitLen()))
	dst = append(dst, header[:]...)
	return append(dst, v.Bytes()...)
}

func encodePrivateKey(t *testing.T, key *rsa.PrivateKey, masterKey []byte) []byte {
	t.Helper()

	var blob []byte
	blob = appendMPI(blob, key.Primes[0])
	blob = appendMPI(blob, key.Primes[1])
	blob = appendMPI(blob, key.D)
	blob = appendMPI(blob, key.Precomputed.Qinv)

	padded := make([]byte, len(blob)+BlockSize-len(blob)%BlockSize)
	copy(padded, blob)

	wrapped, err := WrapKey(padded, masterKey)
	if err != nil {
		t.Fatalf("WrapKey failed: %v", err)
	}
	return wrapped
}

func TestDecodeRSAPrivateKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	masterKey := testKey()

	decoded, err := DecodeRSAPrivateKey(encodePrivateKey(t, key, masterKey), masterKey)
	if err != nil {
		t.Fatalf("DecodeRSAPrivateKey failed: %v", err)
	}

	if decoded.P.Cmp(key.Primes[0]) != 0 || decoded.Q.Cmp(key.Primes[1]) != 0 {
		t.Error("prime factors do not match")
	}
	if decoded.D.Cmp(key.D) != 0 {
		t.Error("private exponent does not match")
	}
	if decoded.U.Cmp(key.Precomputed.Qinv) != 0 {
		t.Error("CRT coefficient does not match")
	}
	if decoded.Modulus().Cmp(key.N) != 0 {
		t.Error("modulus does not match")
	}
}

func TestRSAPrivateKey_Decrypt(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	decoded, err := DecodeRSAPrivateKey(encodePrivateKey(t, key, testKey()), testKey())
	if err != nil {
		t.Fatalf("DecodeRSAPrivateKey failed: %v", err)
	}

	// A message with leading zero bytes comes back stripped.
	message := append([]byte{0, 0}, []byte("share key 16byte")...)
	m := new(big.Int).SetBytes(message)
	c := new(big.Int).Exp(m, big.NewInt(int64(key.E)), key.N)

	got := decoded.Decrypt(c.Bytes())
	if !bytes.Equal(got, []byte("share key 16byte")) {
		t.Errorf("expected %q, got %q", "share key 16byte", got)
	}

	got, err = decoded.DecryptMPI(appendMPI(nil, c))
	if err != nil {
		t.Fatalf("DecryptMPI failed: %v", err)
	}
	if !bytes.Equal(got, []byte("share key 16byte")) {
		t.Errorf("expected %q, got %q", "share key 16byte", got)
	}
}

func TestDecodeRSAPrivateKey_PadsUnalignedInput(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}

	var blob []byte
	blob = appendMPI(blob, key.Primes[0])
	blob = appendMPI(blob, key.Primes[1])
	blob = appendMPI(blob, key.D)
	blob = appendMPI(blob, key.Precomputed.Qinv)

	// One spare block of filler after the aligned record.
	padded := make([]byte, len(blob)+2*BlockSize-len(blob)%BlockSize)
	copy(padded, blob)
	wrapped, err := WrapKey(padded, testKey())
	if err != nil {
		t.Fatalf("WrapKey failed: %v", err)
	}

	// Blocks unwrap independently, so a ragged tail only damages filler.
	ragged := wrapped[:len(wrapped)-BlockSize+1]
	decoded, err := DecodeRSAPrivateKey(ragged, testKey())
	if err != nil {
		t.Fatalf("DecodeRSAPrivateKey failed: %v", err)
	}
	if decoded.Modulus().Cmp(key.N) != 0 {
		t.Error("modulus does not match")
	}
}

func TestReadMPI_Overrun(t *testing.T) {
	_, _, err := ReadMPI([]byte{0x04, 0x00, 0x01, 0x02})
	if !errors.Is(err, kerrors.ErrMalformedKey) {
		t.Errorf("expected ErrMalformedKey, got %v", err)
	}

	_, _, err = ReadMPI([]byte{0x01})
	if !errors.Is(err, kerrors.ErrMalformedKey) {
		t.Errorf("expected ErrMalformedKey for short header, got %v", err)
	}

	v, n, err := ReadMPI([]byte{0x00, 0x09, 0x01, 0xff, 0xaa})
	if err != nil {
		t.Fatalf("ReadMPI failed: %v", err)
	}
	if n != 4 || v.Int64() != 0x01ff {
		t.Errorf("expected 0x1ff over 4 bytes, got %x over %d", v, n)
	}
}

func TestDecodeRSAPrivateKey_Truncated(t *testing.T) {
	blob := appendMPI(nil, new(big.Int).Lsh(big.NewInt(1), 1023))
	padded := make([]byte, 2*BlockSize)
	copy(padded, blob[:2*BlockSize])

	wrapped, err := WrapKey(padded, testKey())
	if err != nil {
		t.Fatalf("WrapKey failed: %v", err)
	}

	_, err = DecodeRSAPrivateKey(wrapped, testKey())
	if !errors.Is(err, kerrors.ErrMalformedKey) {
		t.Errorf("expected ErrMalformedKey, got %v", err)
	}
}

func TestDecodeRSAPrivateKey_DegenerateComponents(t *testing.T) {
	prime := new(big.Int).SetInt64(0xfffffffb)
	tests := []struct {
		name       string
		components []*big.Int
	}{
		{name: "zero p", components: []*big.Int{big.NewInt(0), prime, prime, big.NewInt(3)}},
		{name: "one q", components: []*big.Int{prime, big.NewInt(1), prime, big.NewInt(3)}},
		{name: "zero d", components: []*big.Int{prime, prime, big.NewInt(0), big.NewInt(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var blob []byte
			for _, c := range tt.components {
				blob = appendMPI(blob, c)
			}
			padded := make([]byte, len(blob)+BlockSize-len(blob)%BlockSize)
			copy(padded, blob)

			wrapped, err := WrapKey(padded, testKey())
			if err != nil {
				t.Fatalf("WrapKey failed: %v", err)
			}

			_, err = DecodeRSAPrivateKey(wrapped, testKey())
			if !errors.Is(err, kerrors.ErrMalformedKey) {
				t.Errorf("expected ErrMalformedKey, got %v", err)
			}
		})
	}
}
