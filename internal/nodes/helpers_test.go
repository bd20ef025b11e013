package nodes_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

func testRSAKey(t *testing.T) *primitives.RSAPrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	return &primitives.RSAPrivateKey{
		P: key.Primes[0],
		Q: key.Primes[1],
		D: key.D,
		U: key.Precomputed.Qinv,
	}
}

// rsaEncryptMPI encrypts shareKey followed by filler, the way share keys
// are sent to another user's RSA key. shareKey must not start with a zero.
func rsaEncryptMPI(key *primitives.RSAPrivateKey, shareKey []byte) []byte {
	plain := append([]byte{}, shareKey...)
	plain = append(plain, make([]byte, 32)...)

	m := new(big.Int).SetBytes(plain)
	c := new(big.Int).Exp(m, big.NewInt(65537), key.Modulus())

	out := binary.BigEndian.AppendUint16(nil, uint16(c.BitLen()))
	return append(out, c.Bytes()...)
}
