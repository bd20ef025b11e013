package cmd

import (
	"fmt"

	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// keyFlag is a pflag.Value holding a 128-bit key given in protocol base64.
type keyFlag struct {
	key []byte
}

func (k *keyFlag) String() string {
	if len(k.key) == 0 {
		return ""
	}
	// Never echo key material back in help or errors.
	return "<redacted>"
}

func (k *keyFlag) Set(value string) error {
	key, err := primitives.DecodeBase64(value)
	if err != nil {
		return fmt.Errorf("key is not valid base64: %w", err)
	}
	if len(key) != primitives.KeySize {
		return fmt.Errorf("key must be %d bytes, got %d", primitives.KeySize, len(key))
	}
	k.key = key
	return nil
}

func (k *keyFlag) Type() string {
	return "base64-key"
}

// Bytes returns the key, or nil when the flag was not set.
func (k *keyFlag) Bytes() []byte {
	return k.key
}

func (k *keyFlag) reset() {
	k.key = nil
}
