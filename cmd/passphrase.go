package cmd

import (
	"bytes"
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/utils"
)

// passphraseEnv supplies the session passphrase without a prompt.
const passphraseEnv = "NODEKEYS_PASSPHRASE"

// readPassphrase returns the passphrase of an existing sealed session.
func readPassphrase() ([]byte, error) {
	if p, ok := os.LookupEnv(passphraseEnv); ok {
		return []byte(p), nil
	}
	return utils.ReadSecret("Session passphrase: ")
}

// newPassphrase returns the passphrase for a session being created. A
// prompted passphrase must be typed twice.
func newPassphrase() ([]byte, error) {
	if p, ok := os.LookupEnv(passphraseEnv); ok {
		if p == "" {
			return nil, kerrors.ErrPassphraseRequired
		}
		return []byte(p), nil
	}

	first, err := utils.ReadSecret("New session passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, kerrors.ErrPassphraseRequired
	}

	second, err := utils.ReadSecret("Repeat passphrase: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(first, second) {
		return nil, fmt.Errorf("passphrases do not match")
	}
	return first, nil
}
