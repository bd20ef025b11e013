package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/nodekeys/internal/configs"
	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// Credentials is the key material a workflow runs with.
type Credentials struct {
	SessionID  string
	MasterKey  []byte
	PrivateKey *primitives.RSAPrivateKey
}

// CredentialOptions says where credentials come from.
type CredentialOptions struct {
	// SessionPath is the session file. Empty means the default location.
	SessionPath string

	// MasterKey overrides the session's master key when set. The session
	// file is then optional.
	MasterKey []byte

	// Passphrase is asked for a sealed session's passphrase. It is not
	// called for unsealed sessions.
	Passphrase PassphraseFunc
}

// PassphraseFunc supplies the passphrase of a sealed session.
type PassphraseFunc func() ([]byte, error)

// openSession decrypts a sealed session with the passphrase from fn.
func openSession(session configs.Session, fn PassphraseFunc) (configs.Session, error) {
	if !session.Sealed() {
		return session, nil
	}
	if fn == nil {
		return configs.Session{}, kerrors.ErrPassphraseRequired
	}

	passphrase, err := fn()
	if err != nil {
		return configs.Session{}, fmt.Errorf("reading passphrase: %w", err)
	}
	return session.Open(passphrase)
}

// LoadCredentials reads the session file and decodes its keys.
//
// Returns ErrSessionNotFound when there is no session and no master key
// override. Returns ErrInvalidSession if the session cannot be decoded and
// ErrWrongPassphrase if a sealed session does not open.
func LoadCredentials(ctx context.Context, opts CredentialOptions) (*Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := opts.SessionPath
	if path == "" {
		path = configs.DefaultSessionPath()
	}

	config, err := configs.LoadSession(path)
	switch {
	case err == nil:
	case len(opts.MasterKey) > 0 && errors.Is(err, kerrors.ErrSessionNotFound):
		if len(opts.MasterKey) != primitives.KeySize {
			return nil, fmt.Errorf("%w: got %d bytes", kerrors.ErrMasterKeyRequired, len(opts.MasterKey))
		}
		return &Credentials{MasterKey: opts.MasterKey}, nil
	default:
		return nil, err
	}

	session, err := openSession(config.Session, opts.Passphrase)
	if err != nil {
		return nil, err
	}

	masterKey, err := session.DecodeMasterKey()
	if err != nil {
		return nil, err
	}
	if len(opts.MasterKey) > 0 {
		if len(opts.MasterKey) != primitives.KeySize {
			return nil, fmt.Errorf("%w: got %d bytes", kerrors.ErrMasterKeyRequired, len(opts.MasterKey))
		}
		masterKey = opts.MasterKey
	}

	privateKey, err := session.DecodePrivateKey(masterKey)
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}

	return &Credentials{
		SessionID:  session.ID,
		MasterKey:  masterKey,
		PrivateKey: privateKey,
	}, nil
}
