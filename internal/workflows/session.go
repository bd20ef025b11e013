package workflows

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/PolarWolf314/nodekeys/internal/configs"
	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

// InitSessionOptions configures the session init workflow.
type InitSessionOptions struct {
	// Path is the session file. Empty means the default location.
	Path string

	MasterKey []byte

	// PrivateKey is the encoded RSA key blob as returned at login.
	PrivateKey string

	// Passphrase seals the keys in the file when set.
	Passphrase []byte

	// Force overwrites an existing session.
	Force bool
}

// SessionSummary describes a session without exposing its keys.
type SessionSummary struct {
	Path          string    `json:"path"`
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Fingerprint   string    `json:"master_key_fingerprint"`
	HasPrivateKey bool      `json:"has_private_key"`
	Sealed        bool      `json:"sealed"`
}

// InitSession writes a new session file.
//
// Returns ErrSessionExists if the file exists and Force is not set.
// Returns an error if the private key does not open with the master key.
func InitSession(ctx context.Context, opts InitSessionOptions) (*SessionSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := opts.Path
	if path == "" {
		path = configs.DefaultSessionPath()
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSessionExists, path)
	}

	config, err := configs.NewSession(opts.MasterKey, opts.PrivateKey)
	if err != nil {
		return nil, err
	}
	if _, err := config.Session.DecodePrivateKey(opts.MasterKey); err != nil {
		return nil, fmt.Errorf("checking private key: %w", err)
	}
	if len(opts.Passphrase) > 0 {
		if err := config.Session.Seal(opts.Passphrase, rand.Reader); err != nil {
			return nil, fmt.Errorf("sealing session: %w", err)
		}
	}

	if err := configs.SaveSession(path, config); err != nil {
		return nil, err
	}

	summary := summarize(path, config.Session, opts.MasterKey)
	summary.Sealed = config.Session.Sealed()
	return summary, nil
}

// ShowSession loads a session and summarizes it. passphrase is asked for
// when the session is sealed.
func ShowSession(ctx context.Context, path string, passphrase PassphraseFunc) (*SessionSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		path = configs.DefaultSessionPath()
	}

	config, err := configs.LoadSession(path)
	if err != nil {
		return nil, err
	}
	session, err := openSession(config.Session, passphrase)
	if err != nil {
		return nil, err
	}
	masterKey, err := session.DecodeMasterKey()
	if err != nil {
		return nil, err
	}

	summary := summarize(path, session, masterKey)
	summary.Sealed = config.Session.Sealed()
	return summary, nil
}

func summarize(path string, s configs.Session, masterKey []byte) *SessionSummary {
	return &SessionSummary{
		Path:          path,
		ID:            s.ID,
		CreatedAt:     s.CreatedAt,
		Fingerprint:   Fingerprint(masterKey),
		HasPrivateKey: s.PrivateKey != "",
	}
}

// Fingerprint returns a short digest that identifies a key without
// revealing it.
func Fingerprint(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:8])
}
