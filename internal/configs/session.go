package configs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

type SessionConfig struct {
	Session Session `toml:"session"`
}

// Session holds the key material a logged-in client keeps between runs.
//
// When Salt is set the session is sealed: MasterKey and PrivateKey hold
// secretbox ciphertexts under a key derived from a passphrase.
type Session struct {
	ID         string    `toml:"id"`
	MasterKey  string    `toml:"master_key"`
	PrivateKey string    `toml:"private_key,omitempty"`
	Salt       string    `toml:"salt,omitempty"`
	CreatedAt  time.Time `toml:"created_at"`
}

// GenerateSessionID generates a new UUID for a session.
func GenerateSessionID() string {
	return uuid.New().String()
}

// NewSession returns a session for the given master key. privateKey is the
// encoded RSA key blob and may be empty.
func NewSession(masterKey []byte, privateKey string) (*SessionConfig, error) {
	if len(masterKey) != primitives.KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", kerrors.ErrMasterKeyRequired, primitives.KeySize, len(masterKey))
	}

	return &SessionConfig{Session: Session{
		ID:         GenerateSessionID(),
		MasterKey:  primitives.EncodeBase64(masterKey),
		PrivateKey: privateKey,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}}, nil
}

// LoadSession loads a session file.
func LoadSession(path string) (*SessionConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSessionNotFound, path)
	}

	config := &SessionConfig{}
	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidSession, err)
	}

	if config.Session.Sealed() {
		if err := config.Session.checkSealed(); err != nil {
			return nil, err
		}
		return config, nil
	}

	if _, err := config.Session.DecodeMasterKey(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveSession saves a session file.
func SaveSession(path string, config *SessionConfig) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DecodeMasterKey returns the raw master key. A sealed session must be
// opened first.
func (s Session) DecodeMasterKey() ([]byte, error) {
	if s.Sealed() {
		return nil, kerrors.ErrPassphraseRequired
	}
	key, err := primitives.DecodeBase64(s.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: master key: %v", kerrors.ErrInvalidSession, err)
	}
	if len(key) != primitives.KeySize {
		return nil, fmt.Errorf("%w: master key is %d bytes", kerrors.ErrInvalidSession, len(key))
	}
	return key, nil
}

// DecodePrivateKey unwraps the session's RSA key with masterKey. It returns
// nil when the session has none.
func (s Session) DecodePrivateKey(masterKey []byte) (*primitives.RSAPrivateKey, error) {
	if s.PrivateKey == "" {
		return nil, nil
	}
	if s.Sealed() {
		return nil, kerrors.ErrPassphraseRequired
	}

	blob, err := primitives.DecodeBase64(s.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", kerrors.ErrInvalidSession, err)
	}
	return primitives.DecodeRSAPrivateKey(blob, masterKey)
}

// Sealed reports whether the keys are encrypted under a passphrase.
func (s Session) Sealed() bool {
	return s.Salt != ""
}

// Seal encrypts the master key and private key under passphrase.
func (s *Session) Seal(passphrase []byte, rand io.Reader) error {
	if s.Sealed() {
		return fmt.Errorf("session is already sealed")
	}

	masterKey, err := s.DecodeMasterKey()
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	key, err := deriveSealKey(passphrase, salt)
	if err != nil {
		return err
	}

	sealedMaster, err := sealBytes(masterKey, key, rand)
	if err != nil {
		return err
	}

	sealedPrivate := ""
	if s.PrivateKey != "" {
		blob, err := primitives.DecodeBase64(s.PrivateKey)
		if err != nil {
			return fmt.Errorf("%w: private key: %v", kerrors.ErrInvalidSession, err)
		}
		sealed, err := sealBytes(blob, key, rand)
		if err != nil {
			return err
		}
		sealedPrivate = primitives.EncodeBase64(sealed)
	}

	s.Salt = primitives.EncodeBase64(salt)
	s.MasterKey = primitives.EncodeBase64(sealedMaster)
	s.PrivateKey = sealedPrivate
	return nil
}

// Open returns a copy of the session with its keys decrypted. An unsealed
// session is returned as is.
//
// Returns ErrWrongPassphrase if passphrase does not match.
func (s Session) Open(passphrase []byte) (Session, error) {
	if !s.Sealed() {
		return s, nil
	}

	salt, err := primitives.DecodeBase64(s.Salt)
	if err != nil {
		return Session{}, fmt.Errorf("%w: salt: %v", kerrors.ErrInvalidSession, err)
	}
	key, err := deriveSealKey(passphrase, salt)
	if err != nil {
		return Session{}, err
	}

	opened := s
	opened.Salt = ""

	masterKey, err := openField(s.MasterKey, key)
	if err != nil {
		return Session{}, err
	}
	opened.MasterKey = primitives.EncodeBase64(masterKey)

	if s.PrivateKey != "" {
		blob, err := openField(s.PrivateKey, key)
		if err != nil {
			return Session{}, err
		}
		opened.PrivateKey = primitives.EncodeBase64(blob)
	}

	if _, err := opened.DecodeMasterKey(); err != nil {
		return Session{}, err
	}
	return opened, nil
}

func openField(field string, key *[32]byte) ([]byte, error) {
	sealed, err := primitives.DecodeBase64(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidSession, err)
	}
	return openBytes(sealed, key)
}

// checkSealed validates the encoding of a sealed session without opening it.
func (s Session) checkSealed() error {
	salt, err := primitives.DecodeBase64(s.Salt)
	if err != nil || len(salt) != saltSize {
		return fmt.Errorf("%w: salt is not %d bytes of base64", kerrors.ErrInvalidSession, saltSize)
	}
	if s.MasterKey == "" {
		return fmt.Errorf("%w: missing master key", kerrors.ErrInvalidSession)
	}
	return nil
}
