// Package configs manages the session file and local paths for nodekeys.
//
// A session is stored in TOML at <UserConfigDir>/nodekeys/session.toml:
//
//	[session]
//	id = "5f0c..."
//	master_key = "base64 master key"
//	private_key = "base64 encrypted RSA key"
//	created_at = 2024-01-01T00:00:00Z
//
// The master key is stored in protocol base64. The private key is stored as
// the server returns it, still wrapped with the master key; DecodePrivateKey
// opens it.
//
// # Sealed Sessions
//
// Seal encrypts both keys under a passphrase: scrypt stretches it into a key
// for golang.org/x/crypto/nacl/secretbox, and each field becomes
// nonce || box in base64. The random salt is stored as salt. Open reverses
// this; LoadSession only checks the encoding of a sealed file.
//
// # Settings
//
// UserNodekeysSettings is initialized at startup and holds the config and
// data directories. Tests may point it at a temporary directory.
package configs
