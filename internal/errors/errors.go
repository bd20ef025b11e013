package errors

import "errors"

// Key errors indicate wrapped key material that cannot be used.
var (
	// ErrMalformedKey indicates a wrapped key whose length is not a whole number
	// of cipher blocks, undecodable base64, or an MPI header pointing past the
	// end of its buffer.
	ErrMalformedKey = errors.New("malformed key")

	// ErrMissingKeyMaterial indicates a node that requires a key cannot derive one,
	// or that its ancestry cannot be walked.
	ErrMissingKeyMaterial = errors.New("missing key material")

	// ErrMasterKeyRequired indicates no usable master key was supplied.
	ErrMasterKeyRequired = errors.New("a 128-bit master key is required")
)

// Metadata errors indicate node attributes that could not be decoded.
var (
	// ErrCorruptedAttributes indicates encrypted attributes could not be decoded.
	// It never aborts a resolution pass; the node gets a placeholder name.
	ErrCorruptedAttributes = errors.New("corrupted attributes")
)

// Share errors indicate a share grant could not be built.
var (
	// ErrInvalidShareTarget indicates the node cannot be shared, either because
	// it is a pseudo-root or because it carries no full key.
	ErrInvalidShareTarget = errors.New("node cannot be shared")
)

// Input errors indicate issues with the data handed to the CLI.
var (
	// ErrInvalidListing indicates a node listing document could not be parsed.
	ErrInvalidListing = errors.New("invalid node listing")

	// ErrNodeNotFound indicates the requested node is not in the listing.
	ErrNodeNotFound = errors.New("node not found")

	// ErrSessionNotFound indicates no session configuration exists yet.
	ErrSessionNotFound = errors.New("session configuration not found")

	// ErrInvalidSession indicates the session configuration is malformed.
	ErrInvalidSession = errors.New("session configuration is invalid")

	// ErrSessionExists indicates a session file would be overwritten.
	ErrSessionExists = errors.New("session configuration already exists")

	// ErrPassphraseRequired indicates a sealed session was opened without a
	// passphrase.
	ErrPassphraseRequired = errors.New("session is sealed and needs a passphrase")

	// ErrWrongPassphrase indicates the passphrase does not open the session.
	ErrWrongPassphrase = errors.New("wrong session passphrase")
)
