// Package errors provides typed error values for nodekeys.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key errors: unusable key material (ErrMalformedKey, ErrMissingKeyMaterial)
//   - Metadata errors: attribute decoding (ErrCorruptedAttributes)
//   - Share errors: grant construction (ErrInvalidShareTarget)
//   - Input errors: listing and session problems (ErrInvalidListing, ErrSessionNotFound)
//
// Only ErrCorruptedAttributes is absorbed where it occurs. Every other error
// aborts the whole resolution or share-build call and no partial result is
// returned.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("node %s: %w", id, errors.ErrMissingKeyMaterial)
//
// Handle them in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrInvalidShareTarget) {
//	    // Show user-friendly message
//	}
package errors
