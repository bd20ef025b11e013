package primitives

import (
	"encoding/base64"
	"strings"
)

// The protocol transmits binary fields in the URL-safe alphabet without
// padding. Some server fields still arrive in the standard alphabet.
var base64Normalizer = strings.NewReplacer("+", "-", "/", "_", ",", "", "=", "")

// EncodeBase64 encodes b for the wire.
func EncodeBase64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64 decodes a wire field, accepting either alphabet with or
// without padding.
func DecodeBase64(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(base64Normalizer.Replace(strings.TrimSpace(s)))
}
