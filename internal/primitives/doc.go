// Package primitives implements the block-level cryptography of the node key
// hierarchy.
//
// # Key Wrapping
//
// Node keys, share keys and the RSA private key are stored wrapped: every
// 16-byte block is encrypted with AES under the wrapping key in CBC mode with
// an all-zero IV that is reset for every block. The transform therefore
// behaves like independent per-block encryption and is only used for key
// material, never for bulk content.
//
//	wrapped := WrapKey(plain, key)   // len(plain) % 16 == 0
//	plain, err := UnwrapKey(wrapped, key)
//
// # File Keys
//
// A file carries a 256-bit key blob holding the content key, the CTR IV and
// the meta-MAC seed. SplitFileKey folds it into its three parts:
//
//	BLOB := K0 || K1 || IV || MAC   (8 bytes each for IV and MAC)
//	CONTENT_KEY := K0 xor (IV || MAC)
//
// # Attributes
//
// Node metadata is a compact JSON object prefixed with the "MEGA" tag,
// zero padded to a block boundary and wrapped with the node's content key.
// DecryptAttributes never fails: corrupted records yield a placeholder name
// and Attributes.Err reports the reason.
//
// # RSA
//
// The account's RSA private key is stored as four MPI integers (p, q, d, u),
// each a 2-byte big-endian bit length followed by the big-endian value,
// wrapped with the master key.
package primitives
