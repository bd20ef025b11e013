package nodes

import (
	"fmt"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	logger "github.com/PolarWolf314/nodekeys/internal/logging"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// Display names of the pseudo nodes, which carry no attributes.
var pseudoNodeNames = map[NodeType]string{
	Root:  "Cloud Drive",
	Inbox: "Inbox",
	Trash: "Rubbish Bin",
}

// Resolver turns a list-nodes response into resolved nodes.
type Resolver struct {
	masterKey  []byte
	privateKey *primitives.RSAPrivateKey
	log        logger.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPrivateKey lets the resolver open share keys that other users
// encrypted to the account's RSA key.
func WithPrivateKey(key *primitives.RSAPrivateKey) ResolverOption {
	return func(r *Resolver) {
		r.privateKey = key
	}
}

// WithLogger sets the logger used for soft failures.
func WithLogger(log logger.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = log
	}
}

// NewResolver returns a resolver for the account with the given master key.
func NewResolver(masterKey []byte, opts ...ResolverOption) (*Resolver, error) {
	if len(masterKey) != primitives.KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", kerrors.ErrMasterKeyRequired, primitives.KeySize, len(masterKey))
	}

	r := &Resolver{masterKey: append([]byte(nil), masterKey...)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve runs one resolution pass over the listing. Descriptors are handled
// in array order, so a share key announced by a node is only visible to the
// nodes that follow it. Any key failure aborts the pass and no nodes are
// returned. Attribute failures only degrade the node's name.
func (r *Resolver) Resolve(listing *Listing) (*Tree, error) {
	if listing == nil {
		return nil, fmt.Errorf("%w: no listing", kerrors.ErrInvalidListing)
	}

	registry := NewSharedKeyRegistry(listing.SharedKeys)
	r.log.Debugf("Seeded share key registry with %d entries", registry.Len())

	resolved := make([]*Node, 0, len(listing.Nodes))
	for i := range listing.Nodes {
		raw := &listing.Nodes[i]

		if raw.SharingKey != "" && registry.Add(raw.ID, raw.SharingKey) {
			r.log.Debugf("Registered share key announced by %s", raw.ID)
		}

		node, err := r.resolveNode(raw, registry)
		if err != nil {
			return nil, fmt.Errorf("resolving node %s: %w", raw.ID, err)
		}
		resolved = append(resolved, node)
	}

	r.log.Infof("Resolved %d nodes", len(resolved))
	return newTree(resolved), nil
}

func (r *Resolver) resolveNode(raw *RawNode, registry *SharedKeyRegistry) (*Node, error) {
	node := &Node{
		id:           raw.ID,
		parentID:     raw.ParentID,
		owner:        raw.Owner,
		nodeType:     raw.Type,
		size:         raw.Size,
		lastModified: time.Unix(raw.Timestamp, 0).Local(),
	}

	if !raw.Type.HasKey() {
		node.name = pseudoNodeNames[raw.Type]
		return node, nil
	}

	keys, err := r.deriveKeys(raw, registry)
	if err != nil {
		return nil, err
	}
	node.keys = keys
	node.hasKeys = true

	node.attributes = r.decodeAttributes(raw, keys.ContentKey)
	node.name = node.attributes.Name
	return node, nil
}

func (r *Resolver) deriveKeys(raw *RawNode, registry *SharedKeyRegistry) (KeyMaterial, error) {
	// Several segments appear when a node and one of its ancestors are both
	// shared. Any of them opens the node; the first one is used.
	segment, _, _ := strings.Cut(raw.Key, "/")
	handle, encoded, ok := strings.Cut(segment, ":")
	if !ok {
		return KeyMaterial{}, fmt.Errorf("%w: key field has no handle separator", kerrors.ErrMissingKeyMaterial)
	}

	wrapped, err := primitives.DecodeBase64(encoded)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("%w: decoding wrapped key: %v", kerrors.ErrMalformedKey, err)
	}

	var keys KeyMaterial
	effective := r.masterKey
	if entry, found := registry.Lookup(handle); found {
		shareKey, err := r.shareKey(entry)
		if err != nil {
			return KeyMaterial{}, fmt.Errorf("opening share key %s: %w", handle, err)
		}
		effective = shareKey

		if raw.Type == Directory {
			keys.SharedKey = shareKey
		} else {
			own, err := primitives.UnwrapKey(wrapped, shareKey)
			if err != nil {
				return KeyMaterial{}, err
			}
			keys.SharedKey = own
		}
	}

	full, err := primitives.UnwrapKey(wrapped, effective)
	if err != nil {
		return KeyMaterial{}, err
	}
	keys.FullKey = full

	switch raw.Type {
	case File:
		iv, metaMac, contentKey, err := primitives.SplitFileKey(full)
		if err != nil {
			return KeyMaterial{}, err
		}
		keys.IV, keys.MetaMac, keys.ContentKey = iv, metaMac, contentKey
	case Directory:
		if len(full) != primitives.KeySize {
			return KeyMaterial{}, fmt.Errorf("%w: folder key is %d bytes", kerrors.ErrMissingKeyMaterial, len(full))
		}
		keys.ContentKey = full
	}

	return keys, nil
}

// shareKey opens a registry entry. Entries longer than one block were
// encrypted to the account's RSA key by another user.
func (r *Resolver) shareKey(entry string) ([]byte, error) {
	encrypted, err := primitives.DecodeBase64(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding share key: %v", kerrors.ErrMalformedKey, err)
	}

	if len(encrypted) > primitives.KeySize && r.privateKey != nil {
		plain, err := r.privateKey.DecryptMPI(encrypted)
		if err != nil {
			return nil, err
		}
		if len(plain) < primitives.KeySize {
			return nil, fmt.Errorf("%w: RSA share key is %d bytes", kerrors.ErrMissingKeyMaterial, len(plain))
		}
		return plain[:primitives.KeySize], nil
	}

	key, err := primitives.UnwrapKey(encrypted, r.masterKey)
	if err != nil {
		return nil, err
	}
	if len(key) != primitives.KeySize {
		return nil, fmt.Errorf("%w: share key is %d bytes", kerrors.ErrMissingKeyMaterial, len(key))
	}
	return key, nil
}

func (r *Resolver) decodeAttributes(raw *RawNode, contentKey []byte) primitives.Attributes {
	var attrs primitives.Attributes

	data, err := primitives.DecodeBase64(raw.Attributes)
	if err != nil {
		attrs = primitives.CorruptedAttributes(err)
	} else {
		attrs = primitives.DecryptAttributes(data, contentKey)
	}

	if err := attrs.Err(); err != nil {
		r.log.Warnf("Node %s: %v", raw.ID, err)
	}
	return attrs
}
