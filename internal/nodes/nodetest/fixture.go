// Package nodetest builds encrypted list-nodes responses for tests.
package nodetest

import (
	"crypto/sha256"

	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// Owner is the handle used for nodes wrapped with the master key.
const Owner = "00000000"

// Builder assembles a listing whose keys are derived deterministically from
// node ids.
type Builder struct {
	master  []byte
	listing nodes.Listing
	keys    map[string][]byte
}

// NewBuilder returns a builder for the account with the given master key.
func NewBuilder(masterKey []byte) *Builder {
	return &Builder{
		master: append([]byte(nil), masterKey...),
		keys:   make(map[string][]byte),
	}
}

// DerivedKey returns size bytes derived from label.
func DerivedKey(label string, size int) []byte {
	var out []byte
	for counter := byte(0); len(out) < size; counter++ {
		sum := sha256.Sum256(append([]byte(label), counter))
		out = append(out, sum[:]...)
	}
	return out[:size]
}

// Root adds a cloud drive root.
func (b *Builder) Root(id string) *Builder {
	b.listing.Nodes = append(b.listing.Nodes, nodes.RawNode{ID: id, Owner: Owner, Type: nodes.Root})
	return b
}

// Folder adds a folder wrapped with the master key.
func (b *Builder) Folder(id, parent, name string) *Builder {
	return b.FolderUnder(id, parent, name, Owner, b.master)
}

// File adds a file wrapped with the master key.
func (b *Builder) File(id, parent, name string) *Builder {
	return b.FileUnder(id, parent, name, Owner, b.master)
}

// FolderUnder adds a folder whose key is wrapped with wrapping and tagged
// with handle.
func (b *Builder) FolderUnder(id, parent, name, handle string, wrapping []byte) *Builder {
	key := DerivedKey("folder:"+id, primitives.KeySize)
	b.add(id, parent, name, nodes.Directory, key, key, handle, wrapping)
	return b
}

// FileUnder adds a file whose key is wrapped with wrapping and tagged with
// handle.
func (b *Builder) FileUnder(id, parent, name, handle string, wrapping []byte) *Builder {
	full := DerivedKey("file:"+id, primitives.FileKeySize)
	_, _, contentKey, err := primitives.SplitFileKey(full)
	if err != nil {
		panic(err)
	}
	b.add(id, parent, name, nodes.File, full, contentKey, handle, wrapping)
	return b
}

func (b *Builder) add(id, parent, name string, t nodes.NodeType, full, contentKey []byte, handle string, wrapping []byte) {
	b.keys[id] = full
	b.listing.Nodes = append(b.listing.Nodes, nodes.RawNode{
		ID:         id,
		ParentID:   parent,
		Owner:      Owner,
		Timestamp:  1700000000,
		Attributes: EncryptedName(name, contentKey),
		Key:        KeyField(handle, full, wrapping),
		Size:       int64(len(name)),
		Type:       t,
	})
}

// ShareKey adds an entry to the top-level share key list.
func (b *Builder) ShareKey(id string, shareKey []byte) *Builder {
	b.listing.SharedKeys = append(b.listing.SharedKeys, nodes.SharedKey{ID: id, Key: b.WrappedShareKey(shareKey)})
	return b
}

// Announce sets the inline share key field of the last added node.
func (b *Builder) Announce(shareKey []byte) *Builder {
	last := &b.listing.Nodes[len(b.listing.Nodes)-1]
	last.SharingKey = b.WrappedShareKey(shareKey)
	return b
}

// Raw appends a descriptor as is.
func (b *Builder) Raw(raw nodes.RawNode) *Builder {
	b.listing.Nodes = append(b.listing.Nodes, raw)
	return b
}

// WrappedShareKey returns shareKey wrapped with the master key and encoded.
func (b *Builder) WrappedShareKey(shareKey []byte) string {
	wrapped, err := primitives.WrapKey(shareKey, b.master)
	if err != nil {
		panic(err)
	}
	return primitives.EncodeBase64(wrapped)
}

// Key returns the full key of a node added by the builder.
func (b *Builder) Key(id string) []byte {
	return append([]byte(nil), b.keys[id]...)
}

// Listing returns a copy of the listing built so far.
func (b *Builder) Listing() *nodes.Listing {
	return &nodes.Listing{
		Nodes:      append([]nodes.RawNode(nil), b.listing.Nodes...),
		SharedKeys: append([]nodes.SharedKey(nil), b.listing.SharedKeys...),
	}
}

// KeyField returns the "handle:key" field for key wrapped with wrapping.
func KeyField(handle string, key, wrapping []byte) string {
	wrapped, err := primitives.WrapKey(key, wrapping)
	if err != nil {
		panic(err)
	}
	return handle + ":" + primitives.EncodeBase64(wrapped)
}

// EncryptedName returns the encoded attribute record holding name.
func EncryptedName(name string, contentKey []byte) string {
	data, err := primitives.EncryptAttributes(primitives.NewAttributes(name), contentKey)
	if err != nil {
		panic(err)
	}
	return primitives.EncodeBase64(data)
}
