package nodes

import (
	"fmt"
	"time"

	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// Node is one resolved entry of the remote tree. Display code should work
// with the PublicNode projection; key material is only handed out by Keys.
type Node struct {
	id           string
	parentID     string
	owner        string
	nodeType     NodeType
	name         string
	size         int64
	lastModified time.Time
	attributes   primitives.Attributes

	keys    KeyMaterial
	hasKeys bool
}

// PublicNode is the part of a node that is safe to show anywhere.
type PublicNode struct {
	ID           string    `json:"id"`
	ParentID     string    `json:"parent_id,omitempty"`
	Owner        string    `json:"owner,omitempty"`
	Type         NodeType  `json:"type"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// KeyMaterial is the crypto projection of a node.
type KeyMaterial struct {
	ContentKey []byte
	// FullKey is the 32-byte file key or, for directories, the folder key.
	FullKey []byte
	IV      []byte
	MetaMac []byte
	// SharedKey is set for nodes inside a share.
	SharedKey []byte
}

func (k KeyMaterial) clone() KeyMaterial {
	return KeyMaterial{
		ContentKey: cloneBytes(k.ContentKey),
		FullKey:    cloneBytes(k.FullKey),
		IV:         cloneBytes(k.IV),
		MetaMac:    cloneBytes(k.MetaMac),
		SharedKey:  cloneBytes(k.SharedKey),
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (n *Node) ID() string       { return n.id }
func (n *Node) ParentID() string { return n.parentID }
func (n *Node) Type() NodeType   { return n.nodeType }
func (n *Node) Name() string     { return n.name }

// Attributes returns the decoded metadata record. Pseudo nodes have none.
func (n *Node) Attributes() primitives.Attributes {
	return n.attributes
}

// Public returns the display projection.
func (n *Node) Public() PublicNode {
	return PublicNode{
		ID:           n.id,
		ParentID:     n.parentID,
		Owner:        n.owner,
		Type:         n.nodeType,
		Name:         n.name,
		Size:         n.size,
		LastModified: n.lastModified,
	}
}

// Keys returns a copy of the node's key material. The boolean is false for
// root, inbox and trash nodes.
func (n *Node) Keys() (KeyMaterial, bool) {
	if !n.hasKeys {
		return KeyMaterial{}, false
	}
	return n.keys.clone(), true
}

// Equal reports whether both values describe the same node.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.id == other.id
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %s (%s)", n.nodeType, n.id, n.name)
}
