package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
)

// NodeType is the server's node kind.
type NodeType int

const (
	File NodeType = iota
	Directory
	Root
	Inbox
	Trash
)

func (t NodeType) String() string {
	switch t {
	case File:
		return "file"
	case Directory:
		return "directory"
	case Root:
		return "root"
	case Inbox:
		return "inbox"
	case Trash:
		return "trash"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// HasKey reports whether nodes of this type carry their own key.
func (t NodeType) HasKey() bool {
	return t == File || t == Directory
}

// RawNode is one node descriptor of a list-nodes response.
type RawNode struct {
	ID         string   `json:"h"`
	ParentID   string   `json:"p"`
	Owner      string   `json:"u"`
	SharingID  string   `json:"su,omitempty"`
	SharingKey string   `json:"sk,omitempty"`
	Timestamp  int64    `json:"ts"`
	Attributes string   `json:"a"`
	Key        string   `json:"k"`
	Size       int64    `json:"s"`
	Type       NodeType `json:"t"`
}

// SharedKey is one entry of the top-level share key list.
type SharedKey struct {
	ID  string `json:"h"`
	Key string `json:"k"`
}

// Listing is the body of a list-nodes response.
type Listing struct {
	Nodes      []RawNode   `json:"f"`
	SharedKeys []SharedKey `json:"ok"`
}

// ParseListing decodes a list-nodes response. The API wraps results in a
// one-element array; both the bare object and the wrapped form are accepted.
func ParseListing(data []byte) (*Listing, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", kerrors.ErrInvalidListing)
	}

	if trimmed[0] == '[' {
		var batch []Listing
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidListing, err)
		}
		if len(batch) != 1 {
			return nil, fmt.Errorf("%w: expected one response, got %d", kerrors.ErrInvalidListing, len(batch))
		}
		return &batch[0], nil
	}

	var listing Listing
	if err := json.Unmarshal(trimmed, &listing); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidListing, err)
	}
	return &listing, nil
}

// ReadListing reads and decodes a list-nodes response from r.
func ReadListing(r io.Reader) (*Listing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read node listing: %w", err)
	}
	return ParseListing(data)
}

// ListRequest asks the server for the whole node tree, or for the tree of a
// shared folder when ShareID is set.
type ListRequest struct {
	Action  string `json:"a"`
	C       int    `json:"c"`
	ShareID string `json:"-"`
}

// NewListRequest returns the list-nodes command.
func NewListRequest(shareID string) ListRequest {
	return ListRequest{Action: "f", C: 1, ShareID: shareID}
}

// QueryArguments returns the URL query arguments the transport must add.
func (r ListRequest) QueryArguments() map[string]string {
	if r.ShareID == "" {
		return nil
	}
	return map[string]string{"n": r.ShareID}
}
