package share

import (
	"fmt"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
)

// FolderCompletionHandle is the completion handle sent for new folders.
const FolderCompletionHandle = "xxxxxxxx"

// NewNode describes one node of a create-node request.
type NewNode struct {
	CompletionHandle string         `json:"h"`
	Type             nodes.NodeType `json:"t"`
	Attributes       string         `json:"a"`
	Key              string         `json:"k"`
}

// CreateNodeRequest is the "p" command that adds a node below a parent.
type CreateNodeRequest struct {
	Action   string     `json:"a"`
	ParentID string     `json:"t"`
	Nodes    []NewNode  `json:"n"`
	Share    *ShareData `json:"cr,omitempty"`
}

// NewCreateFolderRequest builds the request for a folder named name with
// the 16-byte folderKey.
func NewCreateFolderRequest(parent *nodes.Node, name string, folderKey, masterKey []byte) (*CreateNodeRequest, error) {
	if len(folderKey) != primitives.KeySize {
		return nil, fmt.Errorf("%w: folder key must be %d bytes", kerrors.ErrMalformedKey, primitives.KeySize)
	}
	return newCreateNodeRequest(parent, nodes.Directory, name, folderKey, folderKey, masterKey, FolderCompletionHandle)
}

// NewCreateFileRequest builds the request that completes an upload. fileKey
// is the 32-byte key produced by MergeFileKey.
func NewCreateFileRequest(parent *nodes.Node, name string, fileKey, masterKey []byte, completionHandle string) (*CreateNodeRequest, error) {
	_, _, contentKey, err := primitives.SplitFileKey(fileKey)
	if err != nil {
		return nil, err
	}
	return newCreateNodeRequest(parent, nodes.File, name, fileKey, contentKey, masterKey, completionHandle)
}

func newCreateNodeRequest(parent *nodes.Node, t nodes.NodeType, name string, fullKey, contentKey, masterKey []byte, completionHandle string) (*CreateNodeRequest, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: no parent", kerrors.ErrNodeNotFound)
	}

	attrs, err := primitives.EncryptAttributes(primitives.NewAttributes(name), contentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt attributes: %w", err)
	}
	wrapped, err := primitives.WrapKey(fullKey, masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap node key: %w", err)
	}

	req := &CreateNodeRequest{
		Action:   "p",
		ParentID: parent.ID(),
		Nodes: []NewNode{{
			CompletionHandle: completionHandle,
			Type:             t,
			Attributes:       primitives.EncodeBase64(attrs),
			Key:              primitives.EncodeBase64(wrapped),
		}},
	}

	// Nodes created inside a share must also be readable with its key.
	if keys, ok := parent.Keys(); ok && len(keys.SharedKey) == primitives.KeySize {
		item, err := newItem(completionHandle, fullKey, keys.SharedKey)
		if err != nil {
			return nil, err
		}
		req.Share = &ShareData{RootID: parent.ID(), Items: []Item{item}}
	}

	return req, nil
}
