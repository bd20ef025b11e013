package workflows

import (
	"context"
	"fmt"
	"io"

	"github.com/PolarWolf314/nodekeys/internal/audit"
	logger "github.com/PolarWolf314/nodekeys/internal/logging"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
	"github.com/PolarWolf314/nodekeys/internal/share"
)

// CreateFolderOptions configures the create-folder workflow.
type CreateFolderOptions struct {
	ListingData []byte
	Credentials *Credentials

	// Parent is the id or path of the folder to create in.
	Parent string
	Name   string

	// Rand is the source for the folder key. Nil uses crypto/rand.
	Rand io.Reader

	Logger logger.Logger
}

// CreateNodeResult contains the request that creates a folder or file.
type CreateNodeResult struct {
	ParentID string
	Request  *share.CreateNodeRequest

	// Shared is set when the parent is inside a share, so the request also
	// carries the node key under the share key.
	Shared bool
}

// CreateFolder builds the request that creates a folder below Parent.
func CreateFolder(ctx context.Context, opts CreateFolderOptions) (*CreateNodeResult, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("folder name must not be empty")
	}

	tree, err := resolveListing(ctx, opts.ListingData, opts.Credentials, opts.Logger)
	if err != nil {
		return nil, err
	}

	parent, err := tree.Find(opts.Parent)
	if err != nil {
		return nil, err
	}

	folderKey, err := primitives.NewKey(opts.Rand)
	if err != nil {
		return nil, err
	}

	req, err := share.NewCreateFolderRequest(parent, opts.Name, folderKey, opts.Credentials.MasterKey)
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("Prepared folder %q below %s", opts.Name, parent.ID())

	entry := audit.LogWithSession("create", opts.Credentials.SessionID)
	entry.Node = parent.ID()
	audit.Log(entry)

	return &CreateNodeResult{
		ParentID: parent.ID(),
		Request:  req,
		Shared:   req.Share != nil,
	}, nil
}
