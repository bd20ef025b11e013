package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/nodekeys/internal/audit"
	logger "github.com/PolarWolf314/nodekeys/internal/logging"
	"github.com/PolarWolf314/nodekeys/internal/share"
)

// AttachFileOptions configures the attach workflow, which registers an
// uploaded file in the tree.
type AttachFileOptions struct {
	ListingData []byte
	Credentials *Credentials

	// Parent is the id or path of the folder to attach to.
	Parent string
	Name   string

	// FileKey is the 32-byte key the upload was encrypted with.
	FileKey []byte

	// UploadHandle is the completion handle the upload returned.
	UploadHandle string

	Logger logger.Logger
}

// AttachFile builds the request that completes an upload below Parent.
func AttachFile(ctx context.Context, opts AttachFileOptions) (*CreateNodeResult, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("file name must not be empty")
	}
	if opts.UploadHandle == "" {
		return nil, fmt.Errorf("upload handle must not be empty")
	}

	tree, err := resolveListing(ctx, opts.ListingData, opts.Credentials, opts.Logger)
	if err != nil {
		return nil, err
	}

	parent, err := tree.Find(opts.Parent)
	if err != nil {
		return nil, err
	}

	req, err := share.NewCreateFileRequest(parent, opts.Name, opts.FileKey, opts.Credentials.MasterKey, opts.UploadHandle)
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("Prepared file %q below %s", opts.Name, parent.ID())

	entry := audit.LogWithSession("attach", opts.Credentials.SessionID)
	entry.Node = parent.ID()
	audit.Log(entry)

	return &CreateNodeResult{
		ParentID: parent.ID(),
		Request:  req,
		Shared:   req.Share != nil,
	}, nil
}
