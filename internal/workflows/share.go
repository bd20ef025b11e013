package workflows

import (
	"context"
	"fmt"
	"io"

	"github.com/PolarWolf314/nodekeys/internal/audit"
	logger "github.com/PolarWolf314/nodekeys/internal/logging"
	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/primitives"
	"github.com/PolarWolf314/nodekeys/internal/share"
)

// ShareOptions configures the share workflow.
type ShareOptions struct {
	// ListingData is the raw list-nodes response.
	ListingData []byte

	Credentials *Credentials

	// Target is the id or path of the folder or file to share.
	Target string

	// Rand is the source for new share keys. Nil uses crypto/rand.
	Rand io.Reader

	Logger logger.Logger
}

// ShareResult contains the outcome of a share operation.
type ShareResult struct {
	Target  nodes.PublicNode
	Grant   *share.Grant
	Request *share.Request

	// NewKey is set when a share key was minted rather than reused.
	NewKey bool
}

// Share builds the request that shares a node and everything below it.
//
// Returns ErrNodeNotFound if the target is not in the listing and
// ErrInvalidShareTarget if it cannot be shared.
func Share(ctx context.Context, opts ShareOptions) (*ShareResult, error) {
	tree, err := resolveListing(ctx, opts.ListingData, opts.Credentials, opts.Logger)
	if err != nil {
		return nil, err
	}

	target, err := tree.Find(opts.Target)
	if err != nil {
		return nil, err
	}
	keys, _ := target.Keys()

	builder, err := share.NewBuilder(opts.Credentials.MasterKey, share.WithRand(opts.Rand), share.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	grant, err := builder.Build(target, tree)
	if err != nil {
		return nil, fmt.Errorf("sharing %s: %w", target.ID(), err)
	}

	result := &ShareResult{
		Target:  target.Public(),
		Grant:   grant,
		Request: grant.Request(),
		NewKey:  len(keys.SharedKey) != primitives.KeySize,
	}

	entry := audit.LogWithSession("share", opts.Credentials.SessionID)
	entry.Node = target.ID()
	entry.Items = len(grant.Items)
	entry.NewKey = result.NewKey
	audit.Log(entry)

	return result, nil
}
