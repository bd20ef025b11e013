package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/nodekeys/internal/audit"
	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	logger "github.com/PolarWolf314/nodekeys/internal/logging"
	"github.com/PolarWolf314/nodekeys/internal/nodes"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	// ListingData is the raw list-nodes response.
	ListingData []byte

	Credentials *Credentials

	// Match restricts the result to nodes whose path matches this glob.
	Match string

	Logger logger.Logger
}

// ListEntry is one node of a list result.
type ListEntry struct {
	Node  nodes.PublicNode `json:"node"`
	Path  string           `json:"path"`
	Depth int              `json:"depth"`

	// Corrupted is set when the node's attributes could not be decoded.
	Corrupted bool `json:"corrupted,omitempty"`
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	Entries []ListEntry

	// Total is the number of nodes in the listing before filtering.
	Total int

	// Corrupted counts entries whose names could not be decrypted.
	Corrupted int
}

// List resolves a listing and returns its nodes in tree order, parents
// before children.
//
// Returns ErrInvalidListing if the listing cannot be parsed and any key
// error from resolution. Attribute failures are reported per entry.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	tree, err := resolveListing(ctx, opts.ListingData, opts.Credentials, opts.Logger)
	if err != nil {
		return nil, err
	}

	var selected map[string]bool
	if opts.Match != "" {
		matched, err := tree.Match(opts.Match)
		if err != nil {
			return nil, err
		}
		selected = make(map[string]bool, len(matched))
		for _, n := range matched {
			selected[n.ID()] = true
		}
	}

	result := &ListResult{Total: tree.Len()}
	visited := make(map[string]bool, tree.Len())

	var walk func(n *nodes.Node, depth int) error
	walk = func(n *nodes.Node, depth int) error {
		if visited[n.ID()] {
			return nil
		}
		visited[n.ID()] = true

		if selected == nil || selected[n.ID()] {
			path, err := tree.Path(n)
			if err != nil {
				return err
			}
			entry := ListEntry{
				Node:      n.Public(),
				Path:      path,
				Depth:     depth,
				Corrupted: errors.Is(n.Attributes().Err(), kerrors.ErrCorruptedAttributes),
			}
			if entry.Corrupted {
				result.Corrupted++
			}
			result.Entries = append(result.Entries, entry)
		}

		for _, child := range tree.Children(n.ID()) {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range tree.Roots() {
		if err := walk(root, 0); err != nil {
			return nil, err
		}
	}

	// Nodes on a parent cycle are unreachable from any root.
	for _, n := range tree.Nodes() {
		if !visited[n.ID()] {
			if _, err := tree.Path(n); err != nil {
				return nil, err
			}
		}
	}

	entry := audit.LogWithSession("list", opts.Credentials.SessionID)
	entry.NodeCount = result.Total
	audit.Log(entry)

	return result, nil
}

func resolveListing(ctx context.Context, data []byte, creds *Credentials, log logger.Logger) (*nodes.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, kerrors.ErrMasterKeyRequired
	}

	listing, err := nodes.ParseListing(data)
	if err != nil {
		return nil, err
	}
	log.Debugf("Parsed listing with %d nodes and %d share keys", len(listing.Nodes), len(listing.SharedKeys))

	resolver, err := nodes.NewResolver(creds.MasterKey, nodes.WithPrivateKey(creds.PrivateKey), nodes.WithLogger(log))
	if err != nil {
		return nil, err
	}

	tree, err := resolver.Resolve(listing)
	if err != nil {
		return nil, fmt.Errorf("resolving listing: %w", err)
	}
	return tree, nil
}
