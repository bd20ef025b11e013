// Package workflows provides high-level orchestration for nodekeys commands.
//
// Workflows coordinate the session, the resolver, the share builder and the
// audit trail to implement each command's logic, independent of CLI
// concerns like flag parsing, spinners and output formatting.
//
// The cmd/ package is a thin layer that parses flags, calls a workflow and
// formats the result.
//
// # Available Workflows
//
//   - LoadCredentials: reads the session file and decodes its keys
//   - List: resolves a listing into an ordered, optionally filtered tree
//   - Share: builds the share request for a node and its descendants
//   - CreateFolder: builds the request that adds a folder
//   - InitSession, ShowSession: manage the session file
//
// # Error Handling
//
// Workflows return sentinel errors from internal/errors wrapped with
// context. Use errors.Is() to check for specific conditions:
//
//	result, err := workflows.Share(ctx, opts)
//	if errors.Is(err, kerrors.ErrInvalidShareTarget) {
//	    // explain which nodes can be shared
//	}
//
// # Context Usage
//
// Every workflow accepts a context.Context as its first parameter and
// checks it before resolving. A resolution pass itself runs to completion.
package workflows
