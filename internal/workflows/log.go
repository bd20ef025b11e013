package workflows

import (
	"context"
	"strings"

	"github.com/PolarWolf314/nodekeys/internal/audit"
)

// LogOptions configures the audit log workflow.
type LogOptions struct {
	// Limit keeps only the last Limit entries. Zero keeps all of them.
	Limit int

	// Operations is a comma-separated list of operations to keep.
	Operations string

	// Reverse puts the most recent entry first.
	Reverse bool
}

// LogResult contains the filtered audit entries.
type LogResult struct {
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the size of the whole log.
	TotalEntriesBeforeFilter int
}

// Log reads the audit log and applies the filters in opts.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, err
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}

	ops := make(map[string]bool)
	for _, op := range strings.Split(opts.Operations, ",") {
		if op = strings.TrimSpace(op); op != "" {
			ops[op] = true
		}
	}

	filtered := make([]audit.Entry, 0, len(entries))
	for _, e := range entries {
		if len(ops) > 0 && !ops[e.Operation] {
			continue
		}
		filtered = append(filtered, e)
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[len(filtered)-opts.Limit:]
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	result.Entries = filtered
	return result, nil
}
