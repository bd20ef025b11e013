package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/nodekeys/internal/audit"
	"github.com/PolarWolf314/nodekeys/internal/ui"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logJSON      bool
)

func init() {
	LogCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	LogCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	LogCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation (comma-separated: list, share, create, attach)")
	LogCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// ResetLogState resets the log command's global state for testing.
func ResetLogState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logJSON = false
}

// LogCmd shows the local audit log.
var LogCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local record of listings resolved and requests built.

Examples:
  nodekeys log -n 10
  nodekeys log --operation share --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
			Limit:      logLimit,
			Operations: logOperation,
			Reverse:    logReverse,
		})
		if err != nil {
			return fmt.Errorf("failed to read audit log: %w", err)
		}

		out := cmd.OutOrStdout()
		if logJSON {
			return printJSON(out, result.Entries)
		}

		if len(result.Entries) == 0 {
			if result.TotalEntriesBeforeFilter == 0 {
				fmt.Fprintln(out, "No audit log entries found.")
			} else {
				fmt.Fprintln(out, "No audit log entries found matching the filters.")
			}
			return nil
		}

		for _, e := range result.Entries {
			fmt.Fprintln(out, formatLogEntry(e))
		}
		return nil
	},
}

func formatLogEntry(e audit.Entry) string {
	line := fmt.Sprintf("%s  %-6s %s", ui.Muted.Sprint(e.Timestamp), e.Operation, e.User)
	switch e.Operation {
	case "share":
		key := "reused key"
		if e.NewKey {
			key = "new key"
		}
		line += fmt.Sprintf("  %s %d items, %s", ui.NodeID.Sprint(e.Node), e.Items, key)
	case "create", "attach":
		line += "  " + ui.NodeID.Sprint(e.Node)
	case "list":
		line += fmt.Sprintf("  %d nodes", e.NodeCount)
	}
	return line
}

