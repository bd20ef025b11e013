package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/ui"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var (
	listMatch string
	listJSON  bool
)

func init() {
	nodesListCmd.Flags().StringVar(&listMatch, "match", "", "only show nodes whose path matches this glob (supports **)")
	nodesListCmd.Flags().BoolVar(&listJSON, "json", false, "output in JSON format")
}

func resetListState() {
	listMatch = ""
	listJSON = false
}

var nodesListCmd = &cobra.Command{
	Use:   "list <listing.json|->",
	Short: "Decrypt a node listing and print the tree",
	Long: `Resolves every node key in the listing and prints the decrypted tree.

Nodes whose attributes cannot be decrypted are still listed, with a name
that explains the failure.

Examples:
  # Print the whole tree
  nodekeys nodes list listing.json

  # Only PDFs, as JSON
  nodekeys nodes list listing.json --match '**/*.pdf' --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting nodes list command")
		ctx := cmd.Context()

		data, err := readListing(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read listing: %w", err)
		}

		creds, err := loadCredentials(ctx)
		if err != nil {
			return credentialsError(cmd.ErrOrStderr(), err)
		}

		spinner, cleanup := startSpinner(cmd.ErrOrStderr(), "Resolving node keys...", verbose, debug)
		result, err := workflows.List(ctx, workflows.ListOptions{
			ListingData: data,
			Credentials: creds,
			Match:       listMatch,
			Logger:      Logger,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to resolve the listing\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			cleanup()
			return err
		}
		cleanup()

		if listJSON {
			return printJSON(cmd.OutOrStdout(), result.Entries)
		}

		printTree(cmd.OutOrStdout(), result)
		return nil
	},
}

func printTree(w io.Writer, result *workflows.ListResult) {
	for _, entry := range result.Entries {
		indent := strings.Repeat("  ", entry.Depth)
		name := entry.Node.Name
		if listMatch != "" {
			name = entry.Path
			indent = ""
		}

		switch {
		case entry.Corrupted:
			name = ui.Warning.Sprint(name)
		case entry.Node.Type == nodes.File:
			name += " " + ui.Muted.Sprint(ui.FormatSize(entry.Node.Size))
		default:
			name = ui.Folder.Sprint(name)
		}

		fmt.Fprintf(w, "%s%s %s\n", indent, name, ui.NodeID.Sprint(entry.Node.ID))
	}

	summary := fmt.Sprintf("%d of %d nodes", len(result.Entries), result.Total)
	if result.Corrupted > 0 {
		summary += ui.Warning.Sprintf(", %d with undecryptable names", result.Corrupted)
	}
	fmt.Fprintln(w, ui.Info.Sprint("→")+" "+summary)
}

// credentialsError explains how to provide keys when none were found.
func credentialsError(w io.Writer, err error) error {
	if errors.Is(err, kerrors.ErrSessionNotFound) {
		fmt.Fprintln(w, ui.Error.Sprint("✗")+" No session found")
		fmt.Fprintln(w, ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("nodekeys config init")+" or pass "+ui.Flag.Sprint("--master-key"))
	}
	if errors.Is(err, kerrors.ErrWrongPassphrase) {
		fmt.Fprintln(w, ui.Error.Sprint("✗")+" The passphrase does not open the session")
	}
	return Logger.ErrorfAndReturn("Failed to load credentials: %w", err)
}
