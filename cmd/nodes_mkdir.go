package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/nodekeys/internal/ui"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var nodesMkdirCmd = &cobra.Command{
	Use:   "mkdir <listing.json|-> <parent id or path> <name>",
	Short: "Build the request that creates a folder",
	Long: `Generates a folder key and prints the create-node request for a new folder.

When the parent is inside a share, the request also carries the new key
encrypted under the share key so other members can open the folder.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting nodes mkdir command")
		ctx := cmd.Context()

		data, err := readListing(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read listing: %w", err)
		}

		creds, err := loadCredentials(ctx)
		if err != nil {
			return credentialsError(cmd.ErrOrStderr(), err)
		}

		result, err := workflows.CreateFolder(ctx, workflows.CreateFolderOptions{
			ListingData: data,
			Credentials: creds,
			Parent:      args[1],
			Name:        args[2],
			Logger:      Logger,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to build the folder request: %w", err)
		}

		if result.Shared {
			Logger.WarnfAlways("Parent %s is shared; the new folder will be visible to its members", ui.NodeID.Sprint(result.ParentID))
		}

		return printJSON(cmd.OutOrStdout(), result.Request)
	},
}
