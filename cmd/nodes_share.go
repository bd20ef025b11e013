package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/ui"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var nodesShareCmd = &cobra.Command{
	Use:   "share <listing.json|-> <node id or path>",
	Short: "Build the request that shares a folder",
	Long: `Builds the share request for a node and every file and folder below it.

Each key is re-encrypted under the folder's share key. An existing share key
is reused; otherwise a new one is generated. The request JSON is printed to
stdout and a summary to stderr.

Examples:
  nodekeys nodes share listing.json a1B2c3D4
  nodekeys nodes share listing.json "Cloud Drive/Projects"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting nodes share command")
		ctx := cmd.Context()

		data, err := readListing(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read listing: %w", err)
		}

		creds, err := loadCredentials(ctx)
		if err != nil {
			return credentialsError(cmd.ErrOrStderr(), err)
		}

		spinner, cleanup := startSpinner(cmd.ErrOrStderr(), "Re-encrypting keys...", verbose, debug)
		result, err := workflows.Share(ctx, workflows.ShareOptions{
			ListingData: data,
			Credentials: creds,
			Target:      args[1],
			Logger:      Logger,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + shareFailure(args[1], err)
			cleanup()
			return err
		}

		keyNote := "reused the existing share key"
		if result.NewKey {
			keyNote = "generated a new share key"
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Shared %s with %d keys, %s",
			ui.Path.Sprint(result.Target.Name), len(result.Grant.Items), keyNote)
		cleanup()

		return printJSON(cmd.OutOrStdout(), result.Request)
	},
}

func shareFailure(target string, err error) string {
	switch {
	case errors.Is(err, kerrors.ErrNodeNotFound):
		return "No node matches " + ui.Path.Sprint(target)
	case errors.Is(err, kerrors.ErrInvalidShareTarget):
		return ui.Path.Sprint(target) + " cannot be shared\n" +
			ui.Info.Sprint("→") + " Only files and folders can be shared, not the drive root, inbox or rubbish bin"
	default:
		return "Failed to build the share request\n" + ui.Error.Sprint("Error: ") + err.Error()
	}
}
