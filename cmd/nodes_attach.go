package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/nodekeys/internal/primitives"
	"github.com/PolarWolf314/nodekeys/internal/ui"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var (
	attachFileKey      string
	attachUploadHandle string
)

func init() {
	nodesAttachCmd.Flags().StringVar(&attachFileKey, "file-key", "", "32-byte file key the upload was encrypted with, in base64")
	nodesAttachCmd.Flags().StringVar(&attachUploadHandle, "upload-handle", "", "completion handle returned by the upload")
	_ = nodesAttachCmd.MarkFlagRequired("file-key")
	_ = nodesAttachCmd.MarkFlagRequired("upload-handle")
}

func resetAttachState() {
	attachFileKey = ""
	attachUploadHandle = ""
}

var nodesAttachCmd = &cobra.Command{
	Use:   "attach <listing.json|-> <parent id or path> <name>",
	Short: "Build the request that adds an uploaded file",
	Long: `Prints the create-node request that puts an uploaded file into a folder.

The upload itself happens elsewhere; pass the file key it used and the
completion handle it returned. Under a shared folder the request also
carries the file key under the share key.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting nodes attach command")
		ctx := cmd.Context()

		fileKey, err := primitives.DecodeBase64(attachFileKey)
		if err != nil {
			return Logger.ErrorfAndReturn("Invalid file key: %w", err)
		}
		if len(fileKey) != primitives.FileKeySize {
			return Logger.ErrorfAndReturn("Invalid file key: must be %d bytes, got %d", primitives.FileKeySize, len(fileKey))
		}

		data, err := readListing(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read listing: %w", err)
		}

		creds, err := loadCredentials(ctx)
		if err != nil {
			return credentialsError(cmd.ErrOrStderr(), err)
		}

		result, err := workflows.AttachFile(ctx, workflows.AttachFileOptions{
			ListingData:  data,
			Credentials:  creds,
			Parent:       args[1],
			Name:         args[2],
			FileKey:      fileKey,
			UploadHandle: attachUploadHandle,
			Logger:       Logger,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to build the file request: %w", err)
		}

		if result.Shared {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprint("→")+" Parent "+ui.NodeID.Sprint(result.ParentID)+" is shared; members will see the file")
		}

		return printJSON(cmd.OutOrStdout(), result.Request)
	},
}
