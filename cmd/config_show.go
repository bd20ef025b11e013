package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/ui"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current session",
	Long: `Displays the session in use. Keys are never printed; the master key is
identified by a short fingerprint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")

		summary, err := workflows.ShowSession(cmd.Context(), configSession, readPassphrase)
		if errors.Is(err, kerrors.ErrSessionNotFound) {
			if configShowJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{})
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warning.Sprint("⚠")+" No session found")
			fmt.Fprintln(cmd.OutOrStdout(), ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("nodekeys config init")+" to create one")
			return nil
		}
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load session: %w", err)
		}

		if configShowJSON {
			return printJSON(cmd.OutOrStdout(), summary)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Session: "+ui.Path.Sprint(summary.Path))
		fmt.Fprintln(out, "  id:          "+summary.ID)
		fmt.Fprintln(out, "  created:     "+summary.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintln(out, "  master key:  "+ui.Info.Sprint(summary.Fingerprint))
		fmt.Fprintln(out, "  private key: "+yesNo(summary.HasPrivateKey))
		fmt.Fprintln(out, "  sealed:      "+yesNo(summary.Sealed))
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
