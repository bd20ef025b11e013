package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logger "github.com/PolarWolf314/nodekeys/internal/logging"
	"github.com/PolarWolf314/nodekeys/internal/utils"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var (
	verbose       bool
	debug         bool
	sessionPath   string
	masterKeyFlag keyFlag
	Logger        logger.Logger

	NodesCmd = &cobra.Command{
		Use:   "nodes",
		Short: "Resolve node listings and build share requests",
		Long: `Decrypts a saved list-nodes response with your session keys.

The listing is the JSON body the server returns for the "f" command. Pass
"-" to read it from stdin. No request is sent anywhere: request, share,
mkdir and attach print the request JSON for you to submit.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing nodes command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	NodesCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	NodesCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	NodesCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file (default is the user config directory)")
	NodesCmd.PersistentFlags().Var(&masterKeyFlag, "master-key", "master key in base64, overrides the session")

	NodesCmd.AddCommand(nodesListCmd)
	NodesCmd.AddCommand(nodesShareCmd)
	NodesCmd.AddCommand(nodesMkdirCmd)
	NodesCmd.AddCommand(nodesAttachCmd)
	NodesCmd.AddCommand(nodesRequestCmd)
}

// loadCredentials reads the session keys for a nodes subcommand.
func loadCredentials(ctx context.Context) (*workflows.Credentials, error) {
	Logger.Debugf("Loading credentials from session %q", sessionPath)
	return workflows.LoadCredentials(ctx, workflows.CredentialOptions{
		SessionPath: sessionPath,
		MasterKey:   masterKeyFlag.Bytes(),
		Passphrase:  readPassphrase,
	})
}

// readListing reads the listing argument, a path or "-".
func readListing(arg string) ([]byte, error) {
	Logger.Debugf("Reading listing from %s", arg)
	if arg == "-" && utils.IsTerminal() {
		return nil, fmt.Errorf("no listing piped to stdin")
	}
	return utils.ReadInput(arg)
}

// GetNodesCmd returns the NodesCmd for testing.
func GetNodesCmd() *cobra.Command {
	return NodesCmd
}

// ResetNodesState resets all nodes command global variables for testing.
func ResetNodesState() {
	verbose = false
	debug = false
	sessionPath = ""
	masterKeyFlag.reset()
	resetListState()
	resetAttachState()
	resetNodesCobraFlagState()
}

func resetNodesCobraFlagState() {
	for _, c := range append([]*cobra.Command{NodesCmd}, NodesCmd.Commands()...) {
		c.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}
