package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/nodekeys/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "nodekeys",
	Short: "nodekeys - resolve and share keys of an encrypted cloud drive",
	Long: `nodekeys decrypts the key hierarchy of an end-to-end encrypted cloud drive.

Every file and folder has its own key, wrapped with your master key or with
the key of a share that contains it. nodekeys resolves those keys from a
saved node listing, prints the decrypted tree and builds share and
create-folder requests.

Usage:
  nodekeys <command> [flags]

Available Commands:
  nodes      Resolve node listings and build requests
  config     Manage the session holding your keys
  log        View the local audit log

Run 'nodekeys help <command>' for more details on a specific command.
`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.NodesCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
	rootCmd.AddCommand(cmd.LogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
