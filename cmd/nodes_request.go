package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/nodekeys/internal/nodes"
	"github.com/PolarWolf314/nodekeys/internal/ui"
)

var nodesRequestCmd = &cobra.Command{
	Use:   "request [folder link id]",
	Short: "Print the request that fetches a node listing",
	Long: `Prints the list-nodes request whose response the other nodes commands read.

With a folder link id the request fetches that shared folder instead of
your own tree; the query arguments the transport must add are printed to
stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shareID := ""
		if len(args) == 1 {
			shareID = args[0]
		}

		req := nodes.NewListRequest(shareID)
		Logger.Debugf("Built list request for share %q", shareID)

		query := req.QueryArguments()
		keys := make([]string, 0, len(query))
		for k := range query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprint("→")+" query "+ui.Code.Sprint(k+"="+query[k]))
		}

		return printJSON(cmd.OutOrStdout(), req)
	},
}
