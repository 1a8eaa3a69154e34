package commands

import (
	"github.com/p4tools/p/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:    "mcp",
	Short:  "Run the MCP server over stdio",
	Long:   "Starts an MCP server over stdio exposing opened files, tracked changelists and annotations as read-only tools.",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return mcpserver.Run(cmd.Context(), mcpserver.Options{
			Client:      a.client,
			TrackedPath: a.cfg.TrackedPath(),
			Workers:     a.cfg.DescribeWorkers,
			Version:     Version,
		})
	},
}
