package cmd

import (
	"github.com/huangsam/typegate/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Typegate MCP server",
	Long:  `Launch an MCP server that allows AI agents to parse diagnostics and diff reports via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean for the protocol; setup logs go to stderr only.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, snapshotManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
