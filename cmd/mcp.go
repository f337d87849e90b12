package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/canvasdoc/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools that list and describe the canvases in the content directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "canvasdoc MCP server started on stdio (content=%s)\n", cfg.ContentDir)

		srv := mcpserver.NewServer(cfg.ContentDir, cfg.Include, cfg.Exclude)
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().String("content", "", "override the content directory")
	rootCmd.AddCommand(mcpCmd)
}
