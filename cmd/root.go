package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvasdoc/internal/config"
	"github.com/ziadkadry99/canvasdoc/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "canvasdoc",
	Short: "Static sites for Markdown notes and JSON Canvas boards",
	Long: `canvasdoc turns a folder of Markdown notes and JSON Canvas (.canvas)
files into a static website. Canvases render as positioned cards joined by
curved edges, with pan, zoom and fullscreen handled by a small WebAssembly
controller.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := logging.New(os.Stderr, verbose)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
