package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvasdoc/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize canvasdoc configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure canvasdoc for your notes and writes the config file (.canvasdoc.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
