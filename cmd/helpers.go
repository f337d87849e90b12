package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvasdoc/internal/config"
)

// loadConfig loads the config, applies the command's directory overrides
// and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `canvasdoc init` to create a config file", err)
	}
	if f := cmd.Flags().Lookup("content"); f != nil && f.Changed {
		cfg.ContentDir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.OutputDir = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// addDirFlags registers the --content and --output overrides.
func addDirFlags(cmd *cobra.Command) {
	cmd.Flags().String("content", "", "override the content directory")
	cmd.Flags().String("output", "", "override the output directory")
}
