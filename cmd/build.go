package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvasdoc/internal/config"
	"github.com/ziadkadry99/canvasdoc/internal/progress"
	"github.com/ziadkadry99/canvasdoc/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static site",
	Long: `Renders every Markdown note and canvas in the content directory into
the output directory. Pages whose source and dependencies are unchanged since
the last build are left in place unless --force is given.`,
	RunE: runBuild,
}

func init() {
	addDirFlags(buildCmd)
	buildCmd.Flags().Bool("force", false, "rewrite every page, ignoring build state")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	gen := site.NewSiteGenerator(cfg)
	gen.Force = force
	gen.Reporter = progress.NewReporter()

	if _, err := build(cmd, cfg, gen); err != nil {
		return err
	}
	return nil
}

// build runs one generation and prints its summary.
func build(cmd *cobra.Command, cfg *config.Config, gen *site.SiteGenerator) (site.Result, error) {
	start := time.Now()
	res, err := gen.Generate(cmd.Context())
	if err != nil {
		return res, fmt.Errorf("building site: %w", err)
	}

	printSuccess("Built %s pages (%s canvases) in %s", number(res.Pages), number(res.Canvases),
		time.Since(start).Round(time.Millisecond))
	printKeyValue("Output", cfg.OutputDir)
	if res.Unchanged > 0 {
		printDetail("%d unchanged", res.Unchanged)
	}
	if res.Skipped > 0 {
		printWarning("%d canvases could not be loaded", res.Skipped)
	}
	return res, nil
}
