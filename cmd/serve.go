package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvasdoc/internal/db"
	"github.com/ziadkadry99/canvasdoc/internal/logging"
	"github.com/ziadkadry99/canvasdoc/internal/progress"
	"github.com/ziadkadry99/canvasdoc/internal/site"
	"github.com/ziadkadry99/canvasdoc/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally",
	Long: `Builds the site, then serves the output directory over HTTP. With
--watch, content changes trigger a rebuild and open pages reload in place.`,
	RunE: runServe,
}

func init() {
	addDirFlags(serveCmd)
	serveCmd.Flags().Int("port", 0, "port for the local server (defaults to serve.port)")
	serveCmd.Flags().Bool("open", false, "open the browser once the server is listening")
	serveCmd.Flags().Bool("watch", true, "rebuild and reload when content changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}
	open, _ := cmd.Flags().GetBool("open")
	watching, _ := cmd.Flags().GetBool("watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)
	logger := logging.FromContext(ctx)

	state, err := db.Open(site.StatePath(cfg.OutputDir))
	if err != nil {
		return fmt.Errorf("opening build state: %w", err)
	}
	defer state.Close()

	gen := site.NewSiteGenerator(cfg)
	gen.State = state
	gen.Reporter = progress.NewReporter()
	if _, err := build(cmd, cfg, gen); err != nil {
		return err
	}
	// Rebuilds log instead of drawing a progress bar over the server output.
	gen.Reporter = progress.Nop{}

	srv := site.NewServer(site.ServeConfig{
		Dir:   cfg.OutputDir,
		Port:  cfg.Serve.Port,
		Open:  open,
		State: state,
	}, logger)

	if watching {
		w, err := watch.New(cfg.ContentDir, watch.WithIgnore(cfg.OutputDir), watch.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("watching %s: %w", cfg.ContentDir, err)
		}
		defer w.Close()

		go func() {
			err := w.Run(ctx, func(ctx context.Context, paths []string) {
				logger.Info("content changed, rebuilding", "files", len(paths))
				res, err := gen.Generate(ctx)
				if err != nil {
					logger.Error("rebuild failed", "err", err)
					return
				}
				n := srv.Hub().Broadcast()
				logger.Info("rebuilt", "pages", res.Pages, "unchanged", res.Unchanged, "clients", n)
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("watcher stopped", "err", err)
			}
		}()
	}

	fmt.Printf("Serving %s at http://localhost:%d (Ctrl+C to stop)\n", cfg.OutputDir, cfg.Serve.Port)
	return site.Serve(ctx, srv)
}
