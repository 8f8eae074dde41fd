package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/skillhound/skillhound/internal/config"
	"github.com/skillhound/skillhound/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background crawl/score workers",
		Long: `Run the skillhound daemon: the HTTP API for managing skills and
reading rankings, a crawl worker that walks the job board, and a pool
of score workers that fetch and score individual postings.

Crawls are triggered by registering a skill you have (or by the jobs
search endpoint); scoring happens asynchronously through a persistent
task queue, so a restart resumes where the previous run stopped.`,
		Example: `  skillhound serve --board https://jobs.example.com
  skillhound serve -b https://jobs.example.com --port 9090 -w 8`,
		RunE: runServeCmd,
	}

	addBoardFlags(cmd)
	cmd.Flags().Int("port", config.DefaultServerPort, "HTTP API listen port")

	return cmd
}

// runServeCmd wires the pipeline and runs the API plus both queue
// consumers until interrupted.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		if cfg.ServerPort, err = cmd.Flags().GetInt("port"); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := server.NewServer(app.db, app.reanalyzer, app.ranker, app.crawls, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Crawls run serially: one search walk at a time keeps the
		// politeness delay meaningful.
		app.crawls.Run(gctx, 1, app.handleCrawlTask)
		return nil
	})
	g.Go(func() error {
		app.scores.Run(gctx, cfg.Workers, app.handleScoreTask)
		return nil
	})
	g.Go(func() error {
		return srv.Start(gctx, cfg.ServerPort)
	})

	logger.Info("skillhound running",
		"board", cfg.BoardURL, "port", cfg.ServerPort, "workers", cfg.Workers)
	return g.Wait()
}
