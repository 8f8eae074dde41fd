package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillhound/skillhound/internal/config"
	"github.com/skillhound/skillhound/internal/crawler"
	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/fetcher"
	"github.com/skillhound/skillhound/internal/log"
	"github.com/skillhound/skillhound/internal/queue"
	"github.com/skillhound/skillhound/internal/ranker"
	"github.com/skillhound/skillhound/internal/scorer"
)

// app bundles the wired components shared by the serve and crawl
// commands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *database.DB
	crawls     *queue.Queue
	scores     *queue.Queue
	orch       *crawler.Orchestrator
	scorer     *scorer.Scorer
	reanalyzer *scorer.Reanalyzer
	ranker     *ranker.Ranker
}

// newApp opens the database and wires the pipeline against it.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database opened", "dir", cfg.DBDir)

	qopts := func(name string) queue.Options {
		return queue.Options{
			Name:         name,
			Visibility:   cfg.QueueVisibility,
			PollInterval: cfg.QueuePoll,
			MaxAttempts:  cfg.MaxAttempts,
			Logger:       logger,
		}
	}
	crawls := queue.New(db.SQL(), qopts(queue.CrawlQueue))
	scores := queue.New(db.SQL(), qopts(queue.ScoreQueue))
	if err := crawls.EnsureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	client, err := fetcher.NewClient(
		&http.Client{Timeout: cfg.Timeout},
		cfg.BoardURL,
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithPageSize(cfg.PageSize),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		crawls: crawls,
		scores: scores,
		orch: crawler.NewOrchestrator(db, client, scores,
			crawler.WithMaxPages(cfg.MaxPages),
			crawler.WithPageSize(cfg.PageSize),
			crawler.WithDelay(cfg.CrawlDelay),
			crawler.WithLogger(logger),
		),
		scorer:     scorer.NewScorer(db, client, logger),
		reanalyzer: scorer.NewReanalyzer(db, cfg.Workers, logger),
		ranker:     ranker.NewRanker(db),
	}, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.db.Close()
}

// handleCrawlTask consumes one crawl-queue task.
func (a *app) handleCrawlTask(ctx context.Context, task *queue.Task) error {
	t, err := queue.DecodeCrawlTask(task.Payload)
	if err != nil {
		// Redelivery cannot fix a malformed payload.
		a.logger.Warn("discarding malformed crawl task", "id", task.ID, "error", err)
		return nil
	}
	return a.orch.Crawl(ctx, t.Skill)
}

// handleScoreTask consumes one score-queue task. Transient fetch
// failures propagate so the queue redelivers; permanent ones are logged
// and acked, leaving the posting as a shell.
func (a *app) handleScoreTask(ctx context.Context, task *queue.Task) error {
	t, err := queue.DecodeScoreTask(task.Payload)
	if err != nil {
		a.logger.Warn("discarding malformed score task", "id", task.ID, "error", err)
		return nil
	}

	err = a.scorer.ScoreOne(ctx, t.PostingID, t.Link, t.Skills)
	if err != nil && !fetcher.IsTransient(err) {
		a.logger.Warn("posting permanently unfetchable, skipping",
			"posting_id", t.PostingID, "error", err)
		return nil
	}
	return err
}

// addBoardFlags registers the flags shared by serve and crawl.
func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("board", "b", "",
		"Base URL of the job board to crawl (required unless set in the config file)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .skillhound in current or home directory)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum search pages per crawl")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout for board fetches")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between search pages")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Concurrent scoring workers")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for board requests")
}

// buildConfig creates a Config from cobra flags and the optional
// config file. Flags win over the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default one is
	// optional.
	explicit := cfg.ConfigFilePath != ""
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if explicit {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	// Explicitly set flags win over the file; unset flags keep the
	// file's value (or the default).
	flags := cmd.Flags()
	if board, err := flags.GetString("board"); err != nil {
		return nil, err
	} else if board != "" {
		cfg.BoardURL = board
	}
	if dbDir, err := flags.GetString("db-dir"); err != nil {
		return nil, err
	} else if dbDir != "" {
		cfg.DBDir = dbDir
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.CrawlDelay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its
// parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the structured logger shared by all commands.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewCrawlLogger(os.Stderr, verbose)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// drainQueue runs a consumer until the queue is empty, then stops it.
// Used by the one-shot crawl command; serve keeps consumers running
// instead.
func drainQueue(ctx context.Context, q *queue.Queue, workers int, handler queue.Handler) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.Run(runCtx, workers, handler)
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			cancel()
			<-done
			return ctx.Err()
		case <-ticker.C:
			n, err := q.Len(ctx)
			if err != nil {
				cancel()
				<-done
				return err
			}
			// Len counts in-flight tasks too; zero means fully acked.
			if n == 0 {
				cancel()
				<-done
				return nil
			}
		}
	}
}
