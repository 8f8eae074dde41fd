package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [skill]...",
		Short: "Register skills and crawl the board for them once",
		Long: `Register one or more skills you have, re-score the postings already
stored, crawl the job board for each skill, and wait until every new
posting has been fetched and scored.

This is the one-shot counterpart to serve: it runs the same pipeline
synchronously and exits when the score queue drains. Run "skillhound
rank" afterwards to see the results.`,
		Example: `  skillhound crawl --board https://jobs.example.com go
  skillhound crawl -b https://jobs.example.com "machine learning" sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCrawlCmd,
	}

	addBoardFlags(cmd)

	return cmd
}

// runCrawlCmd registers each skill, crawls for it, and drains the
// score queue before returning.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
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

	for _, skill := range args {
		if err := app.db.PutSkill(ctx, skill, true); err != nil {
			return err
		}
		if err := app.reanalyzer.Reanalyze(ctx, skill); err != nil {
			return err
		}
		if err := app.orch.Crawl(ctx, skill); err != nil {
			return err
		}
	}

	if err := drainQueue(ctx, app.scores, cfg.Workers, app.handleScoreTask); err != nil {
		return err
	}

	scored, err := app.db.CountPostings(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "crawl complete: %d postings stored\n", scored)
	return nil
}
