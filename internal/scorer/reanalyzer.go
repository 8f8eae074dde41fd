package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skillhound/skillhound/internal/database"
)

// Reanalyzer recomputes a single skill's analysis column across every
// stored posting. It runs when a skill is added or its polarity
// flipped, and is what lets the user refine rankings without another
// crawl.
type Reanalyzer struct {
	db          *database.DB
	concurrency int
	logger      *slog.Logger
}

// NewReanalyzer creates a Reanalyzer that scores up to concurrency
// postings at a time.
func NewReanalyzer(db *database.DB, concurrency int, logger *slog.Logger) *Reanalyzer {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reanalyzer{db: db, concurrency: concurrency, logger: logger}
}

// Reanalyze recomputes the column for skill over all resident postings.
// Only that column is written; every other skill's cells stay exactly
// as they were. The operation is idempotent and safe to retry after a
// partial failure since each cell write is an independent upsert.
//
// Shell postings are skipped: they have no text yet, and their pending
// scoring task will fill their cells when the detail page arrives.
func (r *Reanalyzer) Reanalyze(ctx context.Context, skill string) error {
	start := time.Now()

	postings, err := r.db.ScanPostings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load postings for reanalysis: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	scored := 0
	for _, p := range postings {
		if p.IsShell() {
			continue
		}
		scored++
		g.Go(func() error {
			return r.db.PutHit(ctx, p.ID, skill, CountHits(p.Text(), skill))
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to reanalyze skill %s: %w", skill, err)
	}

	r.logger.Debug("reanalyzed skill",
		"skill", skill, "postings", scored, "elapsed", time.Since(start))
	return nil
}
