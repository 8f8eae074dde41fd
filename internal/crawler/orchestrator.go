package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillhound/skillhound/internal/config"
	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/fetcher"
	"github.com/skillhound/skillhound/internal/queue"
)

// Orchestrator runs board crawls.
type Orchestrator struct {
	db     *database.DB
	client *fetcher.Client
	scores *queue.Queue

	// maxPages caps how many result pages a single crawl visits.
	maxPages int

	// pageSize is the board's results-per-page, used by the early-stop
	// heuristic.
	pageSize int

	// delay is the politeness pause between result pages.
	delay time.Duration

	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxPages caps the number of result pages per crawl.
func WithMaxPages(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxPages = n
		}
	}
}

// WithPageSize sets the board's results-per-page.
func WithPageSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithDelay sets the pause between result pages.
func WithDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.delay = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an Orchestrator that publishes scoring tasks
// to scores.
func NewOrchestrator(db *database.DB, client *fetcher.Client, scores *queue.Queue, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		db:       db,
		client:   client,
		scores:   scores,
		maxPages: config.DefaultMaxPages,
		pageSize: config.DefaultPageSize,
		delay:    config.DefaultCrawlDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Crawl searches the board for query and schedules scoring for every
// newly discovered posting. It walks pages 1..maxPages, stopping early
// once the board's match estimate says the remaining pages are empty:
// an estimate that is positive but below page*pageSize means the
// current page already held the tail of the results.
//
// The scoring tasks carry a snapshot of the skill set taken here, so a
// posting is scored against the skills as they stood when its crawl
// began. A fetch failure aborts only this crawl; everything scheduled
// so far stays scheduled.
//
// On completion the triggering skill is upserted as wanted with a fresh
// last-searched stamp. The board's estimate is advisory and never
// treated as an error, no matter how it disagrees with the cards
// actually seen.
func (o *Orchestrator) Crawl(ctx context.Context, query string) error {
	skills, err := o.db.ScanSkills(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot skills: %w", err)
	}

	constraint, err := o.db.GetConstraint(ctx)
	if err != nil {
		return fmt.Errorf("failed to load search constraint: %w", err)
	}
	params := constraint.Values()

	discovered := 0
	for page := 1; page <= o.maxPages; page++ {
		result, err := o.client.SearchPage(ctx, query, params, page)
		if err != nil {
			return fmt.Errorf("failed to crawl page %d for %q: %w", page, query, err)
		}

		for i, id := range result.IDs {
			link := result.Links[i]

			fresh, err := o.db.AddPostingID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to register posting id %s: %w", id, err)
			}
			if !fresh {
				continue
			}

			// The shell must exist before the task does: a consumer
			// may claim the task immediately.
			if err := o.db.PutPostingShell(ctx, id, link); err != nil {
				return fmt.Errorf("failed to store posting shell %s: %w", id, err)
			}

			payload, err := queue.EncodeScoreTask(queue.ScoreTask{
				PostingID: id,
				Link:      link,
				Skills:    skills,
			})
			if err != nil {
				return err
			}
			if _, err := o.scores.Publish(ctx, payload); err != nil {
				return fmt.Errorf("failed to schedule scoring for %s: %w", id, err)
			}
			discovered++
		}

		if result.FoundEstimate > 0 && result.FoundEstimate < page*o.pageSize {
			o.logger.Debug("stopping crawl early",
				"query", query, "page", page, "estimate", result.FoundEstimate)
			break
		}

		if o.delay > 0 && page < o.maxPages {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.delay):
			}
		}
	}

	if err := o.db.MarkSkillSearched(ctx, query, time.Now().UTC()); err != nil {
		return err
	}

	o.logger.Info("crawl finished", "query", query, "new_postings", discovered)
	return nil
}
