package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/fetcher"
	"github.com/skillhound/skillhound/internal/model"
)

// Scorer scores individual postings against a skill snapshot.
type Scorer struct {
	db     *database.DB
	client *fetcher.Client
	logger *slog.Logger
}

// NewScorer creates a Scorer. A nil logger falls back to slog.Default.
func NewScorer(db *database.DB, client *fetcher.Client, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{db: db, client: client, logger: logger}
}

// ScoreOne fetches a posting's detail page if it is not already
// resident, persists it, and writes one analysis cell per skill in the
// snapshot. Re-running with the same inputs rewrites the same cells
// with the same values, so redelivered tasks are harmless.
//
// A transient fetch failure is returned to the caller so the task can
// be redelivered; the posting shell and its id-index entry stay in
// place either way.
func (s *Scorer) ScoreOne(ctx context.Context, postingID, link string, skills model.SkillSet) error {
	p, err := s.db.GetPosting(ctx, postingID)
	if err != nil {
		return err
	}

	if p == nil || p.IsShell() {
		fields, err := s.client.FetchDetail(ctx, link)
		if err != nil {
			return fmt.Errorf("failed to fetch posting %s: %w", postingID, err)
		}
		p = &model.Posting{
			ID:        postingID,
			Link:      link,
			Fields:    fields,
			ScrapedAt: time.Now().UTC(),
		}
		if err := s.db.PutPosting(ctx, p); err != nil {
			return err
		}
	}

	text := p.Text()
	hits := make(map[string]int, len(skills))
	for _, sk := range skills {
		hits[sk.Name] = CountHits(text, sk.Name)
	}

	if err := s.db.PutHits(ctx, postingID, hits); err != nil {
		return err
	}

	s.logger.Debug("scored posting", "posting_id", postingID, "skills", len(skills))
	return nil
}
