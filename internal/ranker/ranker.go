package ranker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/skillhound/skillhound/internal/config"
	"github.com/skillhound/skillhound/internal/database"
	"github.com/skillhound/skillhound/internal/model"
)

// Skill ranking examines the top skillRankWindow postings, split into
// bands of bandSize weighted by bandWeights: a mention in a top-10
// posting is worth three times one in a posting ranked 21-30.
const (
	skillRankWindow = 30
	bandSize        = 10
)

var bandWeights = [3]int{3, 2, 1}

// RankJobs scores every analysis row against skills and returns the
// rows ordered by descending score. Equal scores keep their discovery
// order: rows must arrive in insertion order, and the sort is stable.
func RankJobs(rows []*model.AnalysisRow, skills model.SkillSet) []model.RankedPosting {
	ranked := make([]model.RankedPosting, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, model.RankedPosting{
			PostingID: row.PostingID,
			Score:     row.Score(skills),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopJobs returns the first n entries of a ranking, or all of them when
// fewer exist.
func TopJobs(ranked []model.RankedPosting, n int) []model.RankedPosting {
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// RankSkills computes banded discriminative scores for the skills of
// one polarity. Every skill of that polarity appears in the result,
// zero-scored ones included; analysis columns for skills no longer in
// the set are ignored. The result is ordered by descending score, ties
// in skill insertion order.
func RankSkills(rows []*model.AnalysisRow, skills model.SkillSet, wanted bool) []model.SkillScore {
	ranked := RankJobs(rows, skills)
	if len(ranked) > skillRankWindow {
		ranked = ranked[:skillRankWindow]
	}

	byID := make(map[string]*model.AnalysisRow, len(rows))
	for _, row := range rows {
		byID[row.PostingID] = row
	}

	scores := make([]model.SkillScore, 0)
	for _, s := range skills {
		if s.Wanted != wanted {
			continue
		}
		total := 0
		for pos, rp := range ranked {
			row := byID[rp.PostingID]
			weight := bandWeights[pos/bandSize]
			for column, hits := range row.Hits {
				if strings.EqualFold(column, s.Name) {
					total += weight * hits
				}
			}
		}
		scores = append(scores, model.SkillScore{Name: s.Name, Score: total})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// Ranker builds rankings from the stores.
type Ranker struct {
	db *database.DB

	// topJobs is the display window for job rankings.
	topJobs int
}

// NewRanker creates a Ranker with the default top-jobs window.
func NewRanker(db *database.DB) *Ranker {
	return &Ranker{db: db, topJobs: config.DefaultTopJobs}
}

// load reads the matrix and skill set fresh. Rankings never cache:
// a reanalysis or crawl between two calls must show up in the second.
func (r *Ranker) load(ctx context.Context) ([]*model.AnalysisRow, model.SkillSet, error) {
	skills, err := r.db.ScanSkills(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load skills for ranking: %w", err)
	}
	rows, err := r.db.ScanAnalysisRows(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load analysis for ranking: %w", err)
	}
	return rows, skills, nil
}

// Top returns the top-ranked postings with their detail records. An
// empty store yields an empty ranking, not an error.
func (r *Ranker) Top(ctx context.Context) ([]model.RankedPosting, map[string]*model.Posting, error) {
	rows, skills, err := r.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	top := TopJobs(RankJobs(rows, skills), r.topJobs)

	postings := make(map[string]*model.Posting, len(top))
	for _, rp := range top {
		p, err := r.db.GetPosting(ctx, rp.PostingID)
		if err != nil {
			return nil, nil, err
		}
		if p != nil {
			postings[rp.PostingID] = p
		}
	}
	return top, postings, nil
}

// Skills returns the banded skill ranking for one polarity.
func (r *Ranker) Skills(ctx context.Context, wanted bool) ([]model.SkillScore, error) {
	rows, skills, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return RankSkills(rows, skills, wanted), nil
}

// BuildReport assembles the full ranking report for the report writers.
func (r *Ranker) BuildReport(ctx context.Context) (*model.RankReport, error) {
	rows, skills, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	jobs := RankJobs(rows, skills)
	top := TopJobs(jobs, r.topJobs)

	postings := make(map[string]*model.Posting, len(top))
	for _, rp := range top {
		p, err := r.db.GetPosting(ctx, rp.PostingID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			postings[rp.PostingID] = p
		}
	}

	return &model.RankReport{
		GeneratedAt:    time.Now().UTC(),
		Skills:         skills,
		Jobs:           jobs,
		Postings:       postings,
		WantedSkills:   RankSkills(rows, skills, true),
		UnwantedSkills: RankSkills(rows, skills, false),
	}, nil
}
