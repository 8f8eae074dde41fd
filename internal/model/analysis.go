package model

// AnalysisRow is the sparse per-posting vector of skill hit-counts.
// A skill absent from Hits contributes an implicit zero. Columns grow
// monotonically as new skills are introduced; reanalysis for a skill
// overwrites only that skill's column.
//
// Design decision: We keep the row sparse (a map keyed by skill name)
// rather than a fixed-width record so that adding a skill never requires
// a schema migration: new columns simply appear in rows as the scorer
// and reanalyzer touch them.
type AnalysisRow struct {
	// PostingID is the posting this row belongs to. A row exists iff
	// the posting has been scored at least once.
	PostingID string `json:"posting_id"`

	// Hits maps skill name to the number of occurrences of that skill
	// in the posting's text fields.
	Hits map[string]int `json:"hits"`
}

// NewAnalysisRow returns an empty row for the given posting.
func NewAnalysisRow(postingID string) *AnalysisRow {
	return &AnalysisRow{
		PostingID: postingID,
		Hits:      make(map[string]int),
	}
}

// Hit returns the hit-count for a skill, zero if the column is absent.
func (r *AnalysisRow) Hit(skill string) int {
	return r.Hits[skill]
}

// Score computes the posting's weighted score against the given skills:
// the sum over skills of sign(wanted) * hit-count. Skills not present in
// the row contribute zero, as do row columns for skills that have since
// been removed from the set.
func (r *AnalysisRow) Score(skills SkillSet) int {
	score := 0
	for _, s := range skills {
		score += s.Sign() * r.Hits[s.Name]
	}
	return score
}
