package model

import "time"

// RankedPosting is one entry in a job ranking: a posting identifier and
// the score it achieved against the current skill set.
type RankedPosting struct {
	PostingID string `json:"posting_id"`
	Score     int    `json:"score"`
}

// SkillScore is one entry in a skill ranking: a skill name and its
// banded discriminative score (how concentrated the skill's mentions are
// among top-ranked postings).
type SkillScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RankReport bundles a full ranking for presentation: the ranked
// postings (with detail records where available), the skill rankings for
// both polarities, and the snapshot metadata the ranking was computed
// from. Report writers consume this structure.
type RankReport struct {
	// GeneratedAt is when the ranking was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// Skills is the skill set the ranking was scored against.
	Skills SkillSet `json:"skills"`

	// Jobs is the full ranking, descending by score, ties in posting
	// insertion order.
	Jobs []RankedPosting `json:"jobs"`

	// Postings carries the detail records for ranked postings, keyed by
	// posting identifier. Shell postings that were never scored do not
	// appear.
	Postings map[string]*Posting `json:"postings,omitempty"`

	// WantedSkills ranks wanted skills by discriminative value.
	WantedSkills []SkillScore `json:"wanted_skills"`

	// UnwantedSkills ranks unwanted skills by discriminative value.
	UnwantedSkills []SkillScore `json:"unwanted_skills"`
}
