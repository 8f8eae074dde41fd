package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Skill is a named criterion used both as a search term and as a scoring
// dimension. The Wanted flag sets the sign of the skill's contribution to
// a posting's score: +1 for wanted skills, -1 for unwanted ones.
type Skill struct {
	// Name is the unique key. Skill names are stored as entered by the
	// user; matching against posting text is case-insensitive.
	Name string `json:"name"`

	// Wanted is true for skills the user has (or wants), false for
	// skills used as negative signals.
	Wanted bool `json:"wanted"`

	// LastSearched records when a crawl for this skill last completed.
	// Nil if the skill has never been used as a search query.
	LastSearched *time.Time `json:"last_searched,omitempty"`
}

// Sign returns the scoring sign for the skill: +1 if wanted, -1 otherwise.
func (s Skill) Sign() int {
	if s.Wanted {
		return 1
	}
	return -1
}

// SkillSet is an ordered collection of skills. Order is the user's
// insertion order and is preserved through storage so that scoring task
// snapshots are deterministic.
type SkillSet []Skill

// Find returns the skill with the given name and true, or a zero Skill
// and false. Name comparison is case-insensitive because the same skill
// entered with different casing must not create a second column.
func (ss SkillSet) Find(name string) (Skill, bool) {
	for _, s := range ss {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Skill{}, false
}

// Names returns the skill names in set order.
func (ss SkillSet) Names() []string {
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.Name
	}
	return names
}

// Wanted returns the subset of skills matching the given polarity,
// preserving order.
func (ss SkillSet) Wanted(wanted bool) SkillSet {
	var out SkillSet
	for _, s := range ss {
		if s.Wanted == wanted {
			out = append(out, s)
		}
	}
	return out
}

// MarshalSnapshot serializes the skill set for embedding in a task
// payload. Scoring tasks carry the snapshot taken at enqueue time so a
// worker does not depend on the live skill table mid-crawl.
func (ss SkillSet) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(ss)
}

// UnmarshalSnapshot decodes a skill set snapshot produced by
// MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (SkillSet, error) {
	var ss SkillSet
	if err := json.Unmarshal(data, &ss); err != nil {
		return nil, err
	}
	return ss, nil
}
