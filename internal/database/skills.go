package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/skillhound/skillhound/internal/model"
)

// PutSkill upserts a skill's polarity. A new skill takes the next
// position in insertion order; an existing skill keeps its position and
// its last-searched timestamp, only the wanted flag flips in place.
func (d *DB) PutSkill(ctx context.Context, name string, wanted bool) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO skills (name, wanted) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET wanted = excluded.wanted`,
		name, boolToInt(wanted),
	)
	if err != nil {
		return fmt.Errorf("failed to put skill %s: %w", name, err)
	}
	return nil
}

// MarkSkillSearched records a completed crawl for the skill: the skill
// becomes wanted (crawling implies the user wants it) and last_searched
// is stamped. Creates the skill if a concurrent removal deleted it
// mid-crawl.
func (d *DB) MarkSkillSearched(ctx context.Context, name string, at time.Time) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO skills (name, wanted, last_searched) VALUES (?, 1, ?)
		 ON CONFLICT(name) DO UPDATE SET wanted = 1, last_searched = excluded.last_searched`,
		name, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to mark skill %s searched: %w", name, err)
	}
	return nil
}

// GetSkill retrieves a skill by name (case-insensitive).
// Returns (nil, nil) when the skill does not exist.
func (d *DB) GetSkill(ctx context.Context, name string) (*model.Skill, error) {
	var (
		s            model.Skill
		wanted       int
		lastSearched sql.NullString
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT name, wanted, last_searched FROM skills WHERE name = ?`, name,
	).Scan(&s.Name, &wanted, &lastSearched)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get skill %s: %w", name, err)
	}

	s.Wanted = wanted != 0
	if lastSearched.Valid && lastSearched.String != "" {
		t := parseTimestamp(lastSearched.String)
		s.LastSearched = &t
	}
	return &s, nil
}

// ScanSkills returns the full skill set in insertion order.
// Every component reads this fresh on each operation; nothing caches the
// skill set across task invocations.
func (d *DB) ScanSkills(ctx context.Context) (model.SkillSet, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name, wanted, last_searched FROM skills ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan skills: %w", err)
	}
	defer rows.Close()

	var skills model.SkillSet
	for rows.Next() {
		var (
			s            model.Skill
			wanted       int
			lastSearched sql.NullString
		)
		if err := rows.Scan(&s.Name, &wanted, &lastSearched); err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		s.Wanted = wanted != 0
		if lastSearched.Valid && lastSearched.String != "" {
			t := parseTimestamp(lastSearched.String)
			s.LastSearched = &t
		}
		skills = append(skills, s)
	}

	return skills, rows.Err()
}

// DeleteSkill removes a skill from the set. The skill's analysis column
// is removed separately (DeleteAnalysisColumn) and best-effort.
func (d *DB) DeleteSkill(ctx context.Context, name string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM skills WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete skill %s: %w", name, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
