package database

import (
	"context"
	"fmt"
	"time"

	"github.com/skillhound/skillhound/internal/model"
)

// PutHit upserts a single cell of the analysis matrix: the hit-count of
// one skill in one posting. Sibling columns of the same row are never
// touched, which is what makes concurrent scoring tasks for disjoint
// skill snapshots commute.
func (d *DB) PutHit(ctx context.Context, postingID, skill string, hits int) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO analysis (posting_id, skill, hits, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(posting_id, skill) DO UPDATE SET
			hits = excluded.hits,
			updated_at = excluded.updated_at`,
		postingID, skill, hits, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to put hit %s/%s: %w", postingID, skill, err)
	}
	return nil
}

// PutHits upserts all columns of one row in a single transaction.
// Only the columns present in hits are written; the row's other columns
// survive untouched.
func (d *DB) PutHits(ctx context.Context, postingID string, hits map[string]int) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin analysis batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for skill, n := range hits {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO analysis (posting_id, skill, hits, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(posting_id, skill) DO UPDATE SET
				hits = excluded.hits,
				updated_at = excluded.updated_at`,
			postingID, skill, n, now,
		); err != nil {
			return fmt.Errorf("failed to put hit %s/%s: %w", postingID, skill, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit analysis batch: %w", err)
	}
	return nil
}

// GetAnalysisRow assembles the sparse row for one posting.
// Returns (nil, nil) when the posting has never been scored.
func (d *DB) GetAnalysisRow(ctx context.Context, postingID string) (*model.AnalysisRow, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT skill, hits FROM analysis WHERE posting_id = ?`, postingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis row %s: %w", postingID, err)
	}
	defer rows.Close()

	var row *model.AnalysisRow
	for rows.Next() {
		var (
			skill string
			hits  int
		)
		if err := rows.Scan(&skill, &hits); err != nil {
			return nil, fmt.Errorf("failed to scan analysis cell: %w", err)
		}
		if row == nil {
			row = model.NewAnalysisRow(postingID)
		}
		row.Hits[skill] = hits
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return row, nil
}

// ScanAnalysisRows assembles every scored posting's row, ordered by
// posting insertion. The order matters: the ranker breaks score ties by
// it, and it must be the same on every read for ranking determinism.
func (d *DB) ScanAnalysisRows(ctx context.Context) ([]*model.AnalysisRow, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT p.posting_id, a.skill, a.hits
		FROM postings p
		JOIN analysis a ON a.posting_id = p.posting_id
		ORDER BY p.seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis rows: %w", err)
	}
	defer rows.Close()

	var (
		result  []*model.AnalysisRow
		current *model.AnalysisRow
	)
	for rows.Next() {
		var (
			postingID string
			skill     string
			hits      int
		)
		if err := rows.Scan(&postingID, &skill, &hits); err != nil {
			return nil, fmt.Errorf("failed to scan analysis cell: %w", err)
		}
		if current == nil || current.PostingID != postingID {
			current = model.NewAnalysisRow(postingID)
			result = append(result, current)
		}
		current.Hits[skill] = hits
	}

	return result, rows.Err()
}

// DeleteAnalysisColumn removes a skill's column from every row. Called
// on skill removal; a partial failure leaves orphan columns, which are
// harmless (zero-weight contributions) and disappear on retry.
func (d *DB) DeleteAnalysisColumn(ctx context.Context, skill string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM analysis WHERE skill = ?`, skill)
	if err != nil {
		return fmt.Errorf("failed to delete analysis column %s: %w", skill, err)
	}
	return nil
}

// CountAnalysisRows returns the number of scored postings.
func (d *DB) CountAnalysisRows(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT posting_id) FROM analysis`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count analysis rows: %w", err)
	}
	return n, nil
}
