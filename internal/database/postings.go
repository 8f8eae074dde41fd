package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skillhound/skillhound/internal/model"
)

// AddPostingID inserts an identifier into the dedup index.
// It reports whether the identifier was newly inserted: false means some
// crawl (this one or a concurrent one) already claimed it and the caller
// must not schedule work for it.
//
// This is the atomic test-and-set the crawl contract requires. A
// read-then-write here would let two concurrent crawls both observe
// "absent" and double-schedule the posting.
func (d *DB) AddPostingID(ctx context.Context, postingID string) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO posting_ids (posting_id, discovered_at) VALUES (?, ?)
		 ON CONFLICT(posting_id) DO NOTHING`,
		postingID, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add posting id %s: %w", postingID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// HasPostingID reports whether an identifier is present in the dedup index.
func (d *DB) HasPostingID(ctx context.Context, postingID string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posting_ids WHERE posting_id = ?`, postingID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check posting id: %w", err)
	}
	return n > 0, nil
}

// PutPostingShell inserts a shell posting (identifier and link only).
// If the posting already exists, nothing changes: postings are immutable
// once created and the shell never downgrades a scored record.
func (d *DB) PutPostingShell(ctx context.Context, postingID, link string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO postings (posting_id, link) VALUES (?, ?)
		 ON CONFLICT(posting_id) DO NOTHING`,
		postingID, link,
	)
	if err != nil {
		return fmt.Errorf("failed to put posting shell %s: %w", postingID, err)
	}
	return nil
}

// PutPosting upserts a full posting record. Re-scraping the same
// identifier overwrites with identical content, which is a harmless
// no-op rather than an error.
func (d *DB) PutPosting(ctx context.Context, p *model.Posting) error {
	fieldsJSON, err := json.Marshal(p.Fields)
	if err != nil {
		return fmt.Errorf("failed to serialize posting fields: %w", err)
	}

	scrapedAt := p.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO postings (posting_id, link, fields, scraped_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(posting_id) DO UPDATE SET
			link = excluded.link,
			fields = excluded.fields,
			scraped_at = excluded.scraped_at`,
		p.ID, p.Link, string(fieldsJSON), scrapedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to put posting %s: %w", p.ID, err)
	}
	return nil
}

// GetPosting retrieves a posting by identifier.
// Returns (nil, nil) when the posting does not exist: a missing posting
// is "no prior data", not an error.
func (d *DB) GetPosting(ctx context.Context, postingID string) (*model.Posting, error) {
	var (
		p          model.Posting
		fieldsJSON sql.NullString
		scrapedAt  sql.NullString
	)

	err := d.db.QueryRowContext(ctx,
		`SELECT posting_id, link, fields, scraped_at FROM postings WHERE posting_id = ?`,
		postingID,
	).Scan(&p.ID, &p.Link, &fieldsJSON, &scrapedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get posting %s: %w", postingID, err)
	}

	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &p.Fields); err != nil {
			return nil, fmt.Errorf("failed to parse posting fields: %w", err)
		}
	}
	if scrapedAt.Valid && scrapedAt.String != "" {
		p.ScrapedAt = parseTimestamp(scrapedAt.String)
	}

	return &p, nil
}

// ScanPostings returns all postings in insertion order.
// The reanalyzer walks this list to recompute a skill column; the ranker
// relies on the order for stable ties.
func (d *DB) ScanPostings(ctx context.Context) ([]*model.Posting, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT posting_id, link, fields, scraped_at FROM postings ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan postings: %w", err)
	}
	defer rows.Close()

	var postings []*model.Posting
	for rows.Next() {
		var (
			p          model.Posting
			fieldsJSON sql.NullString
			scrapedAt  sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Link, &fieldsJSON, &scrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		if fieldsJSON.Valid && fieldsJSON.String != "" {
			if err := json.Unmarshal([]byte(fieldsJSON.String), &p.Fields); err != nil {
				return nil, fmt.Errorf("failed to parse posting fields: %w", err)
			}
		}
		if scrapedAt.Valid && scrapedAt.String != "" {
			p.ScrapedAt = parseTimestamp(scrapedAt.String)
		}
		postings = append(postings, &p)
	}

	return postings, rows.Err()
}

// CountPostings returns the number of stored postings.
func (d *DB) CountPostings(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM postings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count postings: %w", err)
	}
	return n, nil
}
