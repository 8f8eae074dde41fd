package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skillhound/skillhound/internal/model"
)

// PutConstraint overwrites the singleton search constraint set.
// Constraints are replaced wholesale on every user search, never merged.
func (d *DB) PutConstraint(ctx context.Context, c model.Constraint) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO constraints (id, params) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET params = excluded.params`,
		c.Params,
	)
	if err != nil {
		return fmt.Errorf("failed to put constraint: %w", err)
	}
	return nil
}

// GetConstraint returns the current constraint set. A missing row is not
// an error: it yields the empty constraint, meaning an unconstrained
// search.
func (d *DB) GetConstraint(ctx context.Context) (model.Constraint, error) {
	var c model.Constraint
	err := d.db.QueryRowContext(ctx,
		`SELECT params FROM constraints WHERE id = 1`,
	).Scan(&c.Params)
	if err == sql.ErrNoRows {
		return model.Constraint{}, nil
	}
	if err != nil {
		return model.Constraint{}, fmt.Errorf("failed to get constraint: %w", err)
	}
	return c, nil
}
