package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// WorldRepo persists the base's world state: the resource ledger, explored
// map tiles, feature interactions, and completed tutorials. Discovery
// conditions are checked against this data.
type WorldRepo struct {
	db *sql.DB
}

func NewWorldRepo(db *sql.DB) *WorldRepo {
	return &WorldRepo{db: db}
}

// AddResource applies a delta to a resource and returns the new amount.
// Amounts never go below zero.
func (r *WorldRepo) AddResource(ctx context.Context, id string, delta int) (int, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO resources (id, amount) VALUES (?, MAX(0, ?))
		ON CONFLICT(id) DO UPDATE SET amount = MAX(0, amount + ?)
	`, id, delta, delta); err != nil {
		return 0, fmt.Errorf("add resource %s: %w", id, err)
	}
	return r.Resource(ctx, id)
}

func (r *WorldRepo) Resource(ctx context.Context, id string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT amount FROM resources WHERE id = ?`, id)
	var amount int
	if err := row.Scan(&amount); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("resource %s: %w", id, err)
	}
	return amount, nil
}

func (r *WorldRepo) Resources(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount FROM resources ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			id     string
			amount int
		)
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out[id] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resource rows: %w", err)
	}
	return out, nil
}

// ExploreTile marks a tile explored. Exploring an already-explored tile
// keeps the original timestamp.
func (r *WorldRepo) ExploreTile(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO tiles (id, explored_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, at); err != nil {
		return fmt.Errorf("explore tile %s: %w", id, err)
	}
	return nil
}

func (r *WorldRepo) TileExplored(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM tiles WHERE id = ?`, id)
}

func (r *WorldRepo) ExploredTileCount(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tiles`)
}

func (r *WorldRepo) InteractFeature(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO features (id, interacted_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, at); err != nil {
		return fmt.Errorf("interact feature %s: %w", id, err)
	}
	return nil
}

func (r *WorldRepo) FeatureInteracted(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM features WHERE id = ?`, id)
}

func (r *WorldRepo) CompleteTutorial(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO tutorials (id, completed_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, at); err != nil {
		return fmt.Errorf("complete tutorial %s: %w", id, err)
	}
	return nil
}

func (r *WorldRepo) TutorialCompleted(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM tutorials WHERE id = ?`, id)
}

func (r *WorldRepo) CompletedTutorialCount(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tutorials`)
}

func (r *WorldRepo) InteractedFeatureCount(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM features`)
}

func (r *WorldRepo) exists(ctx context.Context, query, id string) (bool, error) {
	row := r.db.QueryRowContext(ctx, query, id)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("exists %s: %w", id, err)
	}
	return true, nil
}

func (r *WorldRepo) count(ctx context.Context, query string) (int, error) {
	row := r.db.QueryRowContext(ctx, query)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
