package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"outpost/internal/quest"
)

const trackedKey = "tracked_objective"

// ProgressRepo persists the mutable slice of objective state: status,
// numeric progress, completion time, subtask flags, and the tracked id.
// Content fields are never stored here.
type ProgressRepo struct {
	db *sql.DB
}

func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// SaveAll replaces the stored progress with the given snapshot. The data
// is a handful of rows, so replace-all keeps the write trivially correct.
func (r *ProgressRepo) SaveAll(ctx context.Context, progress map[string]quest.SavedProgress, trackedID string) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM objective_progress`); err != nil {
			return fmt.Errorf("clear progress: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM subtask_progress`); err != nil {
			return fmt.Errorf("clear subtasks: %w", err)
		}

		for id, sp := range progress {
			var completedAt *time.Time
			if sp.CompletedAt != nil {
				t := *sp.CompletedAt
				completedAt = &t
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO objective_progress (objective_id, status, current_progress, completed_at)
				VALUES (?, ?, ?, ?)
			`, id, string(sp.Status), sp.CurrentProgress, completedAt); err != nil {
				return fmt.Errorf("insert progress %s: %w", id, err)
			}
			for subID, done := range sp.Subtasks {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO subtask_progress (objective_id, subtask_id, completed)
					VALUES (?, ?, ?)
				`, id, subID, boolToInt(done)); err != nil {
					return fmt.Errorf("insert subtask %s/%s: %w", id, subID, err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, trackedKey, trackedID); err != nil {
			return fmt.Errorf("save tracked id: %w", err)
		}
		return nil
	})
}

// LoadAll returns the stored progress overlay and tracked id. Rows that
// fail to scan or carry an invalid status are skipped: a corrupt save
// degrades to content defaults instead of refusing to load.
func (r *ProgressRepo) LoadAll(ctx context.Context) (map[string]quest.SavedProgress, string, error) {
	out := map[string]quest.SavedProgress{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT objective_id, status, current_progress, completed_at
		FROM objective_progress
	`)
	if err != nil {
		return nil, "", fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id          string
			status      string
			progress    int
			completedAt sql.NullTime
		)
		if err := rows.Scan(&id, &status, &progress, &completedAt); err != nil {
			continue
		}
		st := quest.Status(status)
		if !st.IsValid() {
			continue
		}
		sp := quest.SavedProgress{Status: st, CurrentProgress: progress}
		if completedAt.Valid {
			t := completedAt.Time
			sp.CompletedAt = &t
		}
		out[id] = sp
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("progress rows: %w", err)
	}

	subRows, err := r.db.QueryContext(ctx, `
		SELECT objective_id, subtask_id, completed FROM subtask_progress
	`)
	if err != nil {
		return nil, "", fmt.Errorf("load subtasks: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		var (
			id        string
			subID     string
			completed int
		)
		if err := subRows.Scan(&id, &subID, &completed); err != nil {
			continue
		}
		sp, ok := out[id]
		if !ok {
			continue
		}
		if sp.Subtasks == nil {
			sp.Subtasks = map[string]bool{}
		}
		sp.Subtasks[subID] = completed != 0
		out[id] = sp
	}
	if err := subRows.Err(); err != nil {
		return nil, "", fmt.Errorf("subtask rows: %w", err)
	}

	tracked, err := r.setting(ctx, trackedKey)
	if err != nil {
		return nil, "", err
	}
	return out, tracked, nil
}

func (r *ProgressRepo) setting(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("load setting %s: %w", key, err)
	}
	return v, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
