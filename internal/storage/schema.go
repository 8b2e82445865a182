package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS objective_progress (
			objective_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			current_progress INTEGER DEFAULT 0,
			completed_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS subtask_progress (
			objective_id TEXT NOT NULL,
			subtask_id TEXT NOT NULL,
			completed INTEGER DEFAULT 0,
			PRIMARY KEY (objective_id, subtask_id)
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS resources (
			id TEXT PRIMARY KEY,
			amount INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS tiles (
			id TEXT PRIMARY KEY,
			explored_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS features (
			id TEXT PRIMARY KEY,
			interacted_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tutorials (
			id TEXT PRIMARY KEY,
			completed_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tree_id TEXT NOT NULL,
			character_name TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			completed_at DATETIME NOT NULL,
			abandoned INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS conversation_lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL,
			speaker TEXT NOT NULL,
			speaker_name TEXT NOT NULL,
			message TEXT NOT NULL,
			spoken_at DATETIME NOT NULL,
			FOREIGN KEY(conversation_id) REFERENCES conversations(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_subtask_progress_objective ON subtask_progress(objective_id);`,
		`CREATE INDEX IF NOT EXISTS idx_conversation_lines_conversation ON conversation_lines(conversation_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
