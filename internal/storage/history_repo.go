package storage

import (
	"context"
	"database/sql"
	"fmt"

	"outpost/internal/dialog"
)

// HistoryRepo persists sealed conversation transcripts.
type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Insert stores a sealed conversation and its lines. Unsealed
// conversations are a programming error and are rejected.
func (r *HistoryRepo) Insert(ctx context.Context, c *dialog.Conversation) (int64, error) {
	if !c.Sealed() {
		return 0, fmt.Errorf("conversation %s is not sealed", c.TreeID)
	}

	var id int64
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO conversations (tree_id, character_name, started_at, completed_at, abandoned)
			VALUES (?, ?, ?, ?, ?)
		`, c.TreeID, c.CharacterName, c.StartedAt, *c.CompletedAt, boolToInt(c.Abandoned))
		if err != nil {
			return fmt.Errorf("insert conversation: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("conversation insert id: %w", err)
		}

		for _, line := range c.Lines {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO conversation_lines (conversation_id, speaker, speaker_name, message, spoken_at)
				VALUES (?, ?, ?, ?, ?)
			`, id, string(line.Speaker), line.SpeakerName, line.Message, line.At); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListAll returns every stored conversation with its lines, oldest first.
func (r *HistoryRepo) ListAll(ctx context.Context) ([]*dialog.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tree_id, character_name, started_at, completed_at, abandoned
		FROM conversations
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []*dialog.Conversation
	var ids []int64
	for rows.Next() {
		var (
			id        int64
			c         dialog.Conversation
			abandoned int
		)
		var completedAt sql.NullTime
		if err := rows.Scan(&id, &c.TreeID, &c.CharacterName, &c.StartedAt, &completedAt, &abandoned); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			c.CompletedAt = &t
		}
		c.Abandoned = abandoned != 0
		out = append(out, &c)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation rows: %w", err)
	}

	for i, convID := range ids {
		lines, err := r.lines(ctx, convID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

func (r *HistoryRepo) lines(ctx context.Context, conversationID int64) ([]dialog.Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT speaker, speaker_name, message, spoken_at
		FROM conversation_lines
		WHERE conversation_id = ?
		ORDER BY id ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	var out []dialog.Line
	for rows.Next() {
		var (
			line    dialog.Line
			speaker string
		)
		if err := rows.Scan(&speaker, &line.SpeakerName, &line.Message, &line.At); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		line.Speaker = dialog.Speaker(speaker)
		out = append(out, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("line rows: %w", err)
	}
	return out, nil
}
