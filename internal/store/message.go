package store

import (
	"context"
	"fmt"
	"time"
)

// ReplaceMessages swaps the cached message list for one conversation inside
// a transaction. Poll results are complete snapshots, never deltas, so the
// previous rows are discarded wholesale.
func (db *DB) ReplaceMessages(ctx context.Context, chatID string, msgs []CachedMessage) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("clear messages for %s: %w", chatID, err)
	}

	for _, m := range msgs {
		read := 0
		if m.Read {
			read = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (chat_id, msg_id, sender_id, content, read, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, chatID, m.MsgID, m.SenderID, m.Content, read, m.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert message %s: %w", m.MsgID, err)
		}
	}
	return tx.Commit()
}

// ListMessages returns cached messages for a conversation in ascending
// creation order, matching the order the server delivers them in.
func (db *DB) ListMessages(ctx context.Context, chatID string) ([]CachedMessage, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT chat_id, msg_id, sender_id, content, read, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages for %s: %w", chatID, err)
	}
	defer rows.Close()

	var out []CachedMessage
	for rows.Next() {
		var m CachedMessage
		var read int
		var createdAt int64
		if err := rows.Scan(&m.ChatID, &m.MsgID, &m.SenderID, &m.Content, &read, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Read = read != 0
		m.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}
