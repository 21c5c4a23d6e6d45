package store

import (
	"context"
	"fmt"
	"time"
)

// UpsertChatSummary inserts or updates one conversation list row. A known
// conversation keeps its position; a new one is appended at the end, since
// only a full replace knows the server's ordering.
func (db *DB) UpsertChatSummary(ctx context.Context, s ChatSummary) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO chats (id, other_id, other_name, last_message, last_message_at, unread_count, position, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, COUNT(*), ? FROM chats WHERE true
		ON CONFLICT(id) DO UPDATE SET
			other_id = excluded.other_id,
			other_name = excluded.other_name,
			last_message = excluded.last_message,
			last_message_at = excluded.last_message_at,
			unread_count = excluded.unread_count,
			updated_at = excluded.updated_at
	`, s.ID, s.OtherID, s.OtherName, s.LastMessage, s.LastMessageAt.UnixMilli(), s.UnreadCount, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert chat %s: %w", s.ID, err)
	}
	return nil
}

// ReplaceChatSummaries swaps the whole cached conversation list inside one
// transaction. The server list is authoritative, so rows absent from the new
// list are removed rather than merged.
func (db *DB) ReplaceChatSummaries(ctx context.Context, summaries []ChatSummary) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chats`); err != nil {
		return fmt.Errorf("clear chats: %w", err)
	}

	now := time.Now().UnixMilli()
	for i, s := range summaries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chats (id, other_id, other_name, last_message, last_message_at, unread_count, position, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.OtherID, s.OtherName, s.LastMessage, s.LastMessageAt.UnixMilli(), s.UnreadCount, i, now)
		if err != nil {
			return fmt.Errorf("insert chat %s: %w", s.ID, err)
		}
	}
	return tx.Commit()
}

// ListChatSummaries returns cached conversations in the order the server
// last sent them.
func (db *DB) ListChatSummaries(ctx context.Context) ([]ChatSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, other_id, other_name, last_message, last_message_at, unread_count, updated_at
		FROM chats
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var out []ChatSummary
	for rows.Next() {
		var s ChatSummary
		var lastAt, updatedAt int64
		if err := rows.Scan(&s.ID, &s.OtherID, &s.OtherName, &s.LastMessage, &lastAt, &s.UnreadCount, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		s.LastMessageAt = time.UnixMilli(lastAt)
		s.UpdatedAt = time.UnixMilli(updatedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}
