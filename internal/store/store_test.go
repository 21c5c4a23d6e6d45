package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUpsertChatSummary(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	s := ChatSummary{
		ID:            "c1",
		OtherID:       "u2",
		OtherName:     "Ana",
		LastMessage:   "hi",
		LastMessageAt: time.UnixMilli(1000),
		UnreadCount:   2,
	}
	if err := db.UpsertChatSummary(ctx, s); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	s.LastMessage = "bye"
	s.UnreadCount = 0
	if err := db.UpsertChatSummary(ctx, s); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := db.ListChatSummaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(got))
	}
	if got[0].LastMessage != "bye" || got[0].UnreadCount != 0 {
		t.Errorf("upsert did not update row: %+v", got[0])
	}
}

func TestReplaceChatSummariesDropsStaleRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := []ChatSummary{
		{ID: "c1", OtherName: "Ana", LastMessageAt: time.UnixMilli(2000)},
		{ID: "c2", OtherName: "Bia", LastMessageAt: time.UnixMilli(1000)},
	}
	if err := db.ReplaceChatSummaries(ctx, first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	second := []ChatSummary{
		{ID: "c3", OtherName: "Caio", LastMessageAt: time.UnixMilli(3000)},
	}
	if err := db.ReplaceChatSummaries(ctx, second); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	got, err := db.ListChatSummaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c3" {
		t.Fatalf("expected only c3 after replace, got %+v", got)
	}
}

func TestListChatSummariesKeepsServerOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Deliberately not sorted by timestamp. The list must come back exactly
	// as the server sent it.
	chats := []ChatSummary{
		{ID: "old", LastMessageAt: time.UnixMilli(1000)},
		{ID: "new", LastMessageAt: time.UnixMilli(3000)},
		{ID: "mid", LastMessageAt: time.UnixMilli(2000)},
	}
	if err := db.ReplaceChatSummaries(ctx, chats); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := db.ListChatSummaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"old", "new", "mid"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestUpsertChatSummaryKeepsPosition(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.ReplaceChatSummaries(ctx, []ChatSummary{
		{ID: "c1", LastMessage: "a"},
		{ID: "c2", LastMessage: "b"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// Updating c1 must not move it; an unknown chat lands at the end.
	if err := db.UpsertChatSummary(ctx, ChatSummary{ID: "c1", LastMessage: "a2", LastMessageAt: time.UnixMilli(9000)}); err != nil {
		t.Fatalf("upsert c1: %v", err)
	}
	if err := db.UpsertChatSummary(ctx, ChatSummary{ID: "c3", LastMessage: "c"}); err != nil {
		t.Fatalf("upsert c3: %v", err)
	}

	got, err := db.ListChatSummaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"c1", "c2", "c3"}
	if len(got) != 3 {
		t.Fatalf("expected 3 chats, got %d", len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if got[0].LastMessage != "a2" {
		t.Errorf("c1 not updated: %+v", got[0])
	}
}

func TestReplaceMessages(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := []CachedMessage{
		{ChatID: "c1", MsgID: "m1", SenderID: "u1", Content: "hello", CreatedAt: time.UnixMilli(1000)},
		{ChatID: "c1", MsgID: "m2", SenderID: "u2", Content: "hey", Read: true, CreatedAt: time.UnixMilli(2000)},
	}
	if err := db.ReplaceMessages(ctx, "c1", first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// A shorter snapshot replaces the longer one entirely.
	second := []CachedMessage{
		{ChatID: "c1", MsgID: "m3", SenderID: "u1", Content: "only", CreatedAt: time.UnixMilli(3000)},
	}
	if err := db.ReplaceMessages(ctx, "c1", second); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	got, err := db.ListMessages(ctx, "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].MsgID != "m3" {
		t.Fatalf("expected only m3 after replace, got %+v", got)
	}
}

func TestReplaceMessagesScopedToChat(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.ReplaceMessages(ctx, "c1", []CachedMessage{
		{ChatID: "c1", MsgID: "a", CreatedAt: time.UnixMilli(1)},
	}); err != nil {
		t.Fatalf("replace c1: %v", err)
	}
	if err := db.ReplaceMessages(ctx, "c2", []CachedMessage{
		{ChatID: "c2", MsgID: "b", CreatedAt: time.UnixMilli(1)},
	}); err != nil {
		t.Fatalf("replace c2: %v", err)
	}

	got, err := db.ListMessages(ctx, "c1")
	if err != nil {
		t.Fatalf("list c1: %v", err)
	}
	if len(got) != 1 || got[0].MsgID != "a" {
		t.Fatalf("replace for c2 touched c1: %+v", got)
	}
}

func TestListMessagesAscending(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	msgs := []CachedMessage{
		{ChatID: "c1", MsgID: "late", CreatedAt: time.UnixMilli(3000)},
		{ChatID: "c1", MsgID: "early", CreatedAt: time.UnixMilli(1000)},
		{ChatID: "c1", MsgID: "mid", CreatedAt: time.UnixMilli(2000)},
	}
	if err := db.ReplaceMessages(ctx, "c1", msgs); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := db.ListMessages(ctx, "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"early", "mid", "late"}
	for i, id := range want {
		if got[i].MsgID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].MsgID)
		}
	}
}
