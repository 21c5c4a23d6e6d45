// Package chat holds the client-side state of the open conversation: how a
// conversation is resolved or created, how its message list is refreshed by
// polling, and how outgoing messages are composed and appended.
package chat

import (
	"context"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/store"
)

// API is the slice of the backend client this package depends on.
// *api.ChatService satisfies it.
type API interface {
	Get(ctx context.Context, chatID string) (*api.Chat, error)
	GetOrCreate(ctx context.Context, participantIDs []string) (*api.Chat, error)
	Messages(ctx context.Context, chatID string) ([]api.Message, error)
	Send(ctx context.Context, chatID, senderID, content string) (*api.Message, error)
	MarkRead(ctx context.Context, chatID, userID string) error
}

// Cache persists message snapshots locally so the next launch can render
// without waiting for the network. *store.DB satisfies it.
type Cache interface {
	ReplaceMessages(ctx context.Context, chatID string, msgs []store.CachedMessage) error
	UpsertChatSummary(ctx context.Context, s store.ChatSummary) error
}

// Target names the conversation to open: either an existing conversation by
// id, or a peer to find-or-create a conversation with.
type Target struct {
	ChatID string
	PeerID string
}

func summaryFrom(chatID string, other api.User, msgs []api.Message) store.ChatSummary {
	s := store.ChatSummary{ID: chatID, OtherID: other.ID, OtherName: other.DisplayName()}
	if n := len(msgs); n > 0 {
		s.LastMessage = msgs[n-1].Content
		s.LastMessageAt = msgs[n-1].CreatedAt
	}
	return s
}

func cachedFrom(chatID string, msgs []api.Message) []store.CachedMessage {
	out := make([]store.CachedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, store.CachedMessage{
			ChatID:    chatID,
			MsgID:     m.ID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			Read:      m.Read,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
