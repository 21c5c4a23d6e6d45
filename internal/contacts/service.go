package contacts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/store"
)

// UserAPI is the slice of the backend the contact surfaces need.
// *api.UserService satisfies it.
type UserAPI interface {
	Friends(ctx context.Context, userID string) ([]api.User, error)
	Matches(ctx context.Context, userID string) ([]api.User, error)
}

// ChatAPI lists the viewer's conversations. *api.ChatService satisfies it.
type ChatAPI interface {
	UserChats(ctx context.Context, userID string) ([]api.Chat, error)
}

// ListCache persists conversation summaries locally. *store.DB satisfies it.
type ListCache interface {
	ReplaceChatSummaries(ctx context.Context, summaries []store.ChatSummary) error
	ListChatSummaries(ctx context.Context) ([]store.ChatSummary, error)
}

// Service assembles the contact and conversation lists for the viewer.
type Service struct {
	users  UserAPI
	chats  ChatAPI
	cache  ListCache
	logger *zap.Logger
}

// NewService wires the contact surfaces. cache may be nil.
func NewService(users UserAPI, chats ChatAPI, cache ListCache, logger *zap.Logger) *Service {
	return &Service{users: users, chats: chats, cache: cache, logger: logger}
}

// Contacts returns the unified contact list: friends first, then matches,
// deduplicated by id with the friend copy winning.
func (s *Service) Contacts(ctx context.Context, viewerID string) ([]api.User, error) {
	friends, err := s.users.Friends(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	matches, err := s.users.Matches(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return Merge(friends, matches), nil
}

// Refresh fetches the viewer's conversations and splits them into the recent
// list and the contacts without a conversation yet. Conversations whose
// other participant is no longer a friend or match are left out. The fresh
// summaries are written to the cache best-effort.
func (s *Service) Refresh(ctx context.Context, viewerID string) ([]Conversation, []api.User, error) {
	chats, err := s.chats.UserChats(ctx, viewerID)
	if err != nil {
		return nil, nil, fmt.Errorf("list conversations: %w", err)
	}
	contacts, err := s.Contacts(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]bool, len(contacts))
	for _, u := range contacts {
		known[u.ID] = true
	}
	var recent []Conversation
	for _, r := range Recent(chats, viewerID) {
		if known[r.Other.ID] {
			recent = append(recent, r)
		}
	}
	fresh := WithoutConversation(contacts, chats, viewerID)

	if s.cache != nil {
		if err := s.cache.ReplaceChatSummaries(ctx, summariesFrom(recent)); err != nil {
			s.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return recent, fresh, nil
}

// CachedRecent returns the last cached conversation list, for rendering
// before the first network round-trip completes.
func (s *Service) CachedRecent(ctx context.Context) []Conversation {
	if s.cache == nil {
		return nil
	}
	summaries, err := s.cache.ListChatSummaries(ctx)
	if err != nil {
		s.logger.Warn("cache read failed", zap.Error(err))
		return nil
	}
	out := make([]Conversation, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, Conversation{
			ChatID:      sum.ID,
			Other:       api.User{ID: sum.OtherID, Name: sum.OtherName},
			LastMessage: sum.LastMessage,
			LastAt:      sum.LastMessageAt,
			Unread:      sum.UnreadCount,
		})
	}
	return out
}

func summariesFrom(convs []Conversation) []store.ChatSummary {
	out := make([]store.ChatSummary, 0, len(convs))
	for _, c := range convs {
		out = append(out, store.ChatSummary{
			ID:            c.ChatID,
			OtherID:       c.Other.ID,
			OtherName:     c.Other.DisplayName(),
			LastMessage:   c.LastMessage,
			LastMessageAt: c.LastAt,
			UnreadCount:   c.Unread,
		})
	}
	return out
}
