package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
)

// Opened is the result of resolving a conversation target: the conversation
// itself, its full message list, and the participant who is not the viewer.
type Opened struct {
	Chat     api.Chat
	Messages []api.Message
	Other    api.User
}

// Resolver turns a Target into an open conversation.
type Resolver struct {
	api    API
	logger *zap.Logger
}

// NewResolver creates a resolver over the given chat API.
func NewResolver(a API, logger *zap.Logger) *Resolver {
	return &Resolver{api: a, logger: logger}
}

// Resolve opens the targeted conversation for the viewer. A PeerID target
// finds or creates the single conversation with that peer; the operation is
// idempotent, so opening the same peer twice lands on the same conversation.
// A ChatID target fetches the existing conversation and fails terminally when
// it no longer exists.
//
// Messages are fetched eagerly and the conversation is marked read exactly
// once per open. A mark-read failure is logged and swallowed; it only delays
// the unread badge, it does not block opening.
func (r *Resolver) Resolve(ctx context.Context, viewerID string, target Target) (*Opened, error) {
	var (
		chat *api.Chat
		err  error
	)
	switch {
	case target.ChatID != "":
		chat, err = r.api.Get(ctx, target.ChatID)
	case target.PeerID != "":
		chat, err = r.api.GetOrCreate(ctx, []string{viewerID, target.PeerID})
	default:
		return nil, errors.New("resolve: empty target")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}

	msgs, err := r.api.Messages(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	if err := r.api.MarkRead(ctx, chat.ID, viewerID); err != nil {
		r.logger.Warn("mark read failed", zap.String("chat_id", chat.ID), zap.Error(err))
	}

	return &Opened{
		Chat:     *chat,
		Messages: msgs,
		Other:    otherParticipant(chat.Participants, viewerID),
	}, nil
}

// otherParticipant picks the first participant that is not the viewer.
func otherParticipant(participants []api.User, viewerID string) api.User {
	for _, p := range participants {
		if p.ID != viewerID {
			return p
		}
	}
	return api.User{}
}
