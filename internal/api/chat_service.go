package api

import (
	"context"
	"fmt"
	"net/http"
)

// ChatService wraps the conversation and message endpoints.
type ChatService struct {
	c *Client
}

// UserChats lists every conversation the user participates in, with
// participants and messages embedded.
func (s *ChatService) UserChats(ctx context.Context, userID string) ([]Chat, error) {
	var chats []Chat
	if err := s.c.do(ctx, http.MethodGet, "/chat/user/"+userID, nil, &chats); err != nil {
		return nil, err
	}
	for i := range chats {
		chats[i].normalize()
	}
	return chats, nil
}

// GetOrCreate returns the single conversation between the given participants,
// creating it if none exists. Idempotent for a given participant pair.
func (s *ChatService) GetOrCreate(ctx context.Context, participantIDs []string) (*Chat, error) {
	var chat Chat
	err := s.c.do(ctx, http.MethodPost, "/chat", map[string][]string{
		"participants": participantIDs,
	}, &chat)
	if err != nil {
		return nil, err
	}
	chat.normalize()
	return &chat, nil
}

// Get fetches a single conversation by id.
func (s *ChatService) Get(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	if err := s.c.do(ctx, http.MethodGet, "/chat/"+chatID, nil, &chat); err != nil {
		return nil, err
	}
	chat.normalize()
	return &chat, nil
}

// Messages fetches the full message list for a conversation in the backend's
// creation-time order.
func (s *ChatService) Messages(ctx context.Context, chatID string) ([]Message, error) {
	var msgs []Message
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/chat/%s/messages", chatID), nil, &msgs); err != nil {
		return nil, err
	}
	for i := range msgs {
		msgs[i].normalize()
	}
	return msgs, nil
}

// Send posts a message to a conversation and returns the server's copy.
func (s *ChatService) Send(ctx context.Context, chatID, senderID, content string) (*Message, error) {
	var msg Message
	err := s.c.do(ctx, http.MethodPost, fmt.Sprintf("/chat/%s/message", chatID), map[string]string{
		"sender":  senderID,
		"content": content,
	}, &msg)
	if err != nil {
		return nil, err
	}
	msg.normalize()
	return &msg, nil
}

// MarkRead marks all of a conversation's messages as read for the viewer.
func (s *ChatService) MarkRead(ctx context.Context, chatID, userID string) error {
	return s.c.do(ctx, http.MethodPut, fmt.Sprintf("/chat/%s/read", chatID), map[string]string{
		"userId": userID,
	}, nil)
}
