package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/bus"
)

// Composer validates and sends outgoing messages.
type Composer struct {
	api    API
	bus    *bus.Bus
	logger *zap.Logger
}

// NewComposer creates a composer over the given chat API.
func NewComposer(a API, b *bus.Bus, logger *zap.Logger) *Composer {
	return &Composer{api: a, bus: b, logger: logger}
}

// Send trims content, posts it to the open conversation and appends the
// server's copy of the message to the thread.
//
// Whitespace-only content and a missing open conversation are silent no-ops:
// no network call is made and (nil, nil) is returned. On a send failure the
// thread is left untouched so the caller can keep the typed text and retry.
func (c *Composer) Send(ctx context.Context, t *Thread, senderID, content string) (*api.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	chatID := t.ChatID()
	if chatID == "" {
		return nil, nil
	}

	gen := t.Generation()
	msg, err := c.api.Send(ctx, chatID, senderID, content)
	if err != nil {
		c.logger.Warn("send failed", zap.String("chat_id", chatID), zap.Error(err))
		c.bus.Publish(bus.Event{Kind: bus.KindMessageSendFailed, Payload: chatID})
		return nil, fmt.Errorf("send message: %w", err)
	}

	// Append only if the same conversation is still open; the next poll
	// snapshot includes the message either way.
	if t.Append(gen, *msg) {
		c.bus.Publish(bus.Event{Kind: bus.KindMessageSent, Payload: *msg})
	}
	return msg, nil
}
