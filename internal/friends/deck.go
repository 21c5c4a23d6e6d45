package friends

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/bus"
)

// Deck holds the suggested-connections list the viewer can send requests from.
type Deck struct {
	api    API
	bus    *bus.Bus
	logger *zap.Logger

	viewerID string

	mu          sync.Mutex
	suggestions []api.User
}

// NewDeck creates the suggestions deck for the signed-in viewer.
func NewDeck(a API, b *bus.Bus, logger *zap.Logger, viewerID string) *Deck {
	return &Deck{api: a, bus: b, logger: logger, viewerID: viewerID}
}

// Refresh reloads the suggestions from the server.
func (d *Deck) Refresh(ctx context.Context) error {
	suggestions, err := d.api.Suggestions(ctx, d.viewerID)
	if err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}
	d.mu.Lock()
	d.suggestions = suggestions
	d.mu.Unlock()
	return nil
}

// Suggestions returns a copy of the current suggestion list.
func (d *Deck) Suggestions() []api.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]api.User(nil), d.suggestions...)
}

// Send sends a friend request to receiverID and removes them from the deck.
// A conflict means a request between the pair already exists; that outcome is
// benign, the target is still pruned and no error is returned.
func (d *Deck) Send(ctx context.Context, receiverID string) error {
	_, err := d.api.SendFriendRequest(ctx, d.viewerID, receiverID)
	switch {
	case err == nil:
	case errors.Is(err, api.ErrConflict):
		d.logger.Info("request already exists", zap.String("receiver_id", receiverID))
	default:
		return fmt.Errorf("send request to %s: %w", receiverID, err)
	}

	d.mu.Lock()
	for i, u := range d.suggestions {
		if u.ID == receiverID {
			d.suggestions = append(d.suggestions[:i], d.suggestions[i+1:]...)
			break
		}
	}
	d.mu.Unlock()

	d.bus.Publish(bus.Event{Kind: bus.KindRequestSent, Payload: receiverID})
	return nil
}
