// Package friends implements the friend-request workflow: the inbox of
// pending requests awaiting the viewer's decision, and the suggestions deck
// for sending new requests.
package friends

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/bus"
)

// API is the slice of the backend client this package depends on.
// *api.UserService satisfies it.
type API interface {
	PendingRequests(ctx context.Context, userID string) ([]api.FriendRequest, error)
	RespondFriendRequest(ctx context.Context, requestID, decision string) (*api.FriendRequest, error)
	SendFriendRequest(ctx context.Context, senderID, receiverID string) (*api.FriendRequest, error)
	Suggestions(ctx context.Context, userID string) ([]api.User, error)
	FriendsCount(ctx context.Context, userID string) (int, error)
}

// Inbox holds the viewer's pending friend requests and the locally tracked
// friend count shown next to them.
type Inbox struct {
	api    API
	bus    *bus.Bus
	logger *zap.Logger

	viewerID string

	mu          sync.Mutex
	pending     []api.FriendRequest
	friendCount int
}

// NewInbox creates the request inbox for the signed-in viewer.
func NewInbox(a API, b *bus.Bus, logger *zap.Logger, viewerID string) *Inbox {
	return &Inbox{api: a, bus: b, logger: logger, viewerID: viewerID}
}

// Refresh reloads the pending requests and the friend count from the server.
// A friend-count failure is non-fatal; the stale count is kept.
func (in *Inbox) Refresh(ctx context.Context) error {
	pending, err := in.api.PendingRequests(ctx, in.viewerID)
	if err != nil {
		return fmt.Errorf("load pending requests: %w", err)
	}

	count, err := in.api.FriendsCount(ctx, in.viewerID)

	in.mu.Lock()
	in.pending = pending
	if err == nil {
		in.friendCount = count
	}
	in.mu.Unlock()

	if err != nil {
		in.logger.Warn("friend count fetch failed", zap.Error(err))
	}
	return nil
}

// Pending returns a copy of the pending request list.
func (in *Inbox) Pending() []api.FriendRequest {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]api.FriendRequest(nil), in.pending...)
}

// FriendCount returns the locally tracked friend count.
func (in *Inbox) FriendCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.friendCount
}

// Accept accepts the request and removes it from the inbox. The friend count
// is bumped optimistically; if the server later disagrees the next Refresh
// corrects it, the bump is never rolled back locally.
func (in *Inbox) Accept(ctx context.Context, requestID string) error {
	return in.respond(ctx, requestID, api.RequestAccepted)
}

// Reject declines the request and removes it from the inbox.
func (in *Inbox) Reject(ctx context.Context, requestID string) error {
	return in.respond(ctx, requestID, api.RequestRejected)
}

func (in *Inbox) respond(ctx context.Context, requestID, decision string) error {
	if _, err := in.api.RespondFriendRequest(ctx, requestID, decision); err != nil {
		// The entry stays in the inbox so the user can retry.
		return fmt.Errorf("respond to request %s: %w", requestID, err)
	}

	in.mu.Lock()
	for i, r := range in.pending {
		if r.ID == requestID {
			in.pending = append(in.pending[:i], in.pending[i+1:]...)
			break
		}
	}
	if decision == api.RequestAccepted {
		in.friendCount++
	}
	in.mu.Unlock()

	in.bus.Publish(bus.Event{Kind: bus.KindRequestResolved, Payload: requestID})
	return nil
}
