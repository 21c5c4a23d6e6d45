// Package model caches the data each TUI page renders and mediates between
// the UI goroutine and the application services.
package model

import (
	"context"
	"sync"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/app"
	"github.com/dvmonroy/amora/internal/chat"
	"github.com/dvmonroy/amora/internal/contacts"
)

// ViewModel holds snapshots of the lists the pages render. All loads go
// through the App's services; views only ever read the cached copies.
type ViewModel struct {
	app   *app.App
	Flash Flash

	mu          sync.RWMutex
	recent      []contacts.Conversation
	fresh       []api.User
	pending     []api.FriendRequest
	suggestions []api.User
	friendCount int
}

// NewViewModel creates a view model over the application controller.
func NewViewModel(a *app.App) *ViewModel {
	return &ViewModel{app: a}
}

// LoadCached seeds the conversation list from the local cache so the home
// page renders before the first network refresh completes.
func (vm *ViewModel) LoadCached(ctx context.Context) {
	people, err := vm.app.Contacts()
	if err != nil {
		return
	}
	cached := people.CachedRecent(ctx)
	vm.mu.Lock()
	if len(vm.recent) == 0 {
		vm.recent = cached
	}
	vm.mu.Unlock()
}

// LoadHome refreshes the recent conversations and the contacts without one.
func (vm *ViewModel) LoadHome(ctx context.Context) error {
	people, err := vm.app.Contacts()
	if err != nil {
		return err
	}
	recent, fresh, err := people.Refresh(ctx, vm.app.Session().UserID)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.recent = recent
	vm.fresh = fresh
	vm.mu.Unlock()
	return nil
}

// LoadRequests refreshes the pending friend requests and the friend count.
func (vm *ViewModel) LoadRequests(ctx context.Context) error {
	inbox, err := vm.app.Inbox()
	if err != nil {
		return err
	}
	if err := inbox.Refresh(ctx); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.pending = inbox.Pending()
	vm.friendCount = inbox.FriendCount()
	vm.mu.Unlock()
	return nil
}

// LoadSuggestions refreshes the suggestions deck.
func (vm *ViewModel) LoadSuggestions(ctx context.Context) error {
	deck, err := vm.app.Deck()
	if err != nil {
		return err
	}
	if err := deck.Refresh(ctx); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.suggestions = deck.Suggestions()
	vm.mu.Unlock()
	return nil
}

// OpenConversation resolves and opens the targeted conversation.
func (vm *ViewModel) OpenConversation(ctx context.Context, target chat.Target) (*chat.Opened, error) {
	ses, err := vm.app.Chat()
	if err != nil {
		return nil, err
	}
	return ses.Open(ctx, target)
}

// CloseConversation stops polling and clears the open thread.
func (vm *ViewModel) CloseConversation() {
	if ses, err := vm.app.Chat(); err == nil {
		ses.Close()
	}
}

// Send posts content to the open conversation.
func (vm *ViewModel) Send(ctx context.Context, content string) error {
	ses, err := vm.app.Chat()
	if err != nil {
		return err
	}
	_, err = ses.Send(ctx, content)
	return err
}

// Messages returns the open conversation's message list.
func (vm *ViewModel) Messages() []api.Message {
	ses, err := vm.app.Chat()
	if err != nil {
		return nil
	}
	return ses.Messages()
}

// ViewerID returns the signed-in user id, or "".
func (vm *ViewModel) ViewerID() string {
	if s := vm.app.Session(); s != nil {
		return s.UserID
	}
	return ""
}

// Accept accepts a pending request and refreshes the local copy.
func (vm *ViewModel) Accept(ctx context.Context, requestID string) error {
	return vm.respond(ctx, requestID, true)
}

// Reject declines a pending request and refreshes the local copy.
func (vm *ViewModel) Reject(ctx context.Context, requestID string) error {
	return vm.respond(ctx, requestID, false)
}

func (vm *ViewModel) respond(ctx context.Context, requestID string, accept bool) error {
	inbox, err := vm.app.Inbox()
	if err != nil {
		return err
	}
	if accept {
		err = inbox.Accept(ctx, requestID)
	} else {
		err = inbox.Reject(ctx, requestID)
	}
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.pending = inbox.Pending()
	vm.friendCount = inbox.FriendCount()
	vm.mu.Unlock()
	return nil
}

// SendRequest sends a friend request from the suggestions deck.
func (vm *ViewModel) SendRequest(ctx context.Context, receiverID string) error {
	deck, err := vm.app.Deck()
	if err != nil {
		return err
	}
	if err := deck.Send(ctx, receiverID); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.suggestions = deck.Suggestions()
	vm.mu.Unlock()
	return nil
}

// Recent returns the cached recent-conversation rows.
func (vm *ViewModel) Recent() []contacts.Conversation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.recent
}

// Fresh returns the cached contacts without a conversation.
func (vm *ViewModel) Fresh() []api.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.fresh
}

// Pending returns the cached pending friend requests.
func (vm *ViewModel) Pending() []api.FriendRequest {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.pending
}

// Suggestions returns the cached suggestions deck.
func (vm *ViewModel) Suggestions() []api.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.suggestions
}

// FriendCount returns the locally tracked friend count.
func (vm *ViewModel) FriendCount() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.friendCount
}
