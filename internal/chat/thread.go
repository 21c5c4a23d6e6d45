package chat

import (
	"sync"

	"github.com/dvmonroy/amora/internal/api"
)

// Thread is the message list of the currently open conversation, guarded by a
// generation token. Every Open or Close bumps the generation; writes carry the
// generation they were started under and are rejected if the thread has moved
// on since. A poller or send that raced a conversation switch can therefore
// never write a stale snapshot into the new conversation.
type Thread struct {
	mu     sync.Mutex
	gen    uint64
	chatID string
	msgs   []api.Message
}

// Open points the thread at a conversation and seeds its message list.
// It returns the new generation token; writers must present it back.
func (t *Thread) Open(chatID string, msgs []api.Message) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.chatID = chatID
	t.msgs = append([]api.Message(nil), msgs...)
	return t.gen
}

// Close clears the thread and invalidates all outstanding generation tokens.
func (t *Thread) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.chatID = ""
	t.msgs = nil
}

// Generation returns the current token.
func (t *Thread) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// ChatID returns the id of the open conversation, or "" when none is open.
func (t *Thread) ChatID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.chatID
}

// Replace swaps the whole message list with a fresh server snapshot. The
// snapshot wins even when shorter than the current list. Returns false and
// leaves the thread untouched when gen is stale.
func (t *Thread) Replace(gen uint64, msgs []api.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return false
	}
	t.msgs = append([]api.Message(nil), msgs...)
	return true
}

// Append adds one message to the end of the list, typically the server's copy
// of a just-sent message. Returns false when gen is stale.
func (t *Thread) Append(gen uint64, msg api.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return false
	}
	t.msgs = append(t.msgs, msg)
	return true
}

// Messages returns a copy of the current message list.
func (t *Thread) Messages() []api.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]api.Message(nil), t.msgs...)
}
