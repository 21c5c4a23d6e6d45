package bus

import (
	"strings"
	"sync"
	"time"
)

// Event kinds published in this client:
//
//	chat.updated, chat.messages, chat.poll_failed, message.sent,
//	message.send_failed, friend.request_sent, friend.request_resolved,
//	session.signed_in, session.signed_out, session.status_changed
const (
	KindChatMessages      = "chat.messages"
	KindChatUpdated       = "chat.updated"
	KindPollFailed        = "chat.poll_failed"
	KindMessageSent       = "message.sent"
	KindMessageSendFailed = "message.send_failed"
	KindRequestSent       = "friend.request_sent"
	KindRequestResolved   = "friend.request_resolved"
	KindSignedIn          = "session.signed_in"
	KindSignedOut         = "session.signed_out"
	KindStatusChanged     = "session.status_changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

type subscriber struct {
	prefixes []string
	ch       chan Event
}

func (s *subscriber) wants(kind string) bool {
	for _, p := range s.prefixes {
		if strings.HasPrefix(kind, p) {
			return true
		}
	}
	return false
}

// Bus is an in-process publish/subscribe event bus. Subscribers register one or
// more kind prefixes; delivery is non-blocking and drops when a subscriber lags.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]*subscriber
	next int
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{subs: make(map[int]*subscriber)}
}

// Publish sends an event to every subscriber registered for a matching prefix.
func (b *Bus) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(evt.Kind) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Slow subscriber; drop rather than block the publisher.
		}
	}
}

// Subscribe returns a channel receiving events whose kind starts with any of
// the given prefixes, and an unsubscribe function.
func (b *Bus) Subscribe(bufSize int, prefixes ...string) (<-chan Event, func()) {
	ch := make(chan Event, bufSize)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = &subscriber{prefixes: prefixes, ch: ch}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
