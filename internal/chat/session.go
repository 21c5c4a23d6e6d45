package chat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/bus"
)

// Session owns the one-conversation-at-a-time lifecycle: resolving a target,
// running the poller for the open conversation and stopping it when another
// conversation is opened or the session closes.
type Session struct {
	resolver *Resolver
	composer *Composer
	api      API
	bus      *bus.Bus
	cache    Cache
	logger   *zap.Logger
	interval time.Duration

	viewerID string
	thread   Thread

	mu         sync.Mutex
	other      api.User
	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// NewSession wires a conversation session for the signed-in viewer.
// cache may be nil.
func NewSession(a API, b *bus.Bus, cache Cache, logger *zap.Logger, viewerID string, interval time.Duration) *Session {
	return &Session{
		resolver: NewResolver(a, logger),
		composer: NewComposer(a, b, logger),
		api:      a,
		bus:      b,
		cache:    cache,
		logger:   logger,
		interval: interval,
		viewerID: viewerID,
	}
}

// Open resolves target, seeds the thread and starts polling it. Any
// previously open conversation is closed first; its poller token goes stale
// immediately so a late response cannot leak into the new conversation.
func (s *Session) Open(ctx context.Context, target Target) (*Opened, error) {
	s.stopPoller()

	opened, err := s.resolver.Resolve(ctx, s.viewerID, target)
	if err != nil {
		return nil, err
	}

	gen := s.thread.Open(opened.Chat.ID, opened.Messages)

	if s.cache != nil {
		if err := s.cache.ReplaceMessages(ctx, opened.Chat.ID, cachedFrom(opened.Chat.ID, opened.Messages)); err != nil {
			s.logger.Warn("cache write failed", zap.String("chat_id", opened.Chat.ID), zap.Error(err))
		}
		// Opening marked the conversation read, so its cached list row is
		// refreshed with the latest message and a cleared unread count.
		if err := s.cache.UpsertChatSummary(ctx, summaryFrom(opened.Chat.ID, opened.Other, opened.Messages)); err != nil {
			s.logger.Warn("cache write failed", zap.String("chat_id", opened.Chat.ID), zap.Error(err))
		}
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.other = opened.Other
	s.pollCancel = cancel
	s.pollDone = done
	s.mu.Unlock()

	poller := NewPoller(s.api, &s.thread, s.bus, s.cache, s.logger, s.interval)
	go func() {
		defer close(done)
		poller.Run(pollCtx, opened.Chat.ID, gen)
	}()

	s.bus.Publish(bus.Event{Kind: bus.KindChatUpdated, Payload: opened.Chat.ID})
	return opened, nil
}

// Close stops the poller and clears the thread.
func (s *Session) Close() {
	s.stopPoller()
	s.thread.Close()
	s.mu.Lock()
	s.other = api.User{}
	s.mu.Unlock()
}

func (s *Session) stopPoller() {
	s.mu.Lock()
	cancel, done := s.pollCancel, s.pollDone
	s.pollCancel, s.pollDone = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Send posts content to the open conversation. See Composer.Send for the
// empty-input and failure semantics.
func (s *Session) Send(ctx context.Context, content string) (*api.Message, error) {
	return s.composer.Send(ctx, &s.thread, s.viewerID, content)
}

// Messages returns a copy of the open conversation's message list.
func (s *Session) Messages() []api.Message {
	return s.thread.Messages()
}

// ChatID returns the open conversation's id, or "" when none is open.
func (s *Session) ChatID() string {
	return s.thread.ChatID()
}

// Other returns the participant across from the viewer.
func (s *Session) Other() api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.other
}
