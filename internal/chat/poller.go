package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/bus"
)

// Poller refreshes the open conversation on a fixed interval. Each tick
// fetches the complete message list and replaces the thread's copy wholesale;
// the server snapshot is authoritative and no merging happens on the client.
type Poller struct {
	api      API
	thread   *Thread
	bus      *bus.Bus
	cache    Cache
	logger   *zap.Logger
	interval time.Duration
}

// NewPoller creates a poller. cache may be nil.
func NewPoller(a API, thread *Thread, b *bus.Bus, cache Cache, logger *zap.Logger, interval time.Duration) *Poller {
	return &Poller{api: a, thread: thread, bus: b, cache: cache, logger: logger, interval: interval}
}

// Run polls chatID until ctx is cancelled or the generation goes stale.
// A failed tick is logged and skipped; the next tick retries at the same
// fixed interval, with no backoff.
func (p *Poller) Run(ctx context.Context, chatID string, gen uint64) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if !p.tick(ctx, chatID, gen) {
			return
		}
	}
}

// tick fetches one snapshot. Returns false once the generation is stale,
// which stops the poll loop.
func (p *Poller) tick(ctx context.Context, chatID string, gen uint64) bool {
	msgs, err := p.api.Messages(ctx, chatID)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Warn("poll tick failed", zap.String("chat_id", chatID), zap.Error(err))
		p.bus.Publish(bus.Event{Kind: bus.KindPollFailed, Payload: chatID})
		return true
	}

	if !p.thread.Replace(gen, msgs) {
		// The conversation changed while the request was in flight.
		return false
	}

	if p.cache != nil {
		if err := p.cache.ReplaceMessages(ctx, chatID, cachedFrom(chatID, msgs)); err != nil {
			p.logger.Warn("cache write failed", zap.String("chat_id", chatID), zap.Error(err))
		}
	}

	p.bus.Publish(bus.Event{Kind: bus.KindChatMessages, Payload: chatID})
	return true
}
