package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "session.")
	defer unsub()

	b.Publish(Event{Kind: KindStatusChanged, Payload: "test"})

	select {
	case evt := <-ch:
		if evt.Kind != KindStatusChanged {
			t.Errorf("got kind %q, want %q", evt.Kind, KindStatusChanged)
		}
		if evt.Timestamp.IsZero() {
			t.Error("expected Publish to fill in the timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPrefixFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "chat.")
	defer unsub()

	b.Publish(Event{Kind: KindStatusChanged})
	b.Publish(Event{Kind: KindChatMessages})

	select {
	case evt := <-ch:
		if evt.Kind != KindChatMessages {
			t.Errorf("got kind %q, want %q", evt.Kind, KindChatMessages)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Ensure session event was not delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMultiplePrefixes(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "chat.", "friend.")
	defer unsub()

	b.Publish(Event{Kind: KindChatUpdated})
	b.Publish(Event{Kind: KindRequestResolved})

	for _, want := range []string{KindChatUpdated, KindRequestResolved} {
		select {
		case evt := <-ch:
			if evt.Kind != want {
				t.Errorf("got kind %q, want %q", evt.Kind, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %q", want)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "session.")
	unsub()

	b.Publish(Event{Kind: KindStatusChanged})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1, "chat.")
	defer unsub()

	b.Publish(Event{Kind: KindChatUpdated})
	// This should be dropped (non-blocking).
	b.Publish(Event{Kind: KindChatMessages})

	evt := <-ch
	if evt.Kind != KindChatUpdated {
		t.Errorf("got %q, want %q", evt.Kind, KindChatUpdated)
	}
}
