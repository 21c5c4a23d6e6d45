package chat

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/bus"
)

func TestComposerTrimsAndSends(t *testing.T) {
	f := newFakeAPI()
	var th Thread
	th.Open("c1", nil)

	c := NewComposer(f, bus.New(), zap.NewNop())
	msg, err := c.Send(context.Background(), &th, "u1", "  hello there  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg == nil || msg.Content != "hello there" {
		t.Fatalf("content not trimmed: %+v", msg)
	}

	got := th.Messages()
	if len(got) != 1 || got[0].Content != "hello there" {
		t.Fatalf("server copy not appended: %+v", got)
	}
}

func TestComposerEmptyInputNoNetworkCall(t *testing.T) {
	f := newFakeAPI()
	var th Thread
	th.Open("c1", nil)

	c := NewComposer(f, bus.New(), zap.NewNop())
	for _, input := range []string{"", "   ", "\n\t "} {
		msg, err := c.Send(context.Background(), &th, "u1", input)
		if err != nil || msg != nil {
			t.Errorf("input %q: expected silent no-op, got msg=%v err=%v", input, msg, err)
		}
	}
	if f.sendCalls != 0 {
		t.Fatalf("expected 0 send calls, got %d", f.sendCalls)
	}
}

func TestComposerNoOpenConversation(t *testing.T) {
	f := newFakeAPI()
	var th Thread

	c := NewComposer(f, bus.New(), zap.NewNop())
	msg, err := c.Send(context.Background(), &th, "u1", "hello")
	if err != nil || msg != nil {
		t.Fatalf("expected no-op without open conversation, got msg=%v err=%v", msg, err)
	}
	if f.sendCalls != 0 {
		t.Fatal("send must not be called without an open conversation")
	}
}

func TestComposerFailureLeavesThreadUntouched(t *testing.T) {
	f := newFakeAPI()
	f.sendErr = errors.New("500 internal")

	var th Thread
	th.Open("c1", []api.Message{{ID: "m1"}})

	c := NewComposer(f, bus.New(), zap.NewNop())
	if _, err := c.Send(context.Background(), &th, "u1", "hello"); err == nil {
		t.Fatal("expected send error")
	}
	if got := th.Messages(); len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("failed send mutated thread: %+v", got)
	}
}

func TestComposerConversationSwitchDuringSend(t *testing.T) {
	f := newFakeAPI()
	var th Thread
	th.Open("c1", nil)

	// Switch conversations while the send request is in flight.
	f.sendHook = func() { th.Open("c2", nil) }

	c := NewComposer(f, bus.New(), zap.NewNop())
	msg, err := c.Send(context.Background(), &th, "u1", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg == nil {
		t.Fatal("send result must still be returned")
	}
	if got := th.Messages(); len(got) != 0 {
		t.Fatalf("late send response leaked into new conversation: %+v", got)
	}
}
