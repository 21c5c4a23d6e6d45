package status

import (
	"testing"

	"github.com/dvmonroy/amora/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Starting {
		t.Errorf("initial state = %s, want STARTING", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Starting, SignedOut},
		{Starting, Online},
		{Starting, Error},
		{SignedOut, SigningIn},
		{SigningIn, Online},
		{SigningIn, SignedOut},
		{Online, Degraded},
		{Online, SignedOut},
		{Degraded, Online},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Transition(Degraded); err == nil {
		t.Error("Transition(STARTING -> DEGRADED) should fail")
	}
}

// SIGNED_OUT cannot jump straight to ONLINE; sign-in has to happen first.
func TestSignedOutRequiresSigningIn(t *testing.T) {
	m := NewMachine(nil)
	walkTo(t, m, SignedOut)

	if err := m.Transition(Online); err == nil {
		t.Fatal("Transition(SIGNED_OUT -> ONLINE) should fail; must go through SIGNING_IN")
	}
	if m.Current() != SignedOut {
		t.Errorf("state = %s, want SIGNED_OUT (should not have changed)", m.Current())
	}

	if err := m.Transition(SigningIn); err != nil {
		t.Fatalf("SIGNED_OUT -> SIGNING_IN: %v", err)
	}
	if err := m.Transition(Online); err != nil {
		t.Fatalf("SIGNING_IN -> ONLINE: %v", err)
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(10, "session.")
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(SignedOut); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != bus.KindStatusChanged {
		t.Errorf("event kind = %q, want %q", evt.Kind, bus.KindStatusChanged)
	}
	change, ok := evt.Payload.(Change)
	if !ok {
		t.Fatalf("payload type = %T, want Change", evt.Payload)
	}
	if change.From != Starting || change.To != SignedOut {
		t.Errorf("change = %v -> %v, want STARTING -> SIGNED_OUT", change.From, change.To)
	}
}

// First-run lifecycle: STARTING → SIGNED_OUT → SIGNING_IN → ONLINE.
func TestFirstRunLifecycle(t *testing.T) {
	m := NewMachine(nil)

	steps := []State{SignedOut, SigningIn, Online}
	for _, s := range steps {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != Online {
		t.Errorf("final state = %s, want ONLINE", m.Current())
	}
}

// Returning user with a valid stored session: STARTING → ONLINE.
func TestResumedSessionLifecycle(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Transition(Online); err != nil {
		t.Fatalf("STARTING -> ONLINE: %v", err)
	}
}

// Backend outage and recovery: ONLINE → DEGRADED → ONLINE.
func TestDegradedRecoveryCycle(t *testing.T) {
	m := NewMachine(nil)
	walkTo(t, m, Online)

	steps := []State{Degraded, Online, Degraded, SignedOut}
	for _, s := range steps {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != SignedOut {
		t.Errorf("final state = %s, want SIGNED_OUT", m.Current())
	}
}

// walkTo is a helper that transitions the machine to a target state.
func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Starting:  {},
		SignedOut: {SignedOut},
		SigningIn: {SignedOut, SigningIn},
		Online:    {SignedOut, SigningIn, Online},
		Degraded:  {SignedOut, SigningIn, Online, Degraded},
		Error:     {Error},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
