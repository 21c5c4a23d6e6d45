package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dvmonroy/amora/internal/bus"
)

// State represents the client's runtime state.
type State string

const (
	Starting  State = "STARTING"
	SignedOut State = "SIGNED_OUT"
	SigningIn State = "SIGNING_IN"
	Online    State = "ONLINE"
	Degraded  State = "DEGRADED"
	Error     State = "ERROR"
)

// validTransitions defines allowed state transitions. Starting resolves to
// Online when a stored session is still valid, otherwise SignedOut.
var validTransitions = map[State][]State{
	Starting:  {SignedOut, Online, Error},
	SignedOut: {SigningIn, Error},
	SigningIn: {Online, SignedOut, Error},
	Online:    {Degraded, SignedOut, Error},
	Degraded:  {Online, SignedOut, Error},
	Error:     {Starting},
}

// Machine tracks and enforces client state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Starting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Starting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind: bus.KindStatusChanged,
			Payload: Change{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// Change is the payload for status change events.
type Change struct {
	From State
	To   State
}
