// Package keys dispatches key events to named actions per page.
package keys

import (
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Binding ties a key to a handler with a hint shown in the status bar.
type Binding struct {
	Key     tcell.Key
	Rune    rune
	Hint    string
	Handler func()
}

func (b *Binding) matches(ev *tcell.EventKey) bool {
	if b.Key != tcell.KeyRune {
		return ev.Key() == b.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == b.Rune
}

// Registry holds bindings scoped by page name, plus a global scope that
// applies everywhere.
type Registry struct {
	global map[string]*Binding
	pages  map[string]map[string]*Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		global: make(map[string]*Binding),
		pages:  make(map[string]map[string]*Binding),
	}
}

// Global registers a binding active on every page.
func (r *Registry) Global(name string, b *Binding) {
	r.global[name] = b
}

// Page registers a binding active only on the named page.
func (r *Registry) Page(page, name string, b *Binding) {
	if r.pages[page] == nil {
		r.pages[page] = make(map[string]*Binding)
	}
	r.pages[page][name] = b
}

// Dispatch runs the binding matching ev on the given page. Page bindings
// shadow global ones. Returns true when a handler ran.
func (r *Registry) Dispatch(page string, ev *tcell.EventKey) bool {
	for _, b := range r.pages[page] {
		if b.matches(ev) {
			b.Handler()
			return true
		}
	}
	for _, b := range r.global {
		if b.matches(ev) {
			b.Handler()
			return true
		}
	}
	return false
}

// Hints returns the hint line for a page, page bindings first.
func (r *Registry) Hints(page string) string {
	var hints []string
	for _, b := range r.pages[page] {
		if b.Hint != "" {
			hints = append(hints, b.Hint)
		}
	}
	sort.Strings(hints)
	var global []string
	for _, b := range r.global {
		if b.Hint != "" {
			global = append(global, b.Hint)
		}
	}
	sort.Strings(global)
	return strings.Join(append(hints, global...), "  ")
}
