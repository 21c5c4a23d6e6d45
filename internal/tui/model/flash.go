package model

import (
	"sync"
	"time"
)

// Flash holds a transient status-bar notification.
type Flash struct {
	mu      sync.Mutex
	text    string
	expires time.Time
}

// Set stores a message that expires after d.
func (f *Flash) Set(text string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	f.expires = time.Now().Add(d)
}

// Get returns the current message, or "" once expired.
func (f *Flash) Get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if time.Now().After(f.expires) {
		return ""
	}
	return f.text
}
