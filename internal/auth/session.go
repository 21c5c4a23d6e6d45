package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no session has been persisted for the profile.
var ErrNoSession = errors.New("no stored session")

// Session is the persisted identity for a profile: who is signed in, their
// bearer token, and the theme preference carried across restarts.
type Session struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
	Theme  string `json:"theme"`
}

// TokenValid reports whether the stored bearer token exists and has not
// expired. The claims are parsed without signature verification; the server
// is the authority, this only avoids opening the UI with a dead token.
func (s *Session) TokenValid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No exp claim: let the server decide.
		return true
	}
	return now.Before(exp.Time)
}

// Store reads and writes the session file for a profile. It is injected into
// whatever needs the identity; nothing reads the file more than once per run.
type Store struct {
	path string
}

// NewStore creates a store over the given session file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted session. Returns ErrNoSession if none exists.
func (st *Store) Load() (*Session, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save persists the session with owner-only permissions.
func (st *Store) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0600)
}

// Clear removes the persisted session (logout). Missing file is not an error.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
