package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/auth"
	"github.com/dvmonroy/amora/internal/bus"
	"github.com/dvmonroy/amora/internal/config"
	"github.com/dvmonroy/amora/internal/status"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func testApp(t *testing.T, handler http.Handler) (*App, *auth.Store, *status.Machine) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerURL:        srv.URL,
		PollIntervalMs:   config.DefaultPollMillis,
		RequestTimeoutMs: config.DefaultRequestTimeoutMillis,
	}
	sessions := auth.NewStore(filepath.Join(t.TempDir(), "session.json"))
	b := bus.New()
	machine := status.NewMachine(b)
	client := api.New(srv.URL, cfg.RequestTimeout(), zap.NewNop())

	return New(cfg, zap.NewNop(), b, machine, client, sessions, nil), sessions, machine
}

func loginHandler(t *testing.T, token string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": token,
			"user":  map[string]any{"_id": "u1", "name": "Ana", "email": body["email"]},
		})
	})
	return mux
}

func TestSignInPersistsSessionAndGoesOnline(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	a, sessions, machine := testApp(t, loginHandler(t, token))

	require.NoError(t, machine.Transition(status.SignedOut))
	require.NoError(t, a.SignIn(context.Background(), "ana@example.com", "hunter2"))
	require.Equal(t, status.Online, machine.Current())

	s, err := sessions.Load()
	require.NoError(t, err)
	require.Equal(t, "u1", s.UserID)
	require.Equal(t, token, s.Token)

	// Per-login services are available.
	_, err = a.Chat()
	require.NoError(t, err)
	_, err = a.Inbox()
	require.NoError(t, err)
}

func TestSignInFailureReturnsToSignedOut(t *testing.T) {
	a, _, machine := testApp(t, loginHandler(t, "unused"))

	require.NoError(t, machine.Transition(status.SignedOut))
	err := a.SignIn(context.Background(), "ana@example.com", "wrong")
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.Equal(t, status.SignedOut, machine.Current())

	_, err = a.Chat()
	require.ErrorIs(t, err, ErrSignedOut)
}

func TestStartWithoutSession(t *testing.T) {
	a, _, machine := testApp(t, http.NewServeMux())

	require.NoError(t, a.Start(context.Background()))
	require.Equal(t, status.SignedOut, machine.Current())
}

func TestStartRestoresValidSession(t *testing.T) {
	a, sessions, machine := testApp(t, http.NewServeMux())
	require.NoError(t, sessions.Save(&auth.Session{
		UserID: "u1",
		Token:  signedToken(t, time.Now().Add(time.Hour)),
	}))

	require.NoError(t, a.Start(context.Background()))
	require.Equal(t, status.Online, machine.Current())
	require.NotNil(t, a.Session())
	require.Equal(t, "u1", a.Session().UserID)
}

func TestStartDiscardsExpiredToken(t *testing.T) {
	a, sessions, machine := testApp(t, http.NewServeMux())
	require.NoError(t, sessions.Save(&auth.Session{
		UserID: "u1",
		Token:  signedToken(t, time.Now().Add(-time.Hour)),
	}))

	require.NoError(t, a.Start(context.Background()))
	require.Equal(t, status.SignedOut, machine.Current())

	_, err := sessions.Load()
	require.ErrorIs(t, err, auth.ErrNoSession)
}

func TestSignOutClearsEverything(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	a, sessions, machine := testApp(t, loginHandler(t, token))

	require.NoError(t, machine.Transition(status.SignedOut))
	require.NoError(t, a.SignIn(context.Background(), "ana@example.com", "hunter2"))
	require.NoError(t, a.SignOut())

	require.Equal(t, status.SignedOut, machine.Current())
	require.Nil(t, a.Session())
	_, err := sessions.Load()
	require.ErrorIs(t, err, auth.ErrNoSession)
}
