// Package app composes the client: configuration, logging, the backend
// client, the local cache, and the per-login services built once an
// identity is known.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/auth"
	"github.com/dvmonroy/amora/internal/bus"
	"github.com/dvmonroy/amora/internal/chat"
	"github.com/dvmonroy/amora/internal/config"
	"github.com/dvmonroy/amora/internal/contacts"
	"github.com/dvmonroy/amora/internal/friends"
	"github.com/dvmonroy/amora/internal/status"
	"github.com/dvmonroy/amora/internal/store"
)

// ErrSignedOut is returned by operations that need a signed-in user.
var ErrSignedOut = errors.New("not signed in")

// App is the top-level controller. It owns the session lifecycle and hands
// out the per-login services (chat session, contact lists, request inbox,
// suggestions deck) once someone is signed in.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	bus      *bus.Bus
	machine  *status.Machine
	client   *api.Client
	sessions *auth.Store
	db       *store.DB

	watchOnce sync.Once

	mu      sync.Mutex
	current *auth.Session
	chatSes *chat.Session
	inbox   *friends.Inbox
	deck    *friends.Deck
	people  *contacts.Service
}

// New assembles the controller. db may be nil when the cache failed to open;
// the client then runs network-only.
func New(cfg *config.Config, logger *zap.Logger, b *bus.Bus, machine *status.Machine, client *api.Client, sessions *auth.Store, db *store.DB) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		bus:      b,
		machine:  machine,
		client:   client,
		sessions: sessions,
		db:       db,
	}
}

// Start restores a persisted session if its token is still usable and
// settles the state machine in Online or SignedOut.
func (a *App) Start(ctx context.Context) error {
	s, err := a.sessions.Load()
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			a.logger.Warn("session restore failed", zap.Error(err))
		}
		return a.machine.Transition(status.SignedOut)
	}
	if !s.TokenValid(time.Now()) {
		a.logger.Info("stored token expired", zap.String("user_id", s.UserID))
		_ = a.sessions.Clear()
		return a.machine.Transition(status.SignedOut)
	}

	a.client.SetToken(s.Token)
	a.installServices(s)
	a.logger.Info("session restored", zap.String("user_id", s.UserID))

	a.ensureWatcher()
	return a.machine.Transition(status.Online)
}

// SignIn exchanges credentials for a session and brings the client online.
func (a *App) SignIn(ctx context.Context, email, password string) error {
	if err := a.machine.Transition(status.SigningIn); err != nil {
		return err
	}

	res, err := a.client.Auth.Login(ctx, email, password)
	if err != nil {
		_ = a.machine.Transition(status.SignedOut)
		return fmt.Errorf("sign in: %w", err)
	}

	s := &auth.Session{
		UserID: res.User.ID,
		Name:   res.User.DisplayName(),
		Email:  res.User.Email,
		Token:  res.Token,
		Theme:  res.User.ThemePreference,
	}
	if err := a.sessions.Save(s); err != nil {
		a.logger.Warn("session persist failed", zap.Error(err))
	}

	a.client.SetToken(res.Token)
	a.installServices(s)
	a.bus.Publish(bus.Event{Kind: bus.KindSignedIn, Payload: s.UserID})

	a.ensureWatcher()
	return a.machine.Transition(status.Online)
}

// Register creates an account and signs in with the same credentials.
func (a *App) Register(ctx context.Context, name, email, password string) error {
	if err := a.client.Auth.Register(ctx, name, email, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return a.SignIn(ctx, email, password)
}

// SignOut drops the token, the persisted session and all per-login services.
func (a *App) SignOut() error {
	a.mu.Lock()
	ses := a.chatSes
	a.current = nil
	a.chatSes = nil
	a.inbox = nil
	a.deck = nil
	a.people = nil
	a.mu.Unlock()

	if ses != nil {
		ses.Close()
	}
	a.client.ClearToken()
	if err := a.sessions.Clear(); err != nil {
		a.logger.Warn("session clear failed", zap.Error(err))
	}

	a.bus.Publish(bus.Event{Kind: bus.KindSignedOut})
	return a.machine.Transition(status.SignedOut)
}

// SetTheme persists the theme preference locally and on the profile.
func (a *App) SetTheme(ctx context.Context, theme string) error {
	a.mu.Lock()
	s := a.current
	a.mu.Unlock()
	if s == nil {
		return ErrSignedOut
	}

	s.Theme = theme
	if err := a.sessions.Save(s); err != nil {
		a.logger.Warn("session persist failed", zap.Error(err))
	}
	if _, err := a.client.User.Update(ctx, s.UserID, map[string]any{"themePreference": theme}); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (a *App) installServices(s *auth.Session) {
	var cache chat.Cache
	var listCache contacts.ListCache
	if a.db != nil {
		cache = a.db
		listCache = a.db
	}

	a.mu.Lock()
	a.current = s
	a.chatSes = chat.NewSession(a.client.Chat, a.bus, cache, a.logger, s.UserID, a.cfg.PollInterval())
	a.inbox = friends.NewInbox(a.client.User, a.bus, a.logger, s.UserID)
	a.deck = friends.NewDeck(a.client.User, a.bus, a.logger, s.UserID)
	a.people = contacts.NewService(a.client.User, a.client.Chat, listCache, a.logger)
	a.mu.Unlock()
}

// ensureWatcher starts the poll-health watcher once per process. It degrades
// the status when polls fail and recovers it when a snapshot lands again.
func (a *App) ensureWatcher() {
	a.watchOnce.Do(func() {
		events, _ := a.bus.Subscribe(16, bus.KindPollFailed, bus.KindChatMessages)
		go func() {
			for evt := range events {
				switch evt.Kind {
				case bus.KindPollFailed:
					if a.machine.Current() == status.Online {
						_ = a.machine.Transition(status.Degraded)
					}
				case bus.KindChatMessages:
					if a.machine.Current() == status.Degraded {
						_ = a.machine.Transition(status.Online)
					}
				}
			}
		}()
	})
}

// Session returns the signed-in identity, or nil.
func (a *App) Session() *auth.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Chat returns the conversation session. ErrSignedOut when nobody is signed in.
func (a *App) Chat() (*chat.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.chatSes == nil {
		return nil, ErrSignedOut
	}
	return a.chatSes, nil
}

// Inbox returns the friend-request inbox.
func (a *App) Inbox() (*friends.Inbox, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inbox == nil {
		return nil, ErrSignedOut
	}
	return a.inbox, nil
}

// Deck returns the suggestions deck.
func (a *App) Deck() (*friends.Deck, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deck == nil {
		return nil, ErrSignedOut
	}
	return a.deck, nil
}

// Contacts returns the contact list service.
func (a *App) Contacts() (*contacts.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.people == nil {
		return nil, ErrSignedOut
	}
	return a.people, nil
}

// Client exposes the raw backend client for surfaces without a dedicated
// service, such as the feed commands.
func (a *App) Client() *api.Client {
	return a.client
}
