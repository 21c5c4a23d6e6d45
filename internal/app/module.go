package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/auth"
	"github.com/dvmonroy/amora/internal/bus"
	"github.com/dvmonroy/amora/internal/config"
	"github.com/dvmonroy/amora/internal/lock"
	"github.com/dvmonroy/amora/internal/logging"
	"github.com/dvmonroy/amora/internal/profile"
	"github.com/dvmonroy/amora/internal/status"
	"github.com/dvmonroy/amora/internal/store"
)

// Params holds the resolved launch configuration passed to the fx module.
type Params struct {
	Profile string
	Console bool // also log to stderr; false when a TUI owns the terminal
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("app",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideSessionStore,
			provideClient,
			New,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	return config.Resolve(profile.ConfigPath())
}

func provideLogger(p Params) (*zap.Logger, error) {
	if p.Console {
		return logging.New(profile.LogPath(p.Profile), p.Profile)
	}
	return logging.NewFileOnly(profile.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired", zap.String("profile", p.Profile))
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.CacheDBPath(p.Profile)
	db, err := store.Open(dbPath)
	if err != nil {
		// The cache is an optimization; run network-only rather than fail.
		logger.Warn("cache open failed, running without cache", zap.Error(err))
		return nil, nil
	}
	if err := db.Migrate(); err != nil {
		logger.Warn("cache migrate failed, running without cache", zap.Error(err))
		_ = db.Close()
		return nil, nil
	}
	logger.Info("cache initialized", zap.String("path", dbPath))
	return db, nil
}

func provideSessionStore(p Params) *auth.Store {
	return auth.NewStore(profile.SessionPath(p.Profile))
}

func provideClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	return api.New(cfg.ServerURL, cfg.RequestTimeout(), logger)
}

func registerLifecycle(lc fx.Lifecycle, a *App, lk *lock.Lock, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return a.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			if ses, err := a.Chat(); err == nil {
				ses.Close()
			}
			if db != nil {
				if err := db.Close(); err != nil {
					logger.Warn("cache close failed", zap.Error(err))
				}
			}
			if err := lk.Release(); err != nil {
				logger.Warn("lock release failed", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
