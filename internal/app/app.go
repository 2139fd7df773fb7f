// Package app builds the process wide session context: one store, one API
// client, one auth manager and the resource services, handed to callers
// explicitly.
package app

import (
	"context"
	"fmt"

	"github.com/greenpulse/pulse-client/apiclient"
	"github.com/greenpulse/pulse-client/auth"
	"github.com/greenpulse/pulse-client/internal/config"
	"github.com/greenpulse/pulse-client/rewards"
	"github.com/greenpulse/pulse-client/sessions"
	"github.com/greenpulse/pulse-client/sessions/rediskv"
	"github.com/greenpulse/pulse-client/sessions/sqlitekv"
	"github.com/greenpulse/pulse-client/trees"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config  config.Config
	Store   *sessions.Store
	Client  *apiclient.Client
	Auth    *auth.Manager
	Rewards *rewards.Service
	Trees   *trees.Service
}

// New wires the application from cfg. The caller must Close the App.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := newWithBackend(ctx, cfg, backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return a, nil
}

func newWithBackend(ctx context.Context, cfg config.Config, backend sessions.Backend) (*App, error) {
	logger := log.Logger

	store, err := sessions.NewStore(backend, sessions.WithLogger(logger.With().Str("component", "sessions").Logger()))
	if err != nil {
		return nil, fmt.Errorf("[app.New] %w", err)
	}

	client, err := apiclient.New(cfg.GetAPIBaseURL(), store,
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithLogger(logger.With().Str("component", "apiclient").Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("[app.New] %w", err)
	}

	endpoints := cfg.GetEndpoints()
	manager, err := auth.NewManager(ctx, client, store, endpoints,
		auth.WithLogger(logger.With().Str("component", "auth").Logger()),
		auth.WithTokenLifetimes(cfg.GetAccessTokenExpiry(), cfg.GetRefreshTokenExpiry()),
	)
	if err != nil {
		return nil, fmt.Errorf("[app.New] %w", err)
	}

	rewardService, err := rewards.NewService(client, endpoints)
	if err != nil {
		return nil, fmt.Errorf("[app.New] %w", err)
	}
	treeService, err := trees.NewService(client, endpoints)
	if err != nil {
		return nil, fmt.Errorf("[app.New] %w", err)
	}

	return &App{
		Config:  cfg,
		Store:   store,
		Client:  client,
		Auth:    manager,
		Rewards: rewardService,
		Trees:   treeService,
	}, nil
}

// NewBackend opens the session backend selected by SESSION_BACKEND.
func NewBackend(ctx context.Context, cfg config.StorageConfig) (sessions.Backend, error) {
	switch cfg.GetSessionBackend() {
	case config.SessionBackendMemory:
		return sessions.NewInMemoryBackend(), nil
	case config.SessionBackendRedis:
		backend, err := rediskv.Dial(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetRedisPrefix())
		if err != nil {
			return nil, fmt.Errorf("[app.NewBackend] %w", err)
		}
		return backend, nil
	default:
		backend, err := sqlitekv.Open(cfg.GetSessionPath())
		if err != nil {
			return nil, fmt.Errorf("[app.NewBackend] %w", err)
		}
		log.Debug().Str("path", cfg.GetSessionPath()).Msg("session database opened")
		return backend, nil
	}
}

// Close releases the session backend.
func (a *App) Close() error {
	return a.Store.Close()
}
