package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"wandergenie/internal/flow"
	"wandergenie/internal/gateway/config"
	"wandergenie/internal/gateway/handler"
	"wandergenie/internal/gateway/middleware"
	"wandergenie/internal/gateway/server"
	"wandergenie/internal/gateway/session"
	"wandergenie/internal/logging"
	"wandergenie/internal/metrics"
)

type App struct {
	server   *server.Server
	sessions *session.Store
	log      *logrus.Logger
	closeLog func() error
}

// New wires the process from a validated configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	base := logger.WithField("env", cfg.Env)

	// Dependencies
	m := metrics.New()
	oracle, err := newOracle(ctx, cfg.LLM, base, m)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to create oracle: %w", err)
	}
	runner := flow.New(oracle, flow.WithLogger(base), flow.WithObserver(m))
	sessions := session.NewStore(runner, session.Options{
		MaxSessions:     cfg.Session.Max,
		TTL:             cfg.Session.TTL,
		ErrorResetDelay: cfg.Session.ErrorReset,
		Logger:          base,
	})

	// Routing & Server
	mux := server.NewMux(
		handler.New(runner, sessions, base),
		m.Handler(),
		middleware.Recover(base),
		middleware.AccessLog(base),
		middleware.CORS(cfg.HTTP.CORSOrigins),
		middleware.NewRateLimiter(cfg.HTTP.RPS, cfg.HTTP.Burst).Limit,
	)
	srv := server.New(cfg.Port, mux, base)
	srv.OnShutdown(sessions.Close)

	return &App{
		server:   srv,
		sessions: sessions,
		log:      logger,
		closeLog: closeLog,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down server")
	err := a.server.Shutdown(ctx)
	a.log.Info("server stopped")
	return errors.Join(err, a.closeLog())
}
