package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-dbx-delta/internal/adapter"
	"github.com/MKhiriev/go-dbx-delta/internal/config"
	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/internal/delta"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/internal/session"
	"github.com/MKhiriev/go-dbx-delta/internal/store"
	"github.com/MKhiriev/go-dbx-delta/internal/workers"
)

// App follows every configured path prefix until its context is canceled.
type App struct {
	db      *store.DB
	workers *workers.Workers

	logger *logger.Logger
}

var _ Client = (*App)(nil)

// NewApp builds the runtime described by cfg. Changes go to handler; a nil
// handler logs them. The cursor store is opened and migrated here, so the
// caller must Run or Close the returned App.
func NewApp(ctx context.Context, cfg *config.ClientConfig, handler session.Handler, log *logger.Logger, opts ...session.Option) (*App, error) {
	transport, err := adapter.NewHTTPTransport(cfg.Transport, log)
	if err != nil {
		return nil, fmt.Errorf("create api transport: %w", err)
	}
	notify, err := adapter.NewHTTPTransport(cfg.Notify, log)
	if err != nil {
		return nil, fmt.Errorf("create notify transport: %w", err)
	}

	api := dbxapi.NewClient(cfg.Endpoints, transport, log, dbxapi.WithNotifyTransport(notify))

	var deltaOpts []delta.Option
	if cfg.LongpollTimeout > 0 {
		deltaOpts = append(deltaOpts, delta.WithLongpollTimeout(cfg.LongpollTimeout))
	}
	deltaClient := delta.NewClient(api, log, deltaOpts...)

	db, err := store.NewDB(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("open cursor store: %w", err)
	}
	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cursor store: %w", err)
	}
	cursors, err := store.NewCursorRepository(db, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cursor repository: %w", err)
	}

	if handler == nil {
		handler = session.NewLogHandler(log)
	}

	sessions := make([]workers.Worker, 0, len(cfg.PathPrefixes))
	for _, prefix := range cfg.PathPrefixes {
		s, err := session.New(session.Config{
			Account:     cfg.Account,
			PathPrefix:  prefix,
			Credentials: cfg.Credentials,
			MaxBackoff:  cfg.MaxBackoff,
			ResetCursor: cfg.ResetCursors,
		}, deltaClient, cursors, handler, log, opts...)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create session for %q: %w", prefix, err)
		}
		sessions = append(sessions, s)
	}

	log.Info().
		Str("api", cfg.Endpoints.API).
		Str("notify", cfg.Endpoints.Notify).
		Str("dialect", string(db.Dialect())).
		Strs("path_prefixes", cfg.PathPrefixes).
		Msg("client app initialized")

	return &App{
		db:      db,
		workers: workers.New(log, sessions...),
		logger:  log,
	}, nil
}

// Run starts all sessions and blocks until ctx is canceled or one of them
// fails. The cursor store is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.logger.Info().Int("sessions", a.workers.Len()).Msg("starting sessions")
	if err := a.workers.Run(ctx); err != nil {
		return fmt.Errorf("client run: %w", err)
	}

	a.logger.Info().Msg("all sessions stopped")
	return nil
}

// Close releases the cursor store.
func (a *App) Close() error {
	return a.db.Close()
}
