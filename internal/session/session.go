// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session follows the change feed of one path prefix: it pages
// through changes, hands them to a Handler, persists the cursor and
// long-polls for more.
//
// Failures are handled per kind. Rate limits wait for the server hint,
// transient network and server errors retry with exponential backoff,
// everything else (unauthorized, request errors) stops the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/internal/delta"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/internal/store"
	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultInitialBackoff = 1 * time.Second
	DefaultMaxBackoff     = 5 * time.Minute
)

// Config describes what a session follows.
type Config struct {
	// Account keys the stored cursor together with PathPrefix.
	Account     string
	PathPrefix  string
	Credentials delta.Credentials

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// ResetCursor discards the stored cursor on start and replays the whole
	// history.
	ResetCursor bool
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Account) == "" {
		return fmt.Errorf("%w: empty account", ErrInvalidConfig)
	}
	if c.Credentials.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrInvalidConfig)
	}
	return nil
}

// Session runs the sync loop for one path prefix.
type Session struct {
	cfg     Config
	client  DeltaClient
	cursors CursorStore
	handler Handler

	newBackOff    func() backoff.BackOff
	notify        backoff.Notify
	expiredCursor func(error) bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error

	logger *logger.Logger
}

// Option customises a Session.
type Option func(*Session)

// WithBackOff replaces the exponential backoff used between retries of
// transient failures.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(s *Session) {
		if fn != nil {
			s.newBackOff = fn
		}
	}
}

// WithExpiredCursorPredicate decides which DeltaGet errors mean the stored
// cursor is gone. A match deletes the cursor and pages again from the
// beginning. The default is IsResetError.
func WithExpiredCursorPredicate(fn func(error) bool) Option {
	return func(s *Session) {
		if fn != nil {
			s.expiredCursor = fn
		}
	}
}

// New constructs a Session. It returns ErrInvalidConfig when cfg lacks an
// account or an access token.
func New(cfg Config, client DeltaClient, cursors CursorStore, handler Handler, log *logger.Logger, opts ...Option) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = "/"
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultMaxBackoff
	}

	sessionLog := &logger.Logger{Logger: log.With().
		Str("account", cfg.Account).
		Str("path_prefix", cfg.PathPrefix).
		Logger()}

	s := &Session{
		cfg:     cfg,
		client:  client,
		cursors: cursors,
		handler: handler,
		logger:  sessionLog,
	}
	s.newBackOff = s.exponentialBackOff
	s.expiredCursor = IsResetError
	s.notify = func(err error, next time.Duration) {
		s.logger.Debug().Dur("next", next).Msg("retrying")
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) exponentialBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialBackoff
	b.MaxInterval = s.cfg.MaxBackoff
	return b
}

// Name identifies the session in logs.
func (s *Session) Name() string {
	return s.cfg.Account + ":" + s.cfg.PathPrefix
}

// Run follows the change feed until ctx is cancelled, which returns nil, or
// until a failure that retrying cannot fix, which is returned.
func (s *Session) Run(ctx context.Context) error {
	err := s.run(ctx)
	if err != nil && ctx.Err() != nil {
		s.logger.Info().Msg("session stopped")
		return nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("session failed")
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	cursor, err := s.initialCursor(ctx)
	if err != nil {
		return err
	}
	s.logger.Info().Stringer("cursor", cursor).Msg("session started")

	for {
		cursor, err = s.drain(ctx, cursor)
		if err != nil {
			return err
		}
		if err = s.waitForChanges(ctx, cursor); err != nil {
			return err
		}
	}
}

func (s *Session) initialCursor(ctx context.Context) (delta.Cursor, error) {
	if s.cfg.ResetCursor {
		if err := s.cursors.Delete(ctx, s.cfg.Account, s.cfg.PathPrefix); err != nil {
			return delta.Cursor{}, fmt.Errorf("delete cursor: %w", err)
		}
		return delta.Cursor{}, nil
	}

	cursor, err := s.cursors.Load(ctx, s.cfg.Account, s.cfg.PathPrefix)
	if errors.Is(err, store.ErrCursorNotFound) {
		return delta.Cursor{}, nil
	}
	if err != nil {
		return delta.Cursor{}, fmt.Errorf("load cursor: %w", err)
	}
	return cursor, nil
}

// drain fetches pages until the server reports no more, and returns the
// cursor to long-poll with.
func (s *Session) drain(ctx context.Context, cursor delta.Cursor) (delta.Cursor, error) {
	for {
		page, err := retry(ctx, s, "delta", func() (delta.Page, error) {
			return s.client.DeltaGet(ctx, s.cfg.Credentials, s.cfg.PathPrefix, cursor)
		})
		if err != nil && !cursor.IsZero() && s.expiredCursor(err) {
			s.logger.Warn().Err(err).Msg("cursor rejected, restarting from the beginning")
			if err = s.cursors.Delete(ctx, s.cfg.Account, s.cfg.PathPrefix); err != nil {
				return cursor, fmt.Errorf("delete cursor: %w", err)
			}
			cursor = delta.Cursor{}
			continue
		}
		if err != nil {
			return cursor, err
		}

		next, err := s.apply(ctx, page)
		if err != nil {
			return cursor, err
		}
		cursor = next

		if !page.HasMore() {
			return cursor, nil
		}
	}
}

// apply hands one page to the handler and persists its cursor.
func (s *Session) apply(ctx context.Context, page delta.Page) (delta.Cursor, error) {
	next := page.Cursor()
	if next.IsZero() {
		return delta.Cursor{}, ErrMissingCursor
	}

	entries, err := page.Entries()
	if err != nil {
		return delta.Cursor{}, fmt.Errorf("decode entries: %w", err)
	}

	if page.Reset() {
		s.logger.Info().Msg("server requested reset")
		if err = s.handler.HandleReset(ctx, s.cfg.PathPrefix); err != nil {
			return delta.Cursor{}, fmt.Errorf("handle reset: %w", err)
		}
	}
	if err = s.handler.HandleEntries(ctx, s.cfg.PathPrefix, entries); err != nil {
		return delta.Cursor{}, fmt.Errorf("handle entries: %w", err)
	}
	if err = s.cursors.Save(ctx, s.cfg.Account, s.cfg.PathPrefix, next); err != nil {
		return delta.Cursor{}, fmt.Errorf("save cursor: %w", err)
	}

	s.logger.Debug().
		Int("entries", len(entries)).
		Stringer("cursor", next).
		Bool("has_more", page.HasMore()).
		Msg("page applied")

	return next, nil
}

// waitForChanges long-polls once after cursor. Any answer, changes or a
// quiet timeout, sends the caller back to DeltaGet after the server's
// backoff hint has elapsed.
func (s *Session) waitForChanges(ctx context.Context, cursor delta.Cursor) error {
	wait, err := retry(ctx, s, "longpoll", func() (delta.Wait, error) {
		return s.client.DeltaWait(ctx, s.cfg.Credentials, cursor)
	})
	if err != nil {
		return err
	}

	s.logger.Debug().Bool("changes", wait.Changes()).Msg("longpoll returned")
	if d, ok := wait.Backoff(); ok {
		s.logger.Debug().Dur("backoff", d).Msg("server requested longpoll backoff")
		return sleep(ctx, d)
	}
	return nil
}

// retry runs op until it succeeds or fails in a way retrying cannot fix.
func retry[T any](ctx context.Context, s *Session, what string, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if errors.Is(err, dbxapi.ErrCanceled) || ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}

		var st *dbxapi.Status
		if !errors.As(err, &st) {
			return v, backoff.Permanent(err)
		}

		switch {
		case st.Code == dbxapi.APIRequestRateLimit:
			if d, ok := st.RetryAfter(); ok {
				s.logger.Warn().Str("op", what).Dur("retry_after", d).Msg("rate limited")
				return v, &backoff.RetryAfterError{Duration: d}
			}
			s.logger.Warn().Str("op", what).Msg("rate limited without hint")
			return v, err
		case st.Code.Transient():
			s.logger.Warn().Str("op", what).Str("code", st.Code.String()).Err(err).Msg("transient failure")
			return v, err
		default:
			return v, backoff.Permanent(err)
		}
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(s.notify),
	)
}

// IsResetError reports whether err is the request error the server sends
// for a cursor it no longer accepts. Its message starts with "reset", as in
// "reset" or "reset/expired_cursor". Other request errors that merely
// mention the cursor are not matched.
func IsResetError(err error) bool {
	var st *dbxapi.Status
	if !errors.As(err, &st) || st.Code != dbxapi.APIRequestError {
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(st.Message))
	return msg == "reset" || strings.HasPrefix(msg, "reset/")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start runs the session in the background. It fails if the session is
// already running.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done, s.err = cancel, done, nil

	go func() {
		err := s.Run(runCtx)

		s.mu.Lock()
		s.err = err
		if s.done == done {
			s.cancel = nil
		}
		s.mu.Unlock()

		cancel()
		close(done)
	}()

	return nil
}

// Stop cancels a running session and blocks until it has exited. It is a
// no-op when the session was never started.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Done is closed when the current background run exits. It is nil before
// the first Start.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the error the last background run ended with.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
