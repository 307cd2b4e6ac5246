// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package delta implements the change-feed protocol: paging through changes
// with DeltaGet and blocking for new ones with DeltaWait.
//
// A typical caller loops DeltaGet while Page.HasMore, then calls DeltaWait
// with the last cursor and starts over when Wait.Changes is true. Failures
// are *dbxapi.Status values; see package dbxapi for the taxonomy.
package delta

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
)

const (
	deltaPath    = "/delta"
	longpollPath = "/longpoll_delta"

	// DefaultLongpollTimeout is the server-side hold time, in seconds,
	// requested by DeltaWait.
	DefaultLongpollTimeout = 480

	minLongpollTimeout = 30
	maxLongpollTimeout = 480
)

// API is the subset of *dbxapi.Client used by the delta protocol.
type API interface {
	Post(ctx context.Context, path string, params dbxapi.Params) (dbxapi.Payload, error)
	GetNotify(ctx context.Context, path string, params dbxapi.Params) (dbxapi.Payload, error)
}

// Client speaks the delta protocol over an API. It holds no per-session
// state and is safe for concurrent use; callers serialise calls that share a
// cursor.
type Client struct {
	api             API
	longpollTimeout int

	logger *logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithLongpollTimeout sets the hold time requested from the server. Values
// are clamped to the 30..480 second range the server accepts.
func WithLongpollTimeout(seconds int) Option {
	return func(c *Client) {
		c.longpollTimeout = min(max(seconds, minLongpollTimeout), maxLongpollTimeout)
	}
}

func NewClient(api API, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		api:             api,
		longpollTimeout: DefaultLongpollTimeout,
		logger:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeltaGet fetches the next page of changes under pathPrefix that happened
// after cursor. A zero cursor starts from the beginning of history and is
// not sent.
func (c *Client) DeltaGet(ctx context.Context, creds Credentials, pathPrefix string, cursor Cursor) (Page, error) {
	params := dbxapi.Params{
		"access_token": creds.AccessToken,
		"path_prefix":  pathPrefix,
	}
	if !cursor.IsZero() {
		params["cursor"] = cursor.Token()
	}

	payload, err := c.api.Post(ctx, deltaPath, params)
	if err != nil {
		return Page{}, fmt.Errorf("delta get: %w", err)
	}

	page := NewPage(payload)
	c.logger.Debug().
		Str("path_prefix", pathPrefix).
		Stringer("cursor", page.Cursor()).
		Bool("has_more", page.HasMore()).
		Bool("reset", page.Reset()).
		Msg("delta page received")

	return page, nil
}

// DeltaWait blocks until changes after cursor are available or the server
// hold time elapses. Both outcomes are successes; Wait.Changes tells them
// apart.
//
// DeltaWait panics if cursor is zero: a long-poll needs a cursor returned by
// DeltaGet.
func (c *Client) DeltaWait(ctx context.Context, creds Credentials, cursor Cursor) (Wait, error) {
	mustHaveCursor(cursor)

	payload, err := c.api.GetNotify(ctx, longpollPath, dbxapi.Params{
		"access_token": creds.AccessToken,
		"cursor":       cursor.Token(),
		"timeout":      strconv.Itoa(c.longpollTimeout),
	})
	if err != nil {
		return Wait{}, fmt.Errorf("delta wait: %w", err)
	}

	wait := NewWait(payload)
	c.logger.Debug().
		Stringer("cursor", cursor).
		Bool("changes", wait.Changes()).
		Msg("longpoll returned")

	return wait, nil
}

func mustHaveCursor(cursor Cursor) {
	if cursor.IsZero() {
		panic("delta: DeltaWait requires a non-zero cursor")
	}
}

// Result is the single value delivered by the asynchronous calls. Exactly
// one of Err and the matching Page or Wait is meaningful.
type Result struct {
	Page Page
	Wait Wait
	Err  error
}

// DeltaGetAsync runs DeltaGet in its own goroutine. The returned channel
// yields exactly one Result and is then closed.
func (c *Client) DeltaGetAsync(ctx context.Context, creds Credentials, pathPrefix string, cursor Cursor) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		page, err := c.DeltaGet(ctx, creds, pathPrefix, cursor)
		out <- Result{Page: page, Err: err}
	}()
	return out
}

// DeltaWaitAsync runs DeltaWait in its own goroutine. It panics in the
// calling goroutine on a zero cursor, before anything is started.
func (c *Client) DeltaWaitAsync(ctx context.Context, creds Credentials, cursor Cursor) <-chan Result {
	mustHaveCursor(cursor)

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		wait, err := c.DeltaWait(ctx, creds, cursor)
		out <- Result{Wait: wait, Err: err}
	}()
	return out
}
