// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package dbxapi implements authenticated GET and POST calls against the
// provider API families and interprets their outcomes.
//
// Every call ends in exactly one of: a parsed [Payload] (or raw bytes for the
// Raw variants), a *[Status] carrying a classified [Code], or an error
// wrapping [ErrCanceled]. The client never retries.
package dbxapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/adapter"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/internal/utils"
)

// Params are request parameters. They go into the query string of GET
// requests and the form body of POST requests.
type Params map[string]string

type family int

const (
	apiFamily family = iota
	notifyFamily
)

func (f family) String() string {
	if f == notifyFamily {
		return "notify"
	}
	return "api"
}

// Client issues requests against the API and notify endpoint families.
// It is safe for concurrent use.
type Client struct {
	endpoints  Endpoints
	transport  adapter.Transport
	notify     adapter.Transport
	classifier *Classifier
	ids        *utils.RequestIDGenerator

	logger *logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithClassifier replaces the default status classifier.
func WithClassifier(c *Classifier) Option {
	return func(cl *Client) {
		if c != nil {
			cl.classifier = c
		}
	}
}

// WithNotifyTransport sets the transport used for the notify family. Without
// it the main transport serves both families.
func WithNotifyTransport(t adapter.Transport) Option {
	return func(cl *Client) {
		if t != nil {
			cl.notify = t
		}
	}
}

// NewClient constructs a Client. The endpoints are copied and never change
// for the lifetime of the client.
func NewClient(endpoints Endpoints, transport adapter.Transport, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		endpoints:  endpoints,
		transport:  transport,
		notify:     transport,
		classifier: NewClassifier(),
		ids:        utils.NewRequestIDGenerator(),
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the base URLs the client was built with.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Get performs a GET against the API family and parses the JSON response.
func (c *Client) Get(ctx context.Context, path string, params Params) (Payload, error) {
	return c.json(ctx, apiFamily, http.MethodGet, path, params)
}

// Post performs a form-encoded POST against the API family and parses the
// JSON response.
func (c *Client) Post(ctx context.Context, path string, params Params) (Payload, error) {
	return c.json(ctx, apiFamily, http.MethodPost, path, params)
}

// GetNotify performs a GET against the notify family and parses the JSON
// response.
func (c *Client) GetNotify(ctx context.Context, path string, params Params) (Payload, error) {
	return c.json(ctx, notifyFamily, http.MethodGet, path, params)
}

// GetRaw is like Get but returns the unparsed body of an OK response.
func (c *Client) GetRaw(ctx context.Context, path string, params Params) ([]byte, error) {
	return c.raw(ctx, apiFamily, http.MethodGet, path, params)
}

// PostRaw is like Post but returns the unparsed body of an OK response.
func (c *Client) PostRaw(ctx context.Context, path string, params Params) ([]byte, error) {
	return c.raw(ctx, apiFamily, http.MethodPost, path, params)
}

// GetNotifyRaw is like GetNotify but returns the unparsed body of an OK
// response.
func (c *Client) GetNotifyRaw(ctx context.Context, path string, params Params) ([]byte, error) {
	return c.raw(ctx, notifyFamily, http.MethodGet, path, params)
}

func (c *Client) json(ctx context.Context, f family, method, path string, params Params) (Payload, error) {
	resp, reqLog, err := c.do(ctx, f, method, path, params)
	if err != nil {
		return Payload{}, err
	}

	payload, err := c.classifier.interpret(resp)
	if err != nil {
		logFailure(reqLog, err)
		return Payload{}, err
	}
	return payload, nil
}

func (c *Client) raw(ctx context.Context, f family, method, path string, params Params) ([]byte, error) {
	resp, reqLog, err := c.do(ctx, f, method, path, params)
	if err != nil {
		return nil, err
	}

	if st := c.classifier.ClassifyResponse(resp); st != nil {
		logFailure(reqLog, st)
		return nil, st
	}
	return resp.Body, nil
}

// do sends one request and classifies transport failures. HTTP-level
// classification is left to the caller.
func (c *Client) do(ctx context.Context, f family, method, path string, params Params) (adapter.Response, *logger.Logger, error) {
	id := c.ids.Generate()
	reqLog := &logger.Logger{Logger: c.logger.With().
		Str("request_id", id).
		Str("family", f.String()).
		Str("method", method).
		Str("endpoint", path).
		Logger()}

	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		reqLog.Debug().Msg("request canceled before start")
		return adapter.Response{}, reqLog, canceled(err)
	}

	transport, base := c.transport, c.endpoints.API
	if f == notifyFamily {
		transport, base = c.notify, c.endpoints.Notify
	}

	start := time.Now()
	resp, err := transport.Do(utils.WithRequestID(ctx, id), adapter.Request{
		Method: method,
		URL:    joinURL(base, path),
		Params: params,
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			err = canceled(ctx.Err())
		} else {
			err = c.classifier.ClassifyTransportError(err)
		}
		reqLog.Logger = reqLog.With().Dur("duration", elapsed).Logger()
		logFailure(reqLog, err)
		return adapter.Response{}, reqLog, err
	}

	reqLog.Logger = reqLog.With().Int("status", resp.StatusCode).Dur("duration", elapsed).Logger()
	reqLog.Debug().Int("bytes", len(resp.Body)).Msg("request completed")

	return resp, reqLog, nil
}

func logFailure(log *logger.Logger, err error) {
	if errors.Is(err, ErrCanceled) {
		log.Debug().Msg("request canceled")
		return
	}

	code, _ := CodeOf(err)
	log.Warn().Str("code", code.String()).Err(err).Msg("request failed")
}
