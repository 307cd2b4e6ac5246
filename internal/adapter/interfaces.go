// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the raw HTTP transport used to talk to the
// provider API.
//
// The primary abstraction is [Transport], which issues a single GET or POST
// and hands back the protocol status, headers and raw body bytes, or a
// transport-level error. It never interprets the body and never retries:
// classification lives in package dbxapi and retry policy belongs to callers.
//
// The package ships a resty-backed implementation ([NewHTTPTransport]).
package adapter

import (
	"context"
	"net/http"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Request describes one outgoing call.
type Request struct {
	// Method is http.MethodGet or http.MethodPost.
	Method string
	// URL is the absolute endpoint URL without a query string.
	URL string
	// Params are encoded into the query string for GET and into an
	// application/x-www-form-urlencoded body for POST.
	Params map[string]string
}

// Response is the raw outcome of a request that reached the server.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs HTTP requests. Implementations must return exactly one
// of a Response or an error, and must abort in-flight requests when ctx is
// cancelled.
type Transport interface {
	// Do sends req and returns the raw response. A non-nil error means the
	// request did not produce an HTTP response (connection refused, timeout,
	// TLS failure, broken pipe, cancellation). HTTP error statuses are not
	// errors at this layer.
	Do(ctx context.Context, req Request) (Response, error)
}
