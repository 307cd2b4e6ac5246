// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dbxapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Code is the closed set of request outcomes.
type Code int

const (
	OK Code = iota
	// NotConnected means no route to the server: connection refused, host or
	// network unreachable, DNS failure.
	NotConnected
	// Timeout means the transport gave up waiting for the server.
	Timeout
	// APIRequestError is an HTTP 4xx or an in-band error payload.
	APIRequestError
	// APIRequestUnauthorized means the access token was rejected.
	APIRequestUnauthorized
	// APIRequestRateLimit means the caller must back off. The status message
	// carries the number of seconds to wait, when the server sent one.
	APIRequestRateLimit
	// APIServerError is an HTTP 5xx.
	APIServerError
	// ResponseError covers malformed or truncated responses and bodies that
	// are not valid JSON.
	ResponseError
	// ConnectionError covers TLS handshake and certificate failures and other
	// connection-level problems.
	ConnectionError
)

var codeNames = [...]string{
	OK:                     "ok",
	NotConnected:           "not_connected",
	Timeout:                "timeout",
	APIRequestError:        "api_request_error",
	APIRequestUnauthorized: "api_request_unauthorized",
	APIRequestRateLimit:    "api_request_rate_limit",
	APIServerError:         "api_server_error",
	ResponseError:          "response_error",
	ConnectionError:        "connection_error",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return "code(" + strconv.Itoa(int(c)) + ")"
	}
	return codeNames[c]
}

// Transient reports whether a request that failed with c may succeed when
// repeated unchanged after a delay.
func (c Code) Transient() bool {
	switch c {
	case NotConnected, Timeout, APIServerError, ResponseError, ConnectionError:
		return true
	default:
		return false
	}
}

var (
	ErrNotConnected           = errors.New("not connected")
	ErrTimeout                = errors.New("request timed out")
	ErrAPIRequest             = errors.New("api request error")
	ErrAPIRequestUnauthorized = errors.New("api request unauthorized")
	ErrAPIRequestRateLimit    = errors.New("api request rate limited")
	ErrAPIServer              = errors.New("api server error")
	ErrResponse               = errors.New("response error")
	ErrConnection             = errors.New("connection error")

	// ErrCanceled is returned when the caller's context was cancelled. It is
	// not part of the status taxonomy and always wraps context.Canceled.
	ErrCanceled = errors.New("request canceled")
	// ErrParse is wrapped by ResponseError statuses produced by JSON parsing.
	ErrParse = errors.New("parse response")
)

func (c Code) sentinel() error {
	switch c {
	case NotConnected:
		return ErrNotConnected
	case Timeout:
		return ErrTimeout
	case APIRequestError:
		return ErrAPIRequest
	case APIRequestUnauthorized:
		return ErrAPIRequestUnauthorized
	case APIRequestRateLimit:
		return ErrAPIRequestRateLimit
	case APIServerError:
		return ErrAPIServer
	case ResponseError:
		return ErrResponse
	case ConnectionError:
		return ErrConnection
	default:
		return nil
	}
}

// Status is a classified request failure. It matches the sentinel of its Code
// with errors.Is, and unwraps to the underlying transport or parse error when
// there is one.
type Status struct {
	Code    Code
	Message string
	// HTTPStatus is the response status code, or zero when the request never
	// produced a response.
	HTTPStatus int

	err error
}

// NewStatus builds a Status with the given code and message.
func NewStatus(code Code, message string) *Status {
	return &Status{Code: code, Message: message}
}

func (s *Status) Error() string {
	if s.Message == "" {
		return s.Code.String()
	}
	return s.Code.String() + ": " + s.Message
}

func (s *Status) Is(target error) bool {
	sentinel := s.Code.sentinel()
	return sentinel != nil && target == sentinel
}

func (s *Status) Unwrap() error {
	return s.err
}

// RetryAfter returns the server-requested delay of a rate-limit status. The
// message may hold a number of seconds or an HTTP date.
func (s *Status) RetryAfter() (time.Duration, bool) {
	if s.Code != APIRequestRateLimit {
		return 0, false
	}
	return parseRetryAfter(s.Message, time.Now())
}

func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, false
		}
		return time.Duration(secs * float64(time.Second)), true
	}

	if at, err := http.ParseTime(value); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}

// CodeOf extracts the classified code from err. It reports false for nil
// errors and errors that carry no Status, including cancellation.
func CodeOf(err error) (Code, bool) {
	var st *Status
	if errors.As(err, &st) {
		return st.Code, true
	}
	return OK, false
}
