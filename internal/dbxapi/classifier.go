// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dbxapi

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/MKhiriev/go-dbx-delta/internal/adapter"
	"github.com/tidwall/gjson"
)

// maxMessageLen caps the part of an error body copied into a Status message.
const maxMessageLen = 512

// ResponsePredicate inspects a raw response before its body is parsed.
type ResponsePredicate func(resp adapter.Response) bool

// MessagePredicate inspects the text of an in-band error payload.
type MessagePredicate func(message string) bool

// Classifier maps raw transport outcomes onto the Code taxonomy.
// The zero value is not usable; construct it with NewClassifier.
type Classifier struct {
	unauthorized       ResponsePredicate
	rateLimit          ResponsePredicate
	retryAfter         func(resp adapter.Response) string
	inBandUnauthorized MessagePredicate
}

// ClassifierOption customises a Classifier.
type ClassifierOption func(*Classifier)

// WithUnauthorizedPredicate replaces the rule that marks a response as
// APIRequestUnauthorized.
func WithUnauthorizedPredicate(p ResponsePredicate) ClassifierOption {
	return func(c *Classifier) {
		if p != nil {
			c.unauthorized = p
		}
	}
}

// WithRateLimitPredicate replaces the rule that marks a response as
// APIRequestRateLimit.
func WithRateLimitPredicate(p ResponsePredicate) ClassifierOption {
	return func(c *Classifier) {
		if p != nil {
			c.rateLimit = p
		}
	}
}

// WithRetryAfter replaces the extraction of the wait hint from a rate-limited
// response.
func WithRetryAfter(fn func(resp adapter.Response) string) ClassifierOption {
	return func(c *Classifier) {
		if fn != nil {
			c.retryAfter = fn
		}
	}
}

// WithInBandUnauthorized replaces the rule that promotes an in-band error
// message on an OK response to APIRequestUnauthorized.
func WithInBandUnauthorized(p MessagePredicate) ClassifierOption {
	return func(c *Classifier) {
		if p != nil {
			c.inBandUnauthorized = p
		}
	}
}

// NewClassifier returns a Classifier with the default provider rules applied
// and then overridden by opts.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		unauthorized:       DefaultUnauthorized,
		rateLimit:          DefaultRateLimit,
		retryAfter:         DefaultRetryAfter,
		inBandUnauthorized: DefaultInBandUnauthorized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultUnauthorized matches HTTP 401.
func DefaultUnauthorized(resp adapter.Response) bool {
	return resp.StatusCode == http.StatusUnauthorized
}

// DefaultRateLimit matches HTTP 429, and HTTP 503 carrying a Retry-After
// header.
func DefaultRateLimit(resp adapter.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusServiceUnavailable:
		return resp.Header.Get("Retry-After") != ""
	default:
		return false
	}
}

// DefaultRetryAfter reads the Retry-After header, falling back to a
// retry_after field in the JSON body.
func DefaultRetryAfter(resp adapter.Response) string {
	if v := strings.TrimSpace(resp.Header.Get("Retry-After")); v != "" {
		return v
	}
	if !gjson.ValidBytes(resp.Body) {
		return ""
	}
	for _, path := range []string{"retry_after", "error.retry_after"} {
		if v := gjson.GetBytes(resp.Body, path); v.Exists() {
			return v.String()
		}
	}
	return ""
}

var unauthorizedMarkers = []string{
	"invalid_access_token",
	"expired_access_token",
	"invalid_token",
}

// DefaultInBandUnauthorized matches error messages that name an invalid or
// expired access token.
func DefaultInBandUnauthorized(message string) bool {
	for _, m := range unauthorizedMarkers {
		if strings.Contains(message, m) {
			return true
		}
	}
	return false
}

// ClassifyTransportError maps an error returned by [adapter.Transport.Do]
// onto a *Status. Cancellation is returned as an error wrapping ErrCanceled and
// context.Canceled instead.
func (c *Classifier) ClassifyTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return canceled(err)
	}

	return &Status{Code: transportCode(err), Message: err.Error(), err: err}
}

func canceled(err error) error {
	if errors.Is(err, ErrCanceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCanceled, context.Canceled)
}

func transportCode(err error) Code {
	if isTLSError(err) {
		return ConnectionError
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return Timeout
	}

	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.ENETDOWN):
		return NotConnected
	}

	switch {
	case errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return ResponseError
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return ConnectionError
	}

	// Malformed framing and anything unrecognised.
	return ResponseError
}

func isTLSError(err error) bool {
	var (
		recordErr   tls.RecordHeaderError
		verifyErr   *tls.CertificateVerificationError
		alertErr    tls.AlertError
		authErr     x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		systemRoots x509.SystemRootsError
	)
	switch {
	case errors.As(err, &recordErr),
		errors.As(err, &verifyErr),
		errors.As(err, &alertErr),
		errors.As(err, &authErr),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr),
		errors.As(err, &systemRoots):
		return true
	}
	// net/http reports handshake timeouts with an unexported type.
	return strings.Contains(err.Error(), "TLS handshake")
}

// ClassifyResponse returns the failure status of resp, or nil when the
// response is OK and its body should be interpreted.
func (c *Classifier) ClassifyResponse(resp adapter.Response) *Status {
	switch {
	case c.rateLimit(resp):
		return &Status{Code: APIRequestRateLimit, Message: c.retryAfter(resp), HTTPStatus: resp.StatusCode}
	case c.unauthorized(resp):
		return &Status{Code: APIRequestUnauthorized, Message: responseMessage(resp), HTTPStatus: resp.StatusCode}
	case resp.StatusCode >= 500:
		return &Status{Code: APIServerError, Message: responseMessage(resp), HTTPStatus: resp.StatusCode}
	case resp.StatusCode >= 400:
		return &Status{Code: APIRequestError, Message: responseMessage(resp), HTTPStatus: resp.StatusCode}
	default:
		return nil
	}
}

// ClassifyAPIError builds the status of an in-band error payload found on an
// otherwise OK response.
func (c *Classifier) ClassifyAPIError(httpStatus int, message string) *Status {
	code := APIRequestError
	if c.inBandUnauthorized(message) {
		code = APIRequestUnauthorized
	}
	return &Status{Code: code, Message: message, HTTPStatus: httpStatus}
}

// responseMessage prefers the provider's JSON error text, then the trimmed
// body, then the HTTP status text.
func responseMessage(resp adapter.Response) string {
	if gjson.ValidBytes(resp.Body) {
		if v := gjson.GetBytes(resp.Body, "error"); v.Type == gjson.String {
			return v.String()
		}
	}

	msg := strings.TrimSpace(string(resp.Body))
	if msg == "" {
		return http.StatusText(resp.StatusCode)
	}
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	return msg
}
