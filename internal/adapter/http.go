package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/internal/utils"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/http2"
)

const (
	// DefaultRequestTimeout bounds ordinary API calls.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultIdleTimeout is the longest hold the notify transport expects
	// from the server. Long-poll requests are held for up to 480 seconds.
	DefaultIdleTimeout = 8 * time.Minute
	// LongpollJitterMargin is added on top of the idle timeout to get the
	// header and overall deadline of a long-poll request. The provider adds up
	// to 90 seconds of random jitter to the requested timeout.
	LongpollJitterMargin = 90 * time.Second
	// DefaultUserAgent is sent when Options.UserAgent is empty.
	DefaultUserAgent = "go-dbx-delta"

	requestIDHeader = "X-Request-ID"
)

// Options configures a transport built by [NewHTTPTransport].
type Options struct {
	// Timeout is the overall deadline of a single request, including reading
	// the body. Zero means no deadline.
	Timeout time.Duration
	// IdleTimeout bounds the wait for response headers once the request has
	// been written. Zero means no limit.
	IdleTimeout time.Duration
	UserAgent   string
	// HTTP2 enables HTTP/2 negotiation over TLS via golang.org/x/net/http2.
	HTTP2 bool

	// headerTimeout overrides IdleTimeout as the response-header timeout.
	headerTimeout time.Duration
}

// ForLongpoll derives the options of the notify transport. A held request
// answers only after the server-side hold plus jitter, so both the header
// wait and the overall deadline are IdleTimeout (DefaultIdleTimeout when
// unset) plus LongpollJitterMargin.
func (o Options) ForLongpoll() Options {
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	budget := o.IdleTimeout + LongpollJitterMargin
	o.Timeout = budget
	o.headerTimeout = budget
	return o
}

// HeaderTimeout reports how long the transport waits for response headers.
func (o Options) HeaderTimeout() time.Duration {
	if o.headerTimeout > 0 {
		return o.headerTimeout
	}
	return o.IdleTimeout
}

type httpTransport struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPTransport constructs a resty-backed [Transport].
//
// The underlying http.Transport uses opts.IdleTimeout as its response-header
// timeout, and the resty client uses opts.Timeout as the overall request
// timeout. Retries are disabled. When opts.HTTP2 is set the transport is
// configured for HTTP/2 over TLS.
func NewHTTPTransport(opts Options, log *logger.Logger) (Transport, error) {
	rt, err := newRoundTripper(opts)
	if err != nil {
		return nil, err
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := utils.NewHTTPClient(rt)
	client.
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", userAgent).
		SetLogger(restyLogger{log: log})

	return &httpTransport{client: client, logger: log}, nil
}

func newRoundTripper(opts Options) (*http.Transport, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: opts.HeaderTimeout(),
	}

	if opts.HTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, fmt.Errorf("configure http2 transport: %w", err)
		}
	}

	return t, nil
}

// Do implements [Transport]. GET requests carry req.Params in the query
// string, POST requests send them as a form-encoded body. The request id
// stored in ctx, if any, is forwarded in the X-Request-ID header.
//
// Returned errors never contain the query string of the request.
func (h *httpTransport) Do(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.URL) == "" {
		return Response{}, ErrEmptyURL
	}

	r := h.client.R().SetContext(ctx)
	if id, ok := utils.GetRequestIDFromContext(ctx); ok {
		r.SetHeader(requestIDHeader, id)
	}

	var (
		resp *resty.Response
		err  error
	)
	switch req.Method {
	case http.MethodGet:
		resp, err = r.SetQueryParams(req.Params).Get(req.URL)
	case http.MethodPost:
		resp, err = r.SetFormData(req.Params).Post(req.URL)
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", req.Method, stripQuery(req.URL), unwrapURLError(err))
	}

	return Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// unwrapURLError drops the *url.Error layer, whose message embeds the full
// request URL including the access token.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

var tokenPattern = regexp.MustCompile(`(access_token=)[^&\s"]*`)

// redactTokens masks access token values in free-form text.
func redactTokens(s string) string {
	return tokenPattern.ReplaceAllString(s, "${1}REDACTED")
}

// restyLogger routes resty's internal messages to zerolog at debug level.
type restyLogger struct {
	log *logger.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Debug().Str("source", "resty").Msg(redactTokens(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Debug().Str("source", "resty").Msg(redactTokens(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug().Str("source", "resty").Msg(redactTokens(fmt.Sprintf(format, v...)))
}
