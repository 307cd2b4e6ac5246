// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package delta

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/adapter"
	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/internal/providertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCall struct {
	method string
	path   string
	params dbxapi.Params
}

// stubAPI records calls and answers each with the same payload or error.
type stubAPI struct {
	mu    sync.Mutex
	calls []stubCall

	payload dbxapi.Payload
	err     error
}

func (s *stubAPI) record(method, path string, params dbxapi.Params) (dbxapi.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stubCall{method: method, path: path, params: params})
	return s.payload, s.err
}

func (s *stubAPI) Post(_ context.Context, path string, params dbxapi.Params) (dbxapi.Payload, error) {
	return s.record(http.MethodPost, path, params)
}

func (s *stubAPI) GetNotify(_ context.Context, path string, params dbxapi.Params) (dbxapi.Payload, error) {
	return s.record(http.MethodGet, path, params)
}

func (s *stubAPI) Calls() []stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubCall(nil), s.calls...)
}

var creds = Credentials{AccessToken: "t"}

// ── DeltaGet ────────────────────────────────────────────────────────────────

func TestDeltaGet_ZeroCursorOmitted(t *testing.T) {
	api := &stubAPI{payload: payload(t, `{"cursor":"c1","has_more":false,"entries":[]}`)}
	c := NewClient(api, logger.Nop())

	page, err := c.DeltaGet(context.Background(), creds, "/", Cursor{})
	require.NoError(t, err)
	assert.Equal(t, CursorFrom("c1"), page.Cursor())

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/delta", calls[0].path)
	assert.Equal(t, dbxapi.Params{"access_token": "t", "path_prefix": "/"}, calls[0].params)
	_, hasCursor := calls[0].params["cursor"]
	assert.False(t, hasCursor)
}

func TestDeltaGet_CursorVerbatim(t *testing.T) {
	api := &stubAPI{payload: payload(t, `{}`)}
	c := NewClient(api, logger.Nop())

	_, err := c.DeltaGet(context.Background(), creds, "/photos", CursorFrom(" AAE+/= "))
	require.NoError(t, err)

	assert.Equal(t, " AAE+/= ", api.Calls()[0].params["cursor"])
	assert.Equal(t, "/photos", api.Calls()[0].params["path_prefix"])
}

func TestDeltaGet_ErrorKeepsStatus(t *testing.T) {
	api := &stubAPI{err: dbxapi.NewStatus(dbxapi.APIServerError, "oops")}
	c := NewClient(api, logger.Nop())

	page, err := c.DeltaGet(context.Background(), creds, "/", Cursor{})
	assert.True(t, page.Payload().IsZero())
	assert.ErrorIs(t, err, dbxapi.ErrAPIServer)
	code, ok := dbxapi.CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, dbxapi.APIServerError, code)
}

// ── DeltaWait ───────────────────────────────────────────────────────────────

func TestDeltaWait_ZeroCursorPanicsWithoutIO(t *testing.T) {
	api := &stubAPI{}
	c := NewClient(api, logger.Nop())

	assert.Panics(t, func() {
		_, _ = c.DeltaWait(context.Background(), creds, Cursor{})
	})
	assert.Panics(t, func() {
		_ = c.DeltaWaitAsync(context.Background(), creds, Cursor{})
	})
	assert.Empty(t, api.Calls())
}

func TestDeltaWait_Params(t *testing.T) {
	api := &stubAPI{payload: payload(t, `{"changes": true}`)}
	c := NewClient(api, logger.Nop())

	w, err := c.DeltaWait(context.Background(), creds, CursorFrom("c1"))
	require.NoError(t, err)
	assert.True(t, w.Changes())

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].method)
	assert.Equal(t, "/longpoll_delta", calls[0].path)
	assert.Equal(t, dbxapi.Params{"access_token": "t", "cursor": "c1", "timeout": "480"}, calls[0].params)
}

func TestWithLongpollTimeout_Clamped(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{in: 10, want: "30"},
		{in: 120, want: "120"},
		{in: 1000, want: "480"},
	}
	for _, tt := range tests {
		api := &stubAPI{payload: payload(t, `{}`)}
		c := NewClient(api, logger.Nop(), WithLongpollTimeout(tt.in))

		_, err := c.DeltaWait(context.Background(), creds, CursorFrom("c"))
		require.NoError(t, err)
		assert.Equal(t, tt.want, api.Calls()[0].params["timeout"])
	}
}

// ── Async ───────────────────────────────────────────────────────────────────

func TestDeltaGetAsync_OneResultThenClosed(t *testing.T) {
	api := &stubAPI{payload: payload(t, `{"cursor":"c1","has_more":true}`)}
	c := NewClient(api, logger.Nop())

	ch := c.DeltaGetAsync(context.Background(), creds, "/", Cursor{})

	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.True(t, res.Page.HasMore())
	assert.True(t, res.Wait.Payload().IsZero())

	_, ok = <-ch
	assert.False(t, ok)
}

func TestDeltaWaitAsync_DeliversError(t *testing.T) {
	api := &stubAPI{err: dbxapi.NewStatus(dbxapi.Timeout, "")}
	c := NewClient(api, logger.Nop())

	res := <-c.DeltaWaitAsync(context.Background(), creds, CursorFrom("c1"))
	assert.ErrorIs(t, res.Err, dbxapi.ErrTimeout)
}

// ── Against the fake provider ───────────────────────────────────────────────

func newProviderClient(t *testing.T, srv *providertest.Server) *Client {
	t.Helper()
	opts := adapter.Options{Timeout: 5 * time.Second}
	tr, err := adapter.NewHTTPTransport(opts, logger.Nop())
	require.NoError(t, err)
	notify, err := adapter.NewHTTPTransport(adapter.Options{IdleTimeout: 10 * time.Second}.ForLongpoll(), logger.Nop())
	require.NoError(t, err)

	api := dbxapi.NewClient(srv.Endpoints(), tr, logger.Nop(), dbxapi.WithNotifyTransport(notify))
	return NewClient(api, logger.Nop())
}

func TestProvider_DeltaGetFirstPage(t *testing.T) {
	srv := providertest.NewServer(logger.Nop())
	defer srv.Close()
	srv.EnqueueDelta(providertest.Response{Body: `{"cursor":"c1","has_more":false,"entries":[]}`})

	page, err := newProviderClient(t, srv).DeltaGet(context.Background(), creds, "/", Cursor{})

	require.NoError(t, err)
	assert.Equal(t, "c1", page.Cursor().Token())
	assert.False(t, page.HasMore())

	reqs := srv.RequestsTo("/delta")
	require.Len(t, reqs, 1)
	assert.Equal(t, "t", reqs[0].Form.Get("access_token"))
	assert.Equal(t, "/", reqs[0].Form.Get("path_prefix"))
	assert.NotContains(t, reqs[0].Form, "cursor")
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestProvider_InBandUnauthorized(t *testing.T) {
	srv := providertest.NewServer(logger.Nop())
	defer srv.Close()
	srv.EnqueueDelta(providertest.Response{Body: `{"error":"invalid_access_token"}`})

	_, err := newProviderClient(t, srv).DeltaGet(context.Background(), creds, "/", Cursor{})

	var st *dbxapi.Status
	require.True(t, errors.As(err, &st))
	assert.Equal(t, dbxapi.APIRequestUnauthorized, st.Code)
	assert.Equal(t, "invalid_access_token", st.Message)
}

func TestProvider_LongpollTimeoutIsNoChange(t *testing.T) {
	srv := providertest.NewServer(logger.Nop())
	defer srv.Close()
	// The server holds the request, then answers with an empty object.
	srv.EnqueueLongpoll(providertest.Response{Delay: 200 * time.Millisecond, Body: `{}`})

	w, err := newProviderClient(t, srv).DeltaWait(context.Background(), creds, CursorFrom("c1"))

	require.NoError(t, err)
	assert.False(t, w.Changes())

	reqs := srv.RequestsTo("/longpoll_delta")
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "c1", reqs[0].Form.Get("cursor"))
	assert.Equal(t, "480", reqs[0].Form.Get("timeout"))
}

func TestProvider_RateLimit(t *testing.T) {
	srv := providertest.NewServer(logger.Nop())
	defer srv.Close()
	srv.EnqueueDelta(providertest.Response{
		Status: http.StatusTooManyRequests,
		Header: http.Header{"Retry-After": {"30"}},
		Body:   `{"error":"rate_limited"}`,
	})

	_, err := newProviderClient(t, srv).DeltaGet(context.Background(), creds, "/", CursorFrom("c1"))

	var st *dbxapi.Status
	require.True(t, errors.As(err, &st))
	assert.Equal(t, dbxapi.APIRequestRateLimit, st.Code)
	assert.Equal(t, "30", st.Message)
}

func TestProvider_CancelHeldLongpoll(t *testing.T) {
	srv := providertest.NewServer(logger.Nop())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := newProviderClient(t, srv).DeltaWaitAsync(ctx, creds, CursorFrom("c1"))

	require.Eventually(t, func() bool {
		return len(srv.RequestsTo("/longpoll_delta")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case res := <-ch:
		assert.ErrorIs(t, res.Err, dbxapi.ErrCanceled)
		assert.ErrorIs(t, res.Err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled long-poll did not complete")
	}
}

func TestProvider_PagingLoop(t *testing.T) {
	srv := providertest.NewServer(logger.Nop())
	defer srv.Close()
	srv.EnqueueDelta(
		providertest.Response{Body: `{"cursor":"c1","has_more":true,"reset":true,"entries":[["/a",{"path":"/a","bytes":1,"is_dir":false}]]}`},
		providertest.Response{Body: `{"cursor":"c2","has_more":false,"entries":[["/b",null]]}`},
	)
	c := newProviderClient(t, srv)

	var (
		cursor Cursor
		paths  []string
	)
	for {
		page, err := c.DeltaGet(context.Background(), creds, "/", cursor)
		require.NoError(t, err)
		entries, err := page.Entries()
		require.NoError(t, err)
		for _, e := range entries {
			paths = append(paths, e.Path)
		}
		cursor = page.Cursor()
		if !page.HasMore() {
			break
		}
	}

	assert.Equal(t, []string{"/a", "/b"}, paths)
	assert.Equal(t, CursorFrom("c2"), cursor)
	reqs := srv.RequestsTo("/delta")
	require.Len(t, reqs, 2)
	assert.Equal(t, "c1", reqs[1].Form.Get("cursor"))
}
