// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package providertest runs an in-process fake of the provider's delta and
// long-poll endpoints with scripted responses.
//
// The API family is served under /1 and the notify family under /notify/1,
// so a request sent to the wrong family gets a 404.
package providertest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/MKhiriev/go-dbx-delta/internal/dbxapi"
	"github.com/MKhiriev/go-dbx-delta/internal/logger"
	"github.com/MKhiriev/go-dbx-delta/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	apiPrefix    = "/1"
	notifyPrefix = "/notify/1"
)

// Response is one scripted reply.
type Response struct {
	// Status defaults to 200.
	Status int
	Header http.Header
	// Body is written verbatim when it is a string, []byte or
	// json.RawMessage, and JSON-encoded otherwise.
	Body any
	// Delay holds the reply back. The wait ends early when the client goes
	// away or the server is closed.
	Delay time.Duration
}

// RecordedRequest is a request as seen by the fake.
type RecordedRequest struct {
	Method    string
	Path      string
	RequestID string
	Form      url.Values
	At        time.Time
}

// Server is a running fake provider.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	deltas      []Response
	longpolls   []Response
	requests    []RecordedRequest
	accessToken string

	done      chan struct{}
	closeOnce sync.Once

	logger *logger.Logger
}

// Option customises a Server.
type Option func(*Server)

// WithAccessToken makes the fake reject requests that carry a different
// access token with an in-band invalid_access_token error.
func WithAccessToken(token string) Option {
	return func(s *Server) {
		s.accessToken = token
	}
}

// NewServer starts a fake provider. Callers must Close it.
func NewServer(log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		done:   make(chan struct{}),
		logger: log,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.withLogging)
	router.Use(s.withRecording)

	router.Post(apiPrefix+"/delta", s.delta)
	router.Get(notifyPrefix+"/longpoll_delta", s.longpoll)

	return router
}

// Endpoints returns base URLs that point both families at the fake.
func (s *Server) Endpoints() dbxapi.Endpoints {
	return dbxapi.Endpoints{API: s.URL + apiPrefix, Notify: s.URL + notifyPrefix}
}

// EnqueueDelta appends replies for POST /delta.
func (s *Server) EnqueueDelta(responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deltas = append(s.deltas, responses...)
}

// EnqueueLongpoll appends replies for GET /longpoll_delta.
func (s *Server) EnqueueLongpoll(responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.longpolls = append(s.longpolls, responses...)
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the recorded requests whose path ends in the given
// endpoint, for example "/delta".
func (s *Server) RequestsTo(endpoint string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Path == apiPrefix+endpoint || r.Path == notifyPrefix+endpoint {
			out = append(out, r)
		}
	}
	return out
}

// Close releases held long-polls and shuts the server down.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.Server.Close()
}

func (s *Server) delta(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}

	resp, ok := s.next(&s.deltas)
	if !ok {
		_, _ = utils.WriteJSON(w, map[string]string{"error": "providertest: no scripted delta response"}, http.StatusBadRequest)
		return
	}
	s.reply(w, r, resp)
}

// longpoll holds the request until the client disconnects or the server
// closes when nothing is scripted, like a long-poll with no changes.
func (s *Server) longpoll(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}

	resp, ok := s.next(&s.longpolls)
	if !ok {
		select {
		case <-r.Context().Done():
		case <-s.done:
		}
		return
	}
	s.reply(w, r, resp)
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if s.accessToken == "" || r.Form.Get("access_token") == s.accessToken {
		return true
	}
	_, _ = utils.WriteJSON(w, map[string]string{"error": "invalid_access_token"}, http.StatusOK)
	return false
}

func (s *Server) next(queue *[]Response) (Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(*queue) == 0 {
		return Response{}, false
	}
	resp := (*queue)[0]
	*queue = (*queue)[1:]
	return resp, true
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request, resp Response) {
	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		}
	}

	for k, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	body := resp.Body
	if str, ok := body.(string); ok {
		body = []byte(str)
	}
	if _, err := utils.WriteJSON(w, body, status); err != nil {
		s.logger.Error().Err(err).Msg("providertest: write response")
	}
}
