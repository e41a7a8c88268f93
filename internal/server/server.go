// Package server exposes the tracker over HTTP so editors and agents on
// the same machine can drive the task lifecycle without shelling out.
// Operations are dispatched RPC-style: POST /docket.v1.TrackerService/<Op>
// with a JSON body, authenticated by bearer token.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/docket/internal/core/issue"
	"github.com/colonyops/docket/internal/docket"
)

const servicePrefix = "/docket.v1.TrackerService/"

// Server serves the tracker dispatch endpoints. A store watcher may be
// attached to keep the issue listing cache fresh when documents are
// edited outside the process.
type Server struct {
	tracker *docket.TrackerService
	addr    string
	token   string
	log     zerolog.Logger

	cache listingCache

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server. token must be non-empty; the tracker never
// listens unauthenticated.
func New(tracker *docket.TrackerService, addr, token string, log zerolog.Logger) (*Server, error) {
	if token == "" {
		return nil, fmt.Errorf("server token is required")
	}

	return &Server{
		tracker: tracker,
		addr:    addr,
		token:   token,
		log:     log.With().Str("cmp", "server").Logger(),
	}, nil
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = httpServer
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", listener.Addr().String()).Msg("listening")

	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// InvalidateListing drops the cached issue listing. Wired to the store
// watcher so external edits show up in ListIssues without a restart.
func (s *Server) InvalidateListing() {
	s.cache.invalidate()
}

// Handler builds the dispatch mux. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc(servicePrefix, s.handleDispatch)
	return mux
}

// handleHealth handles GET /healthz. No auth so supervisors can probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	if !s.authorized(r) {
		s.writeError(w, http.StatusUnauthorized, "invalid or missing bearer token", "")
		return
	}

	op := strings.TrimPrefix(r.URL.Path, servicePrefix)
	log := s.log.With().Str("op", op).Logger()

	result, err := s.dispatch(r, op)
	if err != nil {
		status, msg, hint := errorResponse(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("operation failed")
		} else {
			log.Debug().Err(err).Msg("operation rejected")
		}
		s.writeError(w, status, msg, hint)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) dispatch(r *http.Request, op string) (any, error) {
	ctx := r.Context()

	switch op {
	case "CompleteTask":
		res, err := s.tracker.CompleteCurrentTask(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.invalidate()
		return res, nil

	case "NextTask":
		preview, err := s.tracker.NextTask(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"issue": preview.Issue.Number,
			"title": preview.Issue.Title,
			"task":  preview.Task,
		}, nil

	case "ListIssues":
		return s.listIssues(ctx)

	case "ShowIssue":
		var req struct {
			Number string `json:"number"`
		}
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		iss, err := s.tracker.GetIssue(ctx, req.Number)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"number":  iss.Number,
			"title":   iss.Title,
			"status":  iss.Status,
			"content": iss.Content,
		}, nil

	case "SetCurrent":
		var req struct {
			Number string `json:"number"`
		}
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		if err := s.tracker.SetCurrent(ctx, req.Number); err != nil {
			return nil, err
		}
		s.cache.invalidate()
		return map[string]string{"current": req.Number}, nil

	default:
		return nil, &issue.UsageError{
			Msg:  fmt.Sprintf("unknown operation %q", op),
			Hint: "operations: CompleteTask, NextTask, ListIssues, ShowIssue, SetCurrent",
		}
	}
}

func (s *Server) listIssues(ctx context.Context) ([]docket.IssueSummary, error) {
	if rows, ok := s.cache.get(); ok {
		return rows, nil
	}

	rows, err := s.tracker.ListIssues(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.set(rows)
	return rows, nil
}

func (s *Server) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	return ok && token == s.token
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, hint string) {
	body := map[string]any{"message": msg}
	if hint != "" {
		body["hint"] = hint
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": body})
}

// decodeBody reads a JSON request body. Empty bodies decode to the zero
// request so argument-less calls can POST without one.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &badRequestError{err: err}
	}
	return nil
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return "invalid request body: " + e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// errorResponse maps domain errors onto HTTP statuses: workflow misuse
// is a client problem, storage failures are the server's.
func errorResponse(err error) (status int, msg, hint string) {
	var usage *issue.UsageError
	var badReq *badRequestError

	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest, badReq.Error(), ""
	case errors.As(err, &usage):
		return http.StatusConflict, usage.Msg, usage.Hint
	case errors.Is(err, issue.ErrNotFound):
		return http.StatusNotFound, err.Error(), ""
	default:
		return http.StatusInternalServerError, err.Error(), ""
	}
}

// listingCache caches the open-issue listing between mutations and
// watcher invalidations.
type listingCache struct {
	mu    sync.Mutex
	valid bool
	rows  []docket.IssueSummary
}

func (c *listingCache) get() ([]docket.IssueSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows, c.valid
}

func (c *listingCache) set(rows []docket.IssueSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows, c.valid = rows, true
}

func (c *listingCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows, c.valid = nil, false
}
