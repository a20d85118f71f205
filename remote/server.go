// Package remote serves an HTTP API for controlling a running player: listing
// nodes, copying and pasting snapshots, toggling playback and exposing
// metrics.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/engine"
	"github.com/looptunes/looptunes/snapshot"
	"github.com/looptunes/looptunes/stream"
)

const (
	maxPasteSize = 1 << 20
	replyTimeout = 2 * time.Second
)

// Engine is the part of *engine.Engine the server talks to.
type Engine interface {
	Send(ev engine.Event) bool
	Stats() engine.Stats
}

var (
	errQueueFull = errors.New("engine event queue is full")
	errTimeout   = errors.New("engine did not reply in time")
)

type Server struct {
	router  *chi.Mux
	engine  Engine
	logger  *slog.Logger
	metrics *metrics
	timeout time.Duration
}

// New creates a server for e. source may be nil when no audio device reads
// the stream.
func New(e Engine, backend *stream.Backend, source *stream.Source, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		router:  chi.NewRouter(),
		engine:  e,
		logger:  logger,
		metrics: newMetrics(reg, e, backend, source),
		timeout: replyTimeout,
	}
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/nodes", s.handleNodes)
	r.Get("/nodes/{id}/snapshot", s.handleSnapshot)
	r.Post("/nodes/{id}/toggle", s.handleToggle)
	r.Post("/paste", s.handlePaste)
	r.Post("/stop", s.handleStop)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()
	s.logger.Info("remote control listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	<-done
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", ww.Status()),
			slog.Duration("took", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	reply := make(chan []engine.NodeInfo, 1)
	nodes, err := request(s, "list", engine.List{Reply: reply}, reply)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	reply := make(chan engine.Result, 1)
	res, err := request(s, "copy", engine.Copy{ID: id, Reply: reply}, reply)
	if err == nil {
		err = res.Err
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, res.Text)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	reply := make(chan engine.Result, 1)
	res, err := request(s, "toggle", engine.TogglePlay{ID: id, Reply: reply}, reply)
	if err == nil {
		err = res.Err
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"id": res.ID, "playing": res.Playing})
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	var at looptunes.Position
	for _, p := range []struct {
		name string
		dst  *float32
	}{{"x", &at.X}, {"y", &at.Y}} {
		v := r.URL.Query().Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			http.Error(w, fmt.Sprintf("bad %s coordinate", p.name), http.StatusBadRequest)
			return
		}
		*p.dst = float32(f)
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPasteSize))
	if err != nil {
		http.Error(w, "snapshot too large", http.StatusRequestEntityTooLarge)
		return
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		http.Error(w, "empty snapshot", http.StatusBadRequest)
		return
	}
	reply := make(chan engine.Result, 1)
	res, err := request(s, "paste", engine.Paste{Text: text, At: at, Reply: reply}, reply)
	if err == nil {
		err = res.Err
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": res.ID})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.engine.Send(engine.StopAll{}) {
		s.fail(w, errQueueFull)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// request sends ev and waits for its reply.
func request[T any](s *Server, name string, ev engine.Event, reply <-chan T) (T, error) {
	var zero T
	if !s.engine.Send(ev) {
		s.metrics.queueFull.Inc()
		return zero, errQueueFull
	}
	timer := prometheus.NewTimer(s.metrics.replyLatency.WithLabelValues(name))
	v, ok := engine.TimeoutReceive(reply, s.timeout)
	timer.ObserveDuration()
	if !ok {
		return zero, errTimeout
	}
	return v, nil
}

func (s *Server) nodeID(w http.ResponseWriter, r *http.Request) (looptunes.NodeID, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		http.Error(w, "bad node id", http.StatusBadRequest)
		return looptunes.NoNode, false
	}
	return looptunes.NodeID(id), true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, looptunes.ErrNoSuchNode), errors.Is(err, snapshot.ErrEmpty):
		status = http.StatusNotFound
	case errors.Is(err, snapshot.ErrEncoding), errors.Is(err, snapshot.ErrCompression),
		errors.Is(err, snapshot.ErrTooLarge), errors.Is(err, snapshot.ErrMalformed):
		status = http.StatusBadRequest
	case errors.Is(err, errQueueFull):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errTimeout):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.Any("error", err))
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("could not encode response", slog.Any("error", err))
	}
}
