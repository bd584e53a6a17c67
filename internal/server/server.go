// Package server exposes the calculators and formula tools over HTTP and
// websockets.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/verte-zerg/calcdeck/internal/model"
	"github.com/verte-zerg/calcdeck/internal/tools"
)

// Recorder persists evaluations and tool runs. *store.Store satisfies it.
type Recorder interface {
	InsertTape(ctx context.Context, entries ...model.TapeEntry) error
	InsertToolRun(ctx context.Context, run model.ToolRun) (int64, error)
}

// Options configures a Server. Registry and Logger default when nil;
// Recorder may stay nil to disable persistence.
type Options struct {
	Registry *tools.Registry
	Recorder Recorder
	Logger   *zap.Logger
	Metrics  *Metrics
}

// Server holds the handlers' shared dependencies.
type Server struct {
	registry *tools.Registry
	recorder Recorder
	logger   *zap.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader
}

// New constructs a Server from opts.
func New(opts Options) *Server {
	s := &Server{
		registry: opts.Registry,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	if s.registry == nil {
		s.registry = tools.NewRegistry()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(TracingMiddleware)
	r.Use(LoggingMiddleware(s.logger, s.metrics))
	r.Use(chimw.Recoverer)

	r.Get("/health", health)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/eval", s.handleEval)
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}", s.handleRunTool)
	})
	r.Get("/ws/{variant}", s.handleWebsocket)

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON {"error": msg} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
