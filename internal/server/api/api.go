// Package api implements the HTTP surface of the service: session creation,
// evaluation, and a few read-only supporting endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/atlanticdynamic/lynxeval/internal/response"
	"github.com/gorilla/mux"
)

// defaultMaxBodyBytes bounds the size of an evaluation request body.
const defaultMaxBodyBytes = 1 << 20

// Evaluator is the part of dispatch.Dispatcher the handlers use.
type Evaluator interface {
	NewSession(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, sessionID, language, code string) (response.Response, error)
	Languages() []string
	PlaySessionLogs(sessionID string, handler slog.Handler) error
}

// Handler routes API requests.
type Handler struct {
	evaluator      Evaluator
	logger         *slog.Logger
	metricsHandler http.Handler
	mcpHandler     http.Handler
	maxBodyBytes   int64
	router         *mux.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogHandler sets the handler for API logs.
func WithLogHandler(handler slog.Handler) Option {
	return func(h *Handler) {
		if handler != nil {
			h.logger = slog.New(handler).WithGroup("api.Handler")
		}
	}
}

// WithMetricsHandler serves handler at GET /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(h *Handler) {
		h.metricsHandler = handler
	}
}

// WithMCPHandler serves handler under /mcp.
func WithMCPHandler(handler http.Handler) Option {
	return func(h *Handler) {
		h.mcpHandler = handler
	}
}

// WithMaxBodyBytes limits evaluation request bodies to n bytes.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// New builds the API router around ev.
func New(ev Evaluator, opts ...Option) *Handler {
	h := &Handler{
		evaluator:    ev,
		logger:       slog.Default().WithGroup("api.Handler"),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := mux.NewRouter()
	r.HandleFunc("/new", h.handleNewSession).Methods(http.MethodPost)
	r.HandleFunc("/eval/{session}/{lang}", h.handleEvaluate).Methods(http.MethodPost)
	r.HandleFunc("/languages", h.handleLanguages).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session}/logs", h.handleSessionLogs).Methods(http.MethodGet)
	if h.metricsHandler != nil {
		r.Handle("/metrics", h.metricsHandler).Methods(http.MethodGet)
	}
	if h.mcpHandler != nil {
		r.PathPrefix("/mcp").Handler(h.mcpHandler)
	}
	r.NotFoundHandler = http.HandlerFunc(h.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.handleMethodNotAllowed)
	h.router = r

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}
