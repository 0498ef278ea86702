// Package httpserver runs the API handler as a go-supervisor runnable.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/lynxeval/internal/config"
)

var (
	_ supervisor.Runnable  = (*HTTPServer)(nil)
	_ supervisor.Stateable = (*HTTPServer)(nil)
)

// ErrNilHandler is returned when no API handler is supplied.
var ErrNilHandler = errors.New("http handler cannot be nil")

// rootPath routes every request to the API handler, which does its own routing.
const rootPath = "/"

// serverImplementation abstracts the go-supervisor runner so tests can swap it.
type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsRunning() bool
	GetStateChan(ctx context.Context) <-chan string
}

// HTTPServer wraps the go-supervisor httpserver.Runner.
type HTTPServer struct {
	id     string
	server serverImplementation
	logger *slog.Logger

	mutex       sync.Mutex
	cfg         config.HTTP
	route       httpserver.Route
	middlewares []httpserver.HandlerFunc
}

// Option configures an HTTPServer.
type Option func(*HTTPServer)

// WithLogHandler sets the handler for the server's own lifecycle logs.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *HTTPServer) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("httpserver.HTTPServer").With("id", s.id)
		}
	}
}

// WithMiddlewares wraps the handler; the first middleware runs outermost.
// Nil entries are skipped.
func WithMiddlewares(middlewares ...httpserver.HandlerFunc) Option {
	return func(s *HTTPServer) {
		for _, mw := range middlewares {
			if mw != nil {
				s.middlewares = append(s.middlewares, mw)
			}
		}
	}
}

// NewHTTPServer serves handler on cfg.Address with cfg's timeouts.
func NewHTTPServer(id string, cfg config.HTTP, handler http.Handler, opts ...Option) (*HTTPServer, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	s := &HTTPServer{
		id:     id,
		cfg:    cfg,
		logger: slog.Default().WithGroup("httpserver.HTTPServer").With("id", id),
	}
	for _, opt := range opts {
		opt(s)
	}

	route, err := httpserver.NewRouteFromHandlerFunc(id, rootPath, handler.ServeHTTP, s.middlewares...)
	if err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	s.route = *route

	if err := s.initializeRunner(); err != nil {
		return nil, fmt.Errorf("failed to initialize HTTP server runner: %w", err)
	}
	return s, nil
}

// initializeRunner creates and initializes the underlying httpserver.Runner
func (s *HTTPServer) initializeRunner() error {
	configCallback := func() (*httpserver.Config, error) {
		s.mutex.Lock()
		cfg := s.cfg
		routes := []httpserver.Route{s.route}
		s.mutex.Unlock()

		var options []httpserver.ConfigOption
		if d := cfg.ReadTimeout.AsDuration(); d > 0 {
			options = append(options, httpserver.WithReadTimeout(d))
		}
		if d := cfg.WriteTimeout.AsDuration(); d > 0 {
			options = append(options, httpserver.WithWriteTimeout(d))
		}
		if d := cfg.IdleTimeout.AsDuration(); d > 0 {
			options = append(options, httpserver.WithIdleTimeout(d))
		}
		if d := cfg.DrainTimeout.AsDuration(); d > 0 {
			options = append(options, httpserver.WithDrainTimeout(d))
		}

		hcfg, err := httpserver.NewConfig(cfg.Address, routes, options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
		}
		return hcfg, nil
	}

	runner, err := httpserver.NewRunner(httpserver.WithConfigCallback(configCallback))
	if err != nil {
		return fmt.Errorf("failed to create HTTP server runner: %w", err)
	}

	s.server = runner
	return nil
}

// String returns a unique identifier for this server
func (s *HTTPServer) String() string {
	return fmt.Sprintf("HTTPServer[%s]", s.id)
}

// Run starts the HTTP server and blocks until ctx is done or the server fails.
func (s *HTTPServer) Run(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", "address", s.GetAddress(), "middlewares", len(s.middlewares))
	return s.server.Run(ctx)
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop() {
	s.logger.Info("Stopping HTTP server", "address", s.GetAddress())
	s.server.Stop()
}

// GetState returns the current state of the server
func (s *HTTPServer) GetState() string {
	if s.server == nil {
		return "unknown"
	}
	return s.server.GetState()
}

// IsRunning returns whether the server is running
func (s *HTTPServer) IsRunning() bool {
	if s.server == nil {
		return false
	}
	return s.server.IsRunning()
}

// GetStateChan returns a channel that emits state changes
func (s *HTTPServer) GetStateChan(ctx context.Context) <-chan string {
	if s.server == nil {
		ch := make(chan string)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch
	}
	return s.server.GetStateChan(ctx)
}

// GetID returns the ID of this HTTP server
func (s *HTTPServer) GetID() string {
	return s.id
}

// GetAddress returns the address this server listens on
func (s *HTTPServer) GetAddress() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cfg.Address
}
