// Package server wires the evaluation service together and runs it under a supervisor.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	supervisorhttp "github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/lynxeval/internal/config"
	"github.com/atlanticdynamic/lynxeval/internal/dispatch"
	"github.com/atlanticdynamic/lynxeval/internal/metrics"
	"github.com/atlanticdynamic/lynxeval/internal/script"
	"github.com/atlanticdynamic/lynxeval/internal/script/starlark"
	"github.com/atlanticdynamic/lynxeval/internal/server/api"
	"github.com/atlanticdynamic/lynxeval/internal/server/httpserver"
	"github.com/atlanticdynamic/lynxeval/internal/server/middleware/headers"
	"github.com/atlanticdynamic/lynxeval/internal/server/middleware/logger"
	"github.com/atlanticdynamic/lynxeval/internal/session"
)

// ErrUnknownLanguage is returned when the config enables a language this build has no runtime for.
var ErrUnknownLanguage = errors.New("no runtime available for language")

// factories lists the runtimes compiled into this build.
var factories = map[string]script.Factory{
	starlark.Language: starlark.Factory,
}

// Service holds the assembled components. Everything is built by New; Run
// only starts the HTTP runnable.
type Service struct {
	Registry   *script.Registry
	Store      *session.Store
	Dispatcher *dispatch.Dispatcher
	API        *api.Handler
	HTTP       *httpserver.HTTPServer

	logHandler slog.Handler
}

// New builds the registry, session store, dispatcher, API and HTTP server from cfg.
func New(cfg *config.Config, logHandler slog.Handler, version string) (*Service, error) {
	if logHandler == nil {
		logHandler = slog.Default().Handler()
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(registry,
		session.WithLogHandler(logHandler),
		session.WithLimits(cfg.Limits.Script()),
		session.WithMaxLogRecords(cfg.Limits.SessionLogRecords),
	)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.New(promRegistry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	dispatcher := dispatch.New(store, registry,
		dispatch.WithLogHandler(logHandler),
		dispatch.WithMetrics(collector),
		dispatch.WithMaxConcurrent(cfg.Limits.MaxConcurrent),
	)

	apiOpts := []api.Option{
		api.WithLogHandler(logHandler),
		api.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	}
	if cfg.HTTP.Metrics {
		apiOpts = append(apiOpts, api.WithMetricsHandler(metrics.Handler(promRegistry)))
	}
	if cfg.HTTP.MCP {
		apiOpts = append(apiOpts, api.WithMCPHandler(api.NewMCPHandler(api.NewMCPServer(dispatcher, version))))
	}
	handler := api.New(dispatcher, apiOpts...)

	headersMW, err := headers.New(&cfg.HTTP.Headers)
	if err != nil {
		return nil, err
	}
	// the access log is outermost, so the logged status includes everything below it
	var middlewares []supervisorhttp.HandlerFunc
	if accessLog := logger.New(&cfg.HTTP.AccessLog, logHandler); accessLog != nil {
		middlewares = append(middlewares, accessLog.Middleware())
	}
	middlewares = append(middlewares, headersMW)

	httpServer, err := httpserver.NewHTTPServer("api", cfg.HTTP, handler,
		httpserver.WithLogHandler(logHandler),
		httpserver.WithMiddlewares(middlewares...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &Service{
		Registry:   registry,
		Store:      store,
		Dispatcher: dispatcher,
		API:        handler,
		HTTP:       httpServer,
		logHandler: logHandler,
	}, nil
}

func newRegistry(cfg *config.Config) (*script.Registry, error) {
	registry := script.NewRegistry()

	for _, name := range cfg.EnabledLanguages() {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
		}
		if err := registry.Register(name, factory); err != nil {
			return nil, err
		}

		uri := cfg.Languages[name].PreludeURI
		if uri == "" {
			continue
		}
		source, err := script.LoadSource(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s prelude: %w", name, err)
		}
		registry.SetPrelude(name, source)
	}

	return registry, nil
}

// Run starts the HTTP server under a supervisor and blocks until ctx is
// cancelled or a shutdown signal arrives.
func (s *Service) Run(ctx context.Context) error {
	logger := slog.New(s.logHandler)

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(s.logHandler),
		supervisor.WithRunnables(s.HTTP),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	logger.Info("Starting lynxeval", "address", s.HTTP.GetAddress(), "languages", s.Registry.Languages())
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete", "sessions", s.Store.Len())
	return nil
}

// Run is New followed by Service.Run.
func Run(ctx context.Context, cfg *config.Config, logHandler slog.Handler, version string) error {
	svc, err := New(cfg, logHandler, version)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
