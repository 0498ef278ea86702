package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/atlanticdynamic/lynxeval/internal/script"
)

// RuntimeMap holds the adapters of one session, keyed by language. Adapters
// are created on first use and kept for the life of the session, which is
// what carries script globals from one request to the next.
//
// A single mutex guards the whole map. It is held from adapter lookup until
// the caller's callback returns, so one session never runs two evaluations at
// once while different sessions never contend.
type RuntimeMap struct {
	mu       sync.Mutex
	adapters map[string]script.Adapter

	registry *script.Registry
	limits   script.Limits
	logger   *slog.Logger
}

func newRuntimeMap(registry *script.Registry, limits script.Limits, logger *slog.Logger) *RuntimeMap {
	return &RuntimeMap{
		adapters: make(map[string]script.Adapter),
		registry: registry,
		limits:   limits,
		logger:   logger,
	}
}

// WithRuntime locks the map, gets or creates the adapter for language and
// calls fn with it. The lock is held until fn returns, so fn may read the
// Values returned by Evaluate.
//
// Unknown languages yield an error wrapping script.ErrUnsupportedLanguage and
// leave the map unchanged. If ctx is done by the time the lock is acquired,
// fn is not called.
func (m *RuntimeMap) WithRuntime(
	ctx context.Context,
	language string,
	fn func(script.Adapter) error,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	adapter, err := m.getOrCreate(language)
	if err != nil {
		return err
	}
	return fn(adapter)
}

// getOrCreate must be called with mu held.
func (m *RuntimeMap) getOrCreate(language string) (script.Adapter, error) {
	if adapter, ok := m.adapters[language]; ok {
		return adapter, nil
	}

	adapter, err := m.registry.New(language, script.Options{
		Logger: m.logger,
		Limits: m.limits,
	})
	if err != nil {
		return nil, err
	}

	m.adapters[language] = adapter
	m.logger.Debug("Runtime created", "language", language)
	return adapter, nil
}

// Languages returns the languages that have an adapter, sorted.
func (m *RuntimeMap) Languages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.adapters))
	for name := range m.adapters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of adapters created so far.
func (m *RuntimeMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.adapters)
}
