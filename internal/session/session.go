// Package session tracks client sessions and the interpreter instances each
// one owns.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/lynxeval/internal/script"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"
)

// Session is one client's evaluation context.
type Session struct {
	id        string
	createdAt time.Time
	runtimes  *RuntimeMap

	logCollector *loglater.LogCollector
	logger       *slog.Logger
}

func newSession(
	id string,
	registry *script.Registry,
	limits script.Limits,
	handler slog.Handler,
	maxLogRecords int,
) *Session {
	// Everything logged for the session, script output included, is kept
	// in the collector and also passed on to handler. With a cap set, the
	// oldest records are dropped first.
	var collectorOpts []loglater.Option
	if maxLogRecords > 0 {
		collectorOpts = append(collectorOpts,
			loglater.WithStorage(storage.NewRecordStorage(storage.WithMaxSize(maxLogRecords))))
	}
	logCollector := loglater.NewLogCollector(handler, collectorOpts...)
	logger := slog.New(logCollector).With("session", id)

	return &Session{
		id:           id,
		createdAt:    time.Now(),
		runtimes:     newRuntimeMap(registry, limits, logger),
		logCollector: logCollector,
		logger:       logger,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns the time the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Runtimes returns the session's runtime map.
func (s *Session) Runtimes() *RuntimeMap { return s.runtimes }

// Logger returns a logger whose records are kept in the session history.
func (s *Session) Logger() *slog.Logger { return s.logger }

// WithRuntime is shorthand for s.Runtimes().WithRuntime.
func (s *Session) WithRuntime(ctx context.Context, language string, fn func(script.Adapter) error) error {
	return s.runtimes.WithRuntime(ctx, language, fn)
}

// PlayLogs replays the session's log history into handler.
func (s *Session) PlayLogs(handler slog.Handler) error {
	return s.logCollector.PlayLogs(handler)
}

// LogCount returns the number of records in the session history.
func (s *Session) LogCount() int {
	return len(s.logCollector.GetLogs())
}
