package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/atlanticdynamic/lynxeval/internal/script"
	"github.com/stretchr/testify/require"
)

// counterAdapter counts its evaluations and flags overlapping calls.
type counterAdapter struct {
	lang    string
	evals   int
	active  atomic.Int32
	overlap atomic.Bool
	logger  *slog.Logger
}

func (a *counterAdapter) Language() string { return a.lang }

func (a *counterAdapter) Evaluate(_ context.Context, code string) (script.Value, error) {
	if a.active.Add(1) > 1 {
		a.overlap.Store(true)
	}
	defer a.active.Add(-1)

	a.evals++
	if a.logger != nil {
		a.logger.Info("print", "message", code)
	}
	return script.Number(float64(a.evals)), nil
}

type countingFactory struct {
	mu      sync.Mutex
	created []*counterAdapter
}

func (f *countingFactory) factory(lang string) script.Factory {
	return func(opts script.Options) (script.Adapter, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		a := &counterAdapter{lang: lang, logger: opts.Logger}
		f.created = append(f.created, a)
		return a, nil
	}
}

func (f *countingFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func newTestRegistry(t *testing.T) (*script.Registry, *countingFactory) {
	t.Helper()
	f := &countingFactory{}
	r := script.NewRegistry()
	require.NoError(t, r.Register("fake", f.factory("fake")))
	require.NoError(t, r.Register("other", f.factory("other")))
	return r, f
}
