package script

import (
	"context"
	"log/slog"
	"time"
)

// Adapter wraps one interpreter instance for a single language.
//
// Adapters are not safe for concurrent use. Callers must hold exclusive access
// for the whole of an Evaluate call and for as long as they read the Values it
// returned.
type Adapter interface {
	// Language returns the registry name of the adapter's language.
	Language() string

	// Evaluate runs code against the interpreter's persistent global state.
	// Parse and runtime failures are reported as *EvaluationError; the
	// interpreter remains usable afterwards.
	Evaluate(ctx context.Context, code string) (Value, error)
}

// Limits bounds a single evaluation. The zero value means unbounded.
type Limits struct {
	// MaxSteps caps the number of interpreter steps, when the language
	// supports step counting.
	MaxSteps uint64

	// Timeout cancels an evaluation that runs longer than this.
	Timeout time.Duration
}

// Unbounded reports whether no limit is set.
func (l Limits) Unbounded() bool {
	return l.MaxSteps == 0 && l.Timeout <= 0
}

// Options is passed to a Factory when a session first asks for a language.
type Options struct {
	// Logger receives script output (such as print) and adapter diagnostics.
	Logger *slog.Logger

	// Limits applies to every evaluation on the created adapter.
	Limits Limits

	// Prelude is source code executed once when the adapter is created.
	Prelude string
}

// Factory creates a fresh adapter.
type Factory func(opts Options) (Adapter, error)
