// Package starlark provides the Starlark language adapter.
//
// Each Adapter owns one interpreter thread and one set of module globals.
// Every call to Evaluate runs a chunk of source against those globals in the
// style of a REPL: top-level assignments persist for later calls, nothing is
// frozen, and if the chunk ends in an expression statement that expression's
// value is the result.
package starlark

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/atlanticdynamic/lynxeval/internal/script"
	lark "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Language is the registry name of this adapter.
const Language = "starlark"

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

var _ script.Adapter = (*Adapter)(nil)

// Adapter evaluates Starlark source against persistent module globals.
type Adapter struct {
	thread  *lark.Thread
	globals lark.StringDict
	limits  script.Limits
	logger  *slog.Logger

	chunks   int
	limitHit atomic.Bool
}

// New creates an adapter and runs opts.Prelude, if any.
func New(opts script.Options) (*Adapter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("language", Language)

	a := &Adapter{
		globals: make(lark.StringDict),
		limits:  opts.Limits,
		logger:  logger,
	}
	a.thread = &lark.Thread{
		Name: Language,
		Print: func(_ *lark.Thread, msg string) {
			a.logger.Info("print", "message", msg)
		},
		OnMaxSteps: func(thread *lark.Thread) {
			a.limitHit.Store(true)
			thread.Cancel("too many steps")
		},
	}

	if opts.Prelude != "" {
		if _, err := a.Evaluate(context.Background(), opts.Prelude); err != nil {
			return nil, fmt.Errorf("prelude failed: %w", err)
		}
		logger.Debug("Prelude loaded", "globals", len(a.globals))
	}
	return a, nil
}

// Factory adapts New to script.Factory.
func Factory(opts script.Options) (script.Adapter, error) {
	a, err := New(opts)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Language implements script.Adapter.
func (a *Adapter) Language() string {
	return Language
}

// Evaluate implements script.Adapter.
func (a *Adapter) Evaluate(ctx context.Context, code string) (script.Value, error) {
	a.chunks++
	f, err := fileOptions.Parse(fmt.Sprintf("<chunk %d>", a.chunks), code, 0)
	if err != nil {
		return script.Null(), script.NewEvaluationError(Language, err)
	}

	disarm := a.arm(ctx)
	result, err := a.exec(f)
	disarm()

	if err != nil {
		if a.limitHit.Load() {
			err = fmt.Errorf("%w: %w", script.ErrLimitExceeded, err)
		}
		return script.Null(), script.NewEvaluationError(Language, err)
	}
	return toValue(result), nil
}

// Globals returns the names currently bound at module level.
func (a *Adapter) Globals() []string {
	return a.globals.Keys()
}

// exec runs all statements of f. A trailing expression statement is split off
// and evaluated separately so its value can be returned.
func (a *Adapter) exec(f *syntax.File) (lark.Value, error) {
	var tail syntax.Expr
	if n := len(f.Stmts); n > 0 {
		if stmt, ok := f.Stmts[n-1].(*syntax.ExprStmt); ok {
			tail = stmt.X
			f.Stmts = f.Stmts[:n-1]
		}
	}

	if len(f.Stmts) > 0 {
		if err := lark.ExecREPLChunk(f, a.thread, a.globals); err != nil {
			return nil, err
		}
	}

	if tail == nil {
		return lark.None, nil
	}
	return lark.EvalExprOptions(fileOptions, a.thread, tail, a.globals)
}

// arm resets the thread's cancellation state and applies the configured
// limits for one evaluation. The returned func releases the timeout watcher.
func (a *Adapter) arm(ctx context.Context) func() {
	a.thread.Uncancel()
	a.limitHit.Store(false)

	if a.limits.MaxSteps > 0 {
		a.thread.SetMaxExecutionSteps(a.thread.ExecutionSteps() + a.limits.MaxSteps)
	}

	if a.limits.Timeout <= 0 {
		return func() {}
	}

	// request cancellation does not stop a running evaluation; only the timeout does
	timeoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.limits.Timeout)
	stop := context.AfterFunc(timeoutCtx, func() {
		a.limitHit.Store(true)
		a.thread.Cancel(fmt.Sprintf("timeout after %s", a.limits.Timeout))
	})
	return func() {
		stop()
		cancel()
	}
}
