// Package dispatch connects transport requests to sessions, adapters and the
// response serializer.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/lynxeval/internal/metrics"
	"github.com/atlanticdynamic/lynxeval/internal/response"
	"github.com/atlanticdynamic/lynxeval/internal/script"
	"github.com/atlanticdynamic/lynxeval/internal/session"
	"golang.org/x/sync/semaphore"
)

// Outcome classifies an evaluation request for logs and metrics.
type Outcome string

const (
	OutcomeSuccess             Outcome = "success"
	OutcomeEvaluationError     Outcome = "evaluation_error"
	OutcomeLimitExceeded       Outcome = "limit_exceeded"
	OutcomeSerializationError  Outcome = "serialization_error"
	OutcomeUnsupportedLanguage Outcome = "unsupported_language"
	OutcomeSessionNotFound     Outcome = "session_not_found"
	OutcomeStartError          Outcome = "start_error"
	OutcomeCanceled            Outcome = "canceled"
	OutcomeInternal            Outcome = "internal_error"
)

// unknownLanguageLabel replaces client supplied language names that are not
// registered, to keep metric cardinality bounded.
const unknownLanguageLabel = "unknown"

// Dispatcher runs evaluation requests against a session store.
type Dispatcher struct {
	store         *session.Store
	registry      *script.Registry
	metrics       *metrics.Collector
	maxConcurrent int64
	sem           *semaphore.Weighted
	logger        *slog.Logger
}

// New creates a Dispatcher. The store and registry are shared with the caller.
func New(store *session.Store, registry *script.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		registry: registry,
		logger:   slog.Default().WithGroup("dispatch.Dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxConcurrent > 0 {
		d.sem = semaphore.NewWeighted(d.maxConcurrent)
	}
	return d
}

// NewSession creates a session and returns its id.
func (d *Dispatcher) NewSession(ctx context.Context) (string, error) {
	id, err := d.store.Create()
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to create session", "error", err)
		return "", err
	}
	d.metrics.SessionCreated()
	d.logger.DebugContext(ctx, "Session created", "session", id, "sessions", d.store.Len())
	return id, nil
}

// Evaluate runs code in the given session and language and serializes the
// result.
//
// The returned Response is always usable: every failure is also reported as a
// Failure response carrying the client-facing message. The error is returned
// so callers can classify the failure with errors.Is against
// session.ErrSessionNotFound, script.ErrUnsupportedLanguage,
// script.ErrEvaluation, script.ErrRuntimeStart and response.ErrSerialization.
func (d *Dispatcher) Evaluate(
	ctx context.Context,
	sessionID, language, code string,
) (response.Response, error) {
	start := time.Now()
	logger := d.logger

	sess, err := d.store.Get(sessionID)
	var resp response.Response
	if err == nil {
		logger = sess.Logger()
		resp, err = d.evaluate(ctx, sess, language, code)
	}
	if err != nil {
		resp = failure(sessionID, language, err)
	}

	elapsed := time.Since(start)
	outcome := Classify(err)
	d.metrics.ObserveEvaluation(d.languageLabel(language), string(outcome), elapsed)

	attrs := []any{
		"language", language,
		"outcome", outcome,
		"duration", elapsed,
	}
	if err != nil {
		logger.WarnContext(ctx, "Evaluation failed", append(attrs, "error", err)...)
	} else {
		logger.InfoContext(ctx, "Evaluation finished", append(attrs, "objects", len(resp.Objects))...)
	}
	return resp, err
}

func (d *Dispatcher) evaluate(
	ctx context.Context,
	sess *session.Session,
	language, code string,
) (response.Response, error) {
	var resp response.Response
	err := sess.WithRuntime(ctx, language, func(adapter script.Adapter) error {
		// only evaluations holding their session lock count against the
		// cap, so requests queued on a busy session never starve others
		if d.sem != nil {
			if err := d.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer d.sem.Release(1)
		}

		value, err := adapter.Evaluate(ctx, code)
		if err != nil {
			return err
		}
		// the value graph belongs to the interpreter, so it is walked
		// before the session lock is released
		resp, err = response.Encode(value)
		return err
	})
	return resp, err
}

// Languages returns the registered language names.
func (d *Dispatcher) Languages() []string {
	return d.registry.Languages()
}

// PlaySessionLogs replays the log history of a session into handler.
func (d *Dispatcher) PlaySessionLogs(sessionID string, handler slog.Handler) error {
	sess, err := d.store.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.PlayLogs(handler)
}

func (d *Dispatcher) languageLabel(language string) string {
	if d.registry.Has(language) {
		return language
	}
	return unknownLanguageLabel
}

// Classify maps an error returned by Evaluate to an Outcome. A nil error is
// OutcomeSuccess.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, session.ErrSessionNotFound):
		return OutcomeSessionNotFound
	case errors.Is(err, script.ErrUnsupportedLanguage):
		return OutcomeUnsupportedLanguage
	case errors.Is(err, script.ErrRuntimeStart):
		// checked first: a failing prelude is also an evaluation error
		return OutcomeStartError
	case errors.Is(err, script.ErrLimitExceeded):
		return OutcomeLimitExceeded
	case errors.Is(err, script.ErrEvaluation):
		return OutcomeEvaluationError
	case errors.Is(err, response.ErrSerialization):
		return OutcomeSerializationError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeInternal
	}
}

// failure builds the client-facing Failure for err.
func failure(sessionID, language string, err error) response.Response {
	switch Classify(err) {
	case OutcomeSessionNotFound:
		return response.Failure(fmt.Sprintf("session `%s` not found", sessionID))
	case OutcomeUnsupportedLanguage:
		return response.Failure(fmt.Sprintf("language `%s` not supported", language))
	case OutcomeCanceled:
		return response.Failure(fmt.Sprintf("request canceled: %v", err))
	default:
		return response.FailureFromError(err)
	}
}
