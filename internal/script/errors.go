package script

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage is returned when no factory is registered for a language.
	ErrUnsupportedLanguage = errors.New("language not supported")

	// ErrDuplicateLanguage is returned when registering a language twice.
	ErrDuplicateLanguage = errors.New("language already registered")

	// ErrEvaluation is the sentinel matched by every *EvaluationError.
	ErrEvaluation = errors.New("failed to evaluate code")

	// ErrLimitExceeded marks an evaluation stopped by its Limits.
	ErrLimitExceeded = errors.New("execution limit exceeded")

	// ErrRuntimeStart is the sentinel matched by every *StartError.
	ErrRuntimeStart = errors.New("failed to start runtime")
)

// EvaluationError reports a parse or runtime failure inside an interpreter.
type EvaluationError struct {
	Language string
	Details  string
	Err      error
}

// NewEvaluationError wraps err as an evaluation failure for language.
func NewEvaluationError(language string, err error) *EvaluationError {
	return &EvaluationError{
		Language: language,
		Details:  err.Error(),
		Err:      err,
	}
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEvaluation, e.Details)
}

// Unwrap exposes both the sentinel and the interpreter error.
func (e *EvaluationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEvaluation}
	}
	return []error{ErrEvaluation, e.Err}
}

// StartError reports that a factory could not construct an adapter, for
// example because its prelude failed.
type StartError struct {
	Language string
	Err      error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s runtime: %v", e.Language, e.Err)
}

func (e *StartError) Unwrap() []error {
	return []error{ErrRuntimeStart, e.Err}
}
