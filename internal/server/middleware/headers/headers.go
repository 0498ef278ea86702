// Package headers applies the configured response header operations in the
// go-supervisor middleware chain. Operations run in the order remove, set, add.
package headers

import (
	"errors"
	"fmt"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	supervisorHeaders "github.com/robbyt/go-supervisor/runnables/httpserver/middleware/headers"

	"github.com/atlanticdynamic/lynxeval/internal/config"
)

// Sentinel errors for headers middleware.
var (
	ErrNilConfig     = errors.New("headers config cannot be nil")
	ErrInvalidConfig = errors.New("invalid headers config")
)

// New validates cfg and returns the middleware. An empty config yields nil,
// so callers can skip it.
func New(cfg *config.Headers) (httpserver.HandlerFunc, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.IsEmpty() {
		return nil, nil
	}

	var operations []supervisorHeaders.HeaderOperation
	if len(cfg.Remove) > 0 {
		operations = append(operations, supervisorHeaders.WithRemove(cfg.Remove...))
	}
	if len(cfg.Set) > 0 {
		operations = append(operations, supervisorHeaders.WithSet(config.HTTPHeaders(cfg.Set)))
	}
	if len(cfg.Add) > 0 {
		operations = append(operations, supervisorHeaders.WithAdd(config.HTTPHeaders(cfg.Add)))
	}

	return supervisorHeaders.NewWithOperations(operations...), nil
}
