package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AccessLog configures the HTTP request logger. Paths match as prefixes.
type AccessLog struct {
	Enabled            bool     `toml:"enabled"`
	IncludeOnlyPaths   []string `toml:"include_only_paths"`
	ExcludePaths       []string `toml:"exclude_paths"`
	IncludeOnlyMethods []string `toml:"include_only_methods"`
	ExcludeMethods     []string `toml:"exclude_methods"`
}

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// Validate checks the path and method filters.
func (a *AccessLog) Validate() error {
	var errs []error

	for _, p := range append(append([]string{}, a.IncludeOnlyPaths...), a.ExcludePaths...) {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("%w: access log path %q must start with /", ErrInvalidValue, p))
		}
	}

	for _, m := range append(append([]string{}, a.IncludeOnlyMethods...), a.ExcludeMethods...) {
		if _, ok := knownMethods[strings.ToUpper(m)]; !ok {
			errs = append(errs, fmt.Errorf("%w: unknown HTTP method %q", ErrInvalidValue, m))
		}
	}

	return errors.Join(errs...)
}
