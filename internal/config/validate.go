package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/atlanticdynamic/lynxeval/internal/logging"
	"github.com/atlanticdynamic/lynxeval/internal/logging/writers"
)

// Validate checks every section and returns all problems joined together.
func (c *Config) Validate() error {
	if c.Version != VersionLatest {
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, c.Version)
	}

	var errz []error
	errz = append(errz, c.Logging.Validate())
	errz = append(errz, c.HTTP.Validate())
	errz = append(errz, c.Limits.Validate())

	if len(c.EnabledLanguages()) == 0 {
		errz = append(errz, fmt.Errorf("%w: at least one language must be enabled", ErrMissingRequiredField))
	}
	for _, name := range sortedKeys(c.Languages) {
		if strings.TrimSpace(name) == "" || name != strings.ToLower(name) {
			errz = append(errz, fmt.Errorf("%w: language name %q must be lower case", ErrInvalidValue, name))
		}
		lang := c.Languages[name]
		if lang.PreludeURI != "" && strings.TrimSpace(lang.PreludeURI) == "" {
			errz = append(errz, fmt.Errorf("%w: blank prelude_uri for %s", ErrInvalidValue, name))
		}
	}

	return errors.Join(errz...)
}

// Validate checks the level, format and output.
func (l *Logging) Validate() error {
	var errz []error
	if !logging.IsValidLevel(l.Level) {
		errz = append(errz, fmt.Errorf("%w: log level %q (want one of %s)",
			ErrInvalidValue, l.Level, strings.Join(logging.Levels, ", ")))
	}
	switch strings.ToLower(l.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errz = append(errz, fmt.Errorf("%w: log format %q (want text or json)", ErrInvalidValue, l.Format))
	}
	if err := writers.Validate(l.Output); err != nil {
		errz = append(errz, fmt.Errorf("%w: %w", ErrInvalidValue, err))
	}
	return errors.Join(errz...)
}

// Validate checks the listen address, timeouts and middleware settings.
func (h *HTTP) Validate() error {
	var errz []error

	if h.Address == "" {
		errz = append(errz, fmt.Errorf("%w: http.address", ErrMissingRequiredField))
	} else if _, _, err := net.SplitHostPort(h.Address); err != nil {
		errz = append(errz, fmt.Errorf("%w: http.address %q: %w", ErrInvalidValue, h.Address, err))
	}

	for name, d := range map[string]Duration{
		"read_timeout":  h.ReadTimeout,
		"write_timeout": h.WriteTimeout,
		"idle_timeout":  h.IdleTimeout,
		"drain_timeout": h.DrainTimeout,
	} {
		if d < 0 {
			errz = append(errz, fmt.Errorf("%w: http.%s must not be negative", ErrInvalidValue, name))
		}
	}

	if h.MaxBodyBytes < 0 {
		errz = append(errz, fmt.Errorf("%w: http.max_body_bytes must not be negative", ErrInvalidValue))
	}

	errz = append(errz, h.AccessLog.Validate(), h.Headers.Validate())
	return errors.Join(errz...)
}

// Validate rejects negative limits.
func (l *Limits) Validate() error {
	var errz []error
	if l.Timeout < 0 {
		errz = append(errz, fmt.Errorf("%w: limits.timeout must not be negative", ErrInvalidValue))
	}
	if l.MaxConcurrent < 0 {
		errz = append(errz, fmt.Errorf("%w: limits.max_concurrent must not be negative", ErrInvalidValue))
	}
	if l.SessionLogRecords < 0 {
		errz = append(errz, fmt.Errorf("%w: limits.session_log_records must not be negative", ErrInvalidValue))
	}
	return errors.Join(errz...)
}
