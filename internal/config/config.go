// Package config loads and validates the lynxeval server configuration.
package config

import (
	"time"

	"github.com/atlanticdynamic/lynxeval/internal/script"
	"github.com/atlanticdynamic/lynxeval/internal/script/starlark"
)

const (
	// VersionLatest is the only config schema version understood by this build.
	VersionLatest = "v1"

	DefaultAddress      = ":8080"
	DefaultMaxBodyBytes = 1 << 20

	// DefaultSessionLogRecords caps the log history kept per session.
	DefaultSessionLogRecords = 1000
)

// Config is the full server configuration.
type Config struct {
	Version   string              `toml:"version"`
	Logging   Logging             `toml:"logging"   env_interpolation:"yes"`
	HTTP      HTTP                `toml:"http"      env_interpolation:"yes"`
	Limits    Limits              `toml:"limits"`
	Languages map[string]Language `toml:"languages" env_interpolation:"yes"`
}

// Logging selects the service log handler.
type Logging struct {
	Level  string `toml:"level"  env_interpolation:"yes"`
	Format string `toml:"format" env_interpolation:"yes"`
	Output string `toml:"output" env_interpolation:"yes"`
}

// HTTP configures the listener and the handler chain in front of the API.
type HTTP struct {
	Address      string    `toml:"address"        env_interpolation:"yes"`
	ReadTimeout  Duration  `toml:"read_timeout"`
	WriteTimeout Duration  `toml:"write_timeout"`
	IdleTimeout  Duration  `toml:"idle_timeout"`
	DrainTimeout Duration  `toml:"drain_timeout"`
	MaxBodyBytes int64     `toml:"max_body_bytes"`
	Metrics      bool      `toml:"metrics"`
	MCP          bool      `toml:"mcp"`
	AccessLog    AccessLog `toml:"access_log"`
	Headers      Headers   `toml:"headers"        env_interpolation:"yes"`
}

// Limits bounds every evaluation. Zero values mean unbounded.
type Limits struct {
	MaxSteps          uint64   `toml:"max_steps"`
	Timeout           Duration `toml:"timeout"`
	MaxConcurrent     int64    `toml:"max_concurrent"`
	SessionLogRecords int      `toml:"session_log_records"`
}

// Script converts the per-evaluation limits for the runtime adapters.
func (l Limits) Script() script.Limits {
	return script.Limits{
		MaxSteps: l.MaxSteps,
		Timeout:  l.Timeout.AsDuration(),
	}
}

// Language toggles a runtime and optionally names a prelude script run when
// a session first uses it.
type Language struct {
	Enabled    *bool  `toml:"enabled"`
	PreludeURI string `toml:"prelude_uri" env_interpolation:"yes"`
}

// IsEnabled reports whether the language should be registered. A language
// section without an explicit enabled key is on.
func (l Language) IsEnabled() bool {
	return l.Enabled == nil || *l.Enabled
}

// EnabledLanguages returns the names of the enabled languages.
func (c *Config) EnabledLanguages() []string {
	var names []string
	for _, name := range sortedKeys(c.Languages) {
		if c.Languages[name].IsEnabled() {
			names = append(names, name)
		}
	}
	return names
}

// NewDefault returns the configuration used when no file is given.
func NewDefault() *Config {
	return &Config{
		Version: VersionLatest,
		Logging: Logging{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		HTTP: HTTP{
			Address:      DefaultAddress,
			ReadTimeout:  FromDuration(10 * time.Second),
			IdleTimeout:  FromDuration(60 * time.Second),
			DrainTimeout: FromDuration(30 * time.Second),
			MaxBodyBytes: DefaultMaxBodyBytes,
			Metrics:      true,
			MCP:          true,
			AccessLog: AccessLog{
				Enabled:      true,
				ExcludePaths: []string{"/metrics"},
			},
		},
		Limits: Limits{
			SessionLogRecords: DefaultSessionLogRecords,
		},
		Languages: map[string]Language{
			starlark.Language: {},
		},
	}
}
