package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/atlanticdynamic/lynxeval/internal/interpolation"
	"github.com/atlanticdynamic/lynxeval/internal/script/starlark"
)

// NewConfig loads, interpolates and validates the TOML file at path.
func NewConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return NewConfigFromBytes(data)
}

// NewConfigFromBytes is NewConfig for an in-memory document. Keys missing from
// the document keep their NewDefault values.
func NewConfigFromBytes(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrFailedToLoadConfig, ErrInterpolation, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoSourceData
	}

	// check the version before the strict decode so an old file gets a
	// version error instead of a list of unknown keys
	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := gotoml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}
	if versionCheck.Version != "" && versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, versionCheck.Version)
	}

	cfg := NewDefault()
	cfg.Languages = nil

	dec := gotoml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *gotoml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrParseToml, strict.String())
		}
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}

	cfg.Version = VersionLatest
	if len(cfg.Languages) == 0 {
		cfg.Languages = map[string]Language{starlark.Language: {}}
	}
	return cfg, nil
}
