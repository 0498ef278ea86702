package config

import "errors"

var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
	ErrNoSourceData           = errors.New("no source data provided")
	ErrParseToml              = errors.New("failed to parse TOML")
	ErrInterpolation          = errors.New("failed to interpolate environment variables")

	ErrInvalidValue         = errors.New("invalid value")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidHeader        = errors.New("invalid header")
)
