package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound     = goerr.New("configuration file not found")
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrInvalidBackend     = goerr.New("invalid storage backend")
	ErrMissingBackendFlag = goerr.New("required storage flag is missing")
	ErrInvalidLogLevel    = goerr.New("invalid log level")
	ErrInvalidLogFormat   = goerr.New("invalid log format")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	BackendKey    = "backend"
	FlagKey       = "flag"
	LogLevelKey   = "log_level"
	LogFormatKey  = "log_format"
)
