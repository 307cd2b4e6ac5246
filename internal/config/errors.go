package config

import "errors"

// Validation errors returned by [GetStructuredConfig] when a configuration
// group is incomplete or invalid.
var (
	// ErrInvalidAPIConfigs indicates a malformed endpoint URL or a negative
	// transport timeout.
	ErrInvalidAPIConfigs = errors.New("invalid api configuration")
	// ErrInvalidAuthConfigs indicates a missing access token or account.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidSyncConfigs indicates no path prefixes or a long-poll
	// timeout the server would not accept.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidStorageConfigs indicates an empty DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)
