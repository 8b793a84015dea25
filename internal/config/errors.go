package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoOutputPath is returned when no output path could be resolved.
	ErrNoOutputPath = errors.New("no output path: use --output or set RESULT")

	// ErrNoFormat is returned when the format list is empty.
	ErrNoFormat = errors.New("no output format specified")

	// ErrDuplicateFormat is returned when a format is requested twice.
	ErrDuplicateFormat = errors.New("duplicate output format")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNoListenAddress is returned when the server address is empty.
	ErrNoListenAddress = errors.New("no listen address specified")

	// ErrSpecNotFound is returned when the report spec file does not exist.
	ErrSpecNotFound = errors.New("report specification file not found")
)
