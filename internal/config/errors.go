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
	// ErrNoSourceDir is returned when no source directory is specified.
	ErrNoSourceDir = errors.New("no source directory specified: provide a directory of status-report documents")

	// ErrInvalidConcurrency is returned when the parse concurrency is not
	// positive. A concurrency of zero would mean no documents are parsed.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidExtension is returned when the document extension does not
	// start with a dot.
	ErrInvalidExtension = errors.New("invalid extension: must start with a dot, e.g. .html")

	// ErrConflictingOutputFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingOutputFormats = errors.New("conflicting output formats: --json and --markdown cannot be used together")

	// ErrNoAPIKey is returned when transcript parsing is requested without
	// an API key for the LLM provider.
	ErrNoAPIKey = errors.New("no API key: set OPENAI_API_KEY or the api_key config entry")
)
