package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidConcurrency is returned when the per-package load limit is
	// negative. Use 0 for unlimited.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrEmptyNodePath is returned when the node executable is set to an
	// empty string.
	ErrEmptyNodePath = errors.New("invalid node path: must not be empty")

	// ErrUnknownClassifier is returned for a classifier name that is not
	// registered.
	ErrUnknownClassifier = errors.New("unknown classifier: must be one of typeof, detailed")

	// ErrInvalidIgnorePattern is returned for a malformed ignore glob.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
)
