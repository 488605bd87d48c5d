package pipeline

import "errors"

var (
	// ErrDuplicateExportPath is returned when two entries share an export
	// path, which can only happen after a ResolveExportEntries hook.
	ErrDuplicateExportPath = errors.New("duplicate export path")

	// ErrInvalidConcurrency is returned for a negative concurrency limit.
	ErrInvalidConcurrency = errors.New("concurrency must be 0 (unlimited) or positive")

	// ErrStepPrecondition is returned when a step runs before the step
	// that produces its input.
	ErrStepPrecondition = errors.New("pipeline step ran out of order")
)
