package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad is returned when an entry's module cannot be loaded: the file
	// is missing, it has a syntax error, or it throws while initializing.
	ErrLoad = errors.New("failed to load module")

	// ErrNodeNotFound is returned when the node executable cannot be found.
	ErrNodeNotFound = errors.New("node executable not found")

	// ErrNoOutput is returned when the runtime exited successfully without
	// printing an export listing.
	ErrNoOutput = errors.New("runtime produced no export listing")
)

// LoadError identifies the export entry whose module failed to load.
type LoadError struct {
	// ExportPath is the public subpath, e.g. "./config".
	ExportPath string

	// Specifier is what was passed to the runtime's import.
	Specifier string

	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e *LoadError) Error() string {
	if e.Specifier == "" {
		return fmt.Sprintf("%s for export %q: %v", ErrLoad, e.ExportPath, e.Err)
	}
	return fmt.Sprintf("%s for export %q (%s): %v", ErrLoad, e.ExportPath, e.Specifier, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports ErrLoad as a match so callers can use errors.Is.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}
