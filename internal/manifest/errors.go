package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestNotFound is returned when no package.json exists in the
	// starting directory or any of its ancestors.
	ErrManifestNotFound = errors.New("package.json not found")

	// ErrParse is returned when package.json is not valid JSON or its
	// exports field has an impossible shape.
	ErrParse = errors.New("failed to parse package.json")

	// ErrNotPublishable is returned when package.json has no name or is
	// marked private. Such a package has no public export surface.
	ErrNotPublishable = errors.New("not a public package")
)

// ParseError describes a package.json that could not be parsed.
type ParseError struct {
	// Path is the manifest file.
	Path string

	// Err is the underlying decoding error.
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrParse, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse as a match so callers can use errors.Is.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NotPublishableError describes a package.json that lacks a name or is private.
type NotPublishableError struct {
	// Path is the manifest file.
	Path string

	// Reason is a short explanation, e.g. "missing name".
	Reason string
}

// Error implements error.
func (e *NotPublishableError) Error() string {
	return fmt.Sprintf("%s is %s (%s)", e.Path, ErrNotPublishable, e.Reason)
}

// Is reports ErrNotPublishable as a match so callers can use errors.Is.
func (e *NotPublishableError) Is(target error) bool {
	return target == ErrNotPublishable
}
