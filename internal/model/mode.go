package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidImportMode is returned when an import mode name is not one of
	// package, dist or src.
	ErrInvalidImportMode = errors.New("invalid import mode: must be one of package, dist, src")

	// ErrInvalidSequence is returned when a sequence name is not one of
	// parallel or sequential.
	ErrInvalidSequence = errors.New("invalid sequence: must be one of parallel, sequential")
)

// ImportMode selects how a target module is addressed when it is loaded.
type ImportMode string

const (
	// ImportModePackage loads entries through the public package specifier,
	// e.g. "vite/module-runner". This is the resolution a consumer of the
	// published package goes through.
	ImportModePackage ImportMode = "package"

	// ImportModeDist loads the resolved target file directly, e.g.
	// "file:///repo/node_modules/vite/dist/node/index.js".
	ImportModeDist ImportMode = "dist"

	// ImportModeSrc rewrites the target from build output to source before
	// loading it, e.g. "dist/config.mjs" becomes "src/config".
	ImportModeSrc ImportMode = "src"
)

// DefaultImportMode is used when no import mode is configured.
const DefaultImportMode = ImportModeDist

// ImportModes lists every supported import mode.
func ImportModes() []ImportMode {
	return []ImportMode{ImportModePackage, ImportModeDist, ImportModeSrc}
}

// ParseImportMode converts a user supplied name into an ImportMode.
// The empty string yields DefaultImportMode.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultImportMode, nil
	case ImportModePackage:
		return ImportModePackage, nil
	case ImportModeDist:
		return ImportModeDist, nil
	case ImportModeSrc:
		return ImportModeSrc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidImportMode, s)
	}
}

// String returns the mode name.
func (m ImportMode) String() string {
	return string(m)
}

// Validate reports whether m is a known import mode.
func (m ImportMode) Validate() error {
	switch m {
	case ImportModePackage, ImportModeDist, ImportModeSrc:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidImportMode, string(m))
	}
}

// Sequence selects whether entries are loaded concurrently or one by one.
type Sequence string

const (
	// SequenceParallel starts every load at once and waits for all of them.
	SequenceParallel Sequence = "parallel"

	// SequenceSequential loads entries one at a time in declaration order.
	// Use it when the loaded modules register global state on import.
	SequenceSequential Sequence = "sequential"
)

// DefaultSequence is used when no sequence is configured.
const DefaultSequence = SequenceParallel

// ParseSequence converts a user supplied name into a Sequence.
// The empty string yields DefaultSequence.
func ParseSequence(s string) (Sequence, error) {
	switch Sequence(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultSequence, nil
	case SequenceParallel:
		return SequenceParallel, nil
	case SequenceSequential:
		return SequenceSequential, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSequence, s)
	}
}

// String returns the sequence name.
func (s Sequence) String() string {
	return string(s)
}

// Validate reports whether s is a known sequence.
func (s Sequence) Validate() error {
	switch s {
	case SequenceParallel, SequenceSequential:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSequence, string(s))
	}
}
