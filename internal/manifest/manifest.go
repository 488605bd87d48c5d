package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the subset of package.json that describes a public export
// surface.
type Manifest struct {
	// Path is the absolute path of the package.json file.
	Path string

	// Name is the package name, e.g. "vite" or "@scope/lib".
	Name string

	// Version is the package version, if declared.
	Version string

	// Private is true when "private" holds a truthy value.
	Private bool

	// Exports is the declared export map, or nil when the field is absent.
	Exports *ExportMap
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// rawManifest mirrors the JSON fields we read. Fields use loose types
// because real-world manifests are not always well typed. Only a string
// "name" counts as a name: a number or object leaves Manifest.Name empty and
// the package is reported as missing its name, which is stricter than npm's
// own truthiness check.
type rawManifest struct {
	Name    any             `json:"name"`
	Version any             `json:"version"`
	Private any             `json:"private"`
	Exports json.RawMessage `json:"exports"`
}

// Load reads the manifest at path, parses it, and checks that it describes a
// publishable package.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from Find or the caller
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	m, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	if err := m.CheckPublishable(); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse decodes package.json content. It does not check publishability.
// Syntax errors are returned as *ParseError.
func Parse(path string, data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	m := &Manifest{
		Path:    path,
		Private: truthy(raw.Private),
	}
	if name, ok := raw.Name.(string); ok {
		m.Name = name
	}
	if version, ok := raw.Version.(string); ok {
		m.Version = version
	}

	trimmed := bytes.TrimSpace(raw.Exports)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return m, nil
	}

	var value ExportValue
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("exports: %w", err)}
	}
	exports, err := newExportMap(value)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	m.Exports = exports

	return m, nil
}

// CheckPublishable returns a *NotPublishableError when the manifest has no
// name or is private.
func (m *Manifest) CheckPublishable() error {
	switch {
	case m.Name == "":
		return &NotPublishableError{Path: m.Path, Reason: "missing name"}
	case m.Private:
		return &NotPublishableError{Path: m.Path, Reason: "marked private"}
	default:
		return nil
	}
}

// truthy applies JavaScript truthiness to a decoded JSON value.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
