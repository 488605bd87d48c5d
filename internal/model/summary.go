package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSummary is returned when a serialized module summary is not a
// JSON object of string values.
var ErrInvalidSummary = errors.New("invalid module summary: expected an object of string values")

// Export is one named value provided by a loaded module.
type Export struct {
	// Name is the exported identifier, e.g. "defineConfig" or "default".
	Name string `json:"name"`

	// Type is the coarse type tag, e.g. "function", "string", "object".
	Type string `json:"type"`
}

// ModuleSummary lists the named exports of one loaded entry point.
//
// The slice order is significant: it is the sorted order produced by the
// loader, and it is kept when the summary is written as a JSON object so
// that snapshots are byte-for-byte stable.
type ModuleSummary []Export

// Names returns the exported identifiers in summary order.
func (s ModuleSummary) Names() []string {
	names := make([]string, len(s))
	for i, e := range s {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the type tag of name and whether it is present.
func (s ModuleSummary) Lookup(name string) (string, bool) {
	for _, e := range s {
		if e.Name == name {
			return e.Type, true
		}
	}
	return "", false
}

// Map returns the summary as a plain name to type mapping.
func (s ModuleSummary) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, e := range s {
		m[e.Name] = e.Type
	}
	return m
}

// MarshalJSON writes the summary as a JSON object whose keys follow the
// summary order.
func (s ModuleSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Type)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object into the summary, keeping key order.
func (s *ModuleSummary) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrInvalidSummary
	}

	out := make(ModuleSummary, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return ErrInvalidSummary
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%w: key %q: %v", ErrInvalidSummary, key, err)
		}
		out = append(out, Export{Name: key, Type: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}
