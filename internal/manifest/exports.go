package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errMixedExports is returned when an exports object mixes "./subpath" keys
// with condition names, which Node also rejects.
var errMixedExports = errors.New(`exports object mixes subpath keys (starting with ".") and condition keys`)

// ValueKind is the JSON shape of an export value.
type ValueKind int

const (
	// KindNull is null, or any scalar that is not a string. Such values
	// block or hide an entry and resolve to nothing.
	KindNull ValueKind = iota

	// KindString is a direct path such as "./dist/index.mjs".
	KindString

	// KindConditions is an object keyed by condition name.
	KindConditions

	// KindArray is a fallback list; the first resolvable item wins.
	KindArray
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindConditions:
		return "conditions"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// Condition is one named branch of a conditional export.
type Condition struct {
	Name  string
	Value ExportValue
}

// ExportValue is the raw value of one export map entry. Conditions and Items
// keep declaration order.
type ExportValue struct {
	Kind       ValueKind
	Path       string
	Conditions []Condition
	Items      []ExportValue
}

// StringValue returns a KindString value for path.
func StringValue(path string) ExportValue {
	return ExportValue{Kind: KindString, Path: path}
}

// ConditionsValue returns a KindConditions value from name/value pairs.
func ConditionsValue(conds ...Condition) ExportValue {
	return ExportValue{Kind: KindConditions, Conditions: conds}
}

// IsEmpty reports whether the value is null, an empty string, or an empty
// object or array.
func (v ExportValue) IsEmpty() bool {
	switch v.Kind {
	case KindString:
		return v.Path == ""
	case KindConditions:
		return len(v.Conditions) == 0
	case KindArray:
		return len(v.Items) == 0
	default:
		return true
	}
}

// Condition returns the branch named name, if declared.
func (v ExportValue) Condition(name string) (ExportValue, bool) {
	for _, c := range v.Conditions {
		if c.Name == name {
			return c.Value, true
		}
	}
	return ExportValue{}, false
}

// UnmarshalJSON decodes any JSON value into an ExportValue, keeping the
// order of object keys.
func (v *ExportValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// decodeValue reads the next complete JSON value from dec.
func decodeValue(dec *json.Decoder) (ExportValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return ExportValue{}, err
	}

	switch t := tok.(type) {
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			out := ExportValue{Kind: KindConditions, Conditions: make([]Condition, 0)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return ExportValue{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return ExportValue{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return ExportValue{}, err
				}
				out.Conditions = append(out.Conditions, Condition{Name: key, Value: child})
			}
			// closing '}'
			if _, err := dec.Token(); err != nil {
				return ExportValue{}, err
			}
			return out, nil
		case '[':
			out := ExportValue{Kind: KindArray, Items: make([]ExportValue, 0)}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return ExportValue{}, err
				}
				out.Items = append(out.Items, child)
			}
			if _, err := dec.Token(); err != nil {
				return ExportValue{}, err
			}
			return out, nil
		default:
			return ExportValue{}, fmt.Errorf("unexpected delimiter %v", t)
		}
	default:
		// null, booleans and numbers
		return ExportValue{Kind: KindNull}, nil
	}
}

// ExportMapEntry is one declared subpath of an export map.
type ExportMapEntry struct {
	Key   string
	Value ExportValue
}

// ExportMap is a package's "exports" field in declaration order, keyed by
// subpath.
type ExportMap struct {
	Entries []ExportMapEntry
}

// Len returns the number of declared subpaths.
func (m *ExportMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}

// Get returns the value declared for key.
func (m *ExportMap) Get(key string) (ExportValue, bool) {
	if m == nil {
		return ExportValue{}, false
	}
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return ExportValue{}, false
}

// newExportMap converts a decoded "exports" value into subpath form.
// A string, an array, or an object of conditions is shorthand for the "."
// subpath.
func newExportMap(v ExportValue) (*ExportMap, error) {
	if v.Kind != KindConditions {
		return &ExportMap{Entries: []ExportMapEntry{{Key: ".", Value: v}}}, nil
	}

	subpaths := 0
	for _, c := range v.Conditions {
		if isSubpathKey(c.Name) {
			subpaths++
		}
	}

	switch subpaths {
	case 0:
		if len(v.Conditions) == 0 {
			return &ExportMap{Entries: []ExportMapEntry{}}, nil
		}
		return &ExportMap{Entries: []ExportMapEntry{{Key: ".", Value: v}}}, nil
	case len(v.Conditions):
		entries := make([]ExportMapEntry, len(v.Conditions))
		for i, c := range v.Conditions {
			entries[i] = ExportMapEntry{Key: c.Name, Value: c.Value}
		}
		return &ExportMap{Entries: entries}, nil
	default:
		return nil, errMixedExports
	}
}

// isSubpathKey reports whether key names a subpath rather than a condition.
// A bare "package.json" key is treated as the self reference subpath.
func isSubpathKey(key string) bool {
	return strings.HasPrefix(key, ".") || key == FileName
}
