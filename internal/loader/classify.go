package loader

// Value describes one exported value as reported by the runtime.
type Value struct {
	// Name is the exported identifier.
	Name string `json:"name"`

	// Type is the result of the JavaScript typeof operator.
	Type string `json:"type"`

	// Null is true when the value is null (typeof reports "object").
	Null bool `json:"null"`

	// Array is true when Array.isArray reports true.
	Array bool `json:"array"`

	// Constructor is the name of the value's constructor, if any.
	Constructor string `json:"constructor"`
}

// ValueClassifier maps a loaded value to its coarse type tag.
type ValueClassifier func(v Value) string

// TypeOf is the default classifier: the primitive typeof of the value.
func TypeOf(v Value) string {
	return v.Type
}

// DetailedType refines TypeOf by telling null and arrays apart from other
// objects.
func DetailedType(v Value) string {
	switch {
	case v.Null:
		return "null"
	case v.Array:
		return "array"
	default:
		return v.Type
	}
}

// Classifiers lists the named classifiers selectable from configuration.
var Classifiers = map[string]ValueClassifier{
	"typeof":   TypeOf,
	"detailed": DetailedType,
}
