package manifest

// DefaultConditions is the condition priority used to pick one target from a
// conditional export. "module-sync" and "default" win over "import", which
// wins over "module" and "require".
var DefaultConditions = []string{"module-sync", "default", "import", "module", "require"}

// ConditionResolver resolves export values by trying Conditions in order.
type ConditionResolver struct {
	// Conditions is the priority order. Nil means DefaultConditions.
	Conditions []string
}

// NewConditionResolver returns a ValueResolver that uses the given condition
// order, or DefaultConditions when none are given.
func NewConditionResolver(conditions ...string) ValueResolver {
	r := ConditionResolver{Conditions: conditions}
	return r.Resolve
}

// Resolve returns the single path selected for v.
//
// Strings resolve to themselves. For condition objects the first listed
// condition that is present and itself resolvable wins; nested condition
// objects and fallback arrays are resolved the same way. Anything else
// resolves to nothing.
func (r ConditionResolver) Resolve(v ExportValue) (string, bool) {
	switch v.Kind {
	case KindString:
		return v.Path, v.Path != ""
	case KindArray:
		for _, item := range v.Items {
			if p, ok := r.Resolve(item); ok {
				return p, true
			}
		}
		return "", false
	case KindConditions:
		for _, name := range r.conditions() {
			branch, ok := v.Condition(name)
			if !ok {
				continue
			}
			if p, ok := r.Resolve(branch); ok {
				return p, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func (r ConditionResolver) conditions() []string {
	if len(r.Conditions) == 0 {
		return DefaultConditions
	}
	return r.Conditions
}
