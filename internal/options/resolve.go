package options

import (
	"maps"
	"slices"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

// Resolved is an immutable set of option values. Every schema option is bound
// to exactly one value.
type Resolved struct {
	values map[string]string
	names  []string
}

// Get returns the value of name.
func (r Resolved) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value of name, or "" when name is not an option.
func (r Resolved) Value(name string) string {
	return r.values[name]
}

// Names returns option names in schema order.
func (r Resolved) Names() []string {
	return slices.Clone(r.names)
}

// Map returns a copy of all values.
func (r Resolved) Map() map[string]string {
	return maps.Clone(r.values)
}

// Len returns the number of resolved options.
func (r Resolved) Len() int {
	return len(r.values)
}

// Resolve resolves overrides against the built-in schema.
func Resolve(overrides map[string]string) (Resolved, error) {
	return DefaultSchema().Resolve(overrides)
}

// Resolve validates overrides, fills defaults and computes derived options in
// schema order. Unknown keys, values outside a choice set, explicit values
// rejected by an option validator and empty derived values fail with
// ErrInvalidOption.
func (s *Schema) Resolve(overrides map[string]string) (Resolved, error) {
	for _, k := range slices.Sorted(maps.Keys(overrides)) {
		if !s.Has(k) {
			return Resolved{}, oerrors.NewInvalidOptionError(k, overrides[k],
				"unknown option; run 'pybake options' to list recognized options", nil)
		}
	}

	values := make(map[string]string, len(s.options))
	for _, o := range s.options {
		v, set := overrides[o.Name]
		switch {
		case set:
		case o.Derived():
			v = o.Derive(dependencyGetter(o, values))
		default:
			v = o.Default
		}

		if !o.Allows(v) {
			return Resolved{}, oerrors.NewInvalidOptionError(o.Name, v, "value is not allowed", o.Choices)
		}
		// Validators guard explicit values only. A derived value is usable
		// as long as it is not empty, since it names a path.
		switch {
		case set && o.Validate != nil:
			if err := o.Validate(v); err != nil {
				return Resolved{}, oerrors.NewInvalidOptionError(o.Name, v, err.Error(), nil)
			}
		case !set && o.Derived() && v == "":
			return Resolved{}, oerrors.NewInvalidOptionError(o.Name, v,
				"derived value is empty; project_name must contain at least one letter or digit", nil)
		}
		values[o.Name] = v
	}

	return Resolved{values: values, names: s.Names()}, nil
}

func dependencyGetter(o Option, values map[string]string) func(string) string {
	return func(name string) string {
		if !slices.Contains(o.DependsOn, name) {
			return ""
		}
		return values[name]
	}
}
