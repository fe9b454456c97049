// Package options defines the option schema for generated Python projects and
// resolves user overrides against it.
package options

import (
	"fmt"
	"slices"
)

// Kind is the value kind of an option.
type Kind int

const (
	// KindString accepts any string.
	KindString Kind = iota

	// KindChoice accepts one of a fixed set of values.
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	default:
		return "string"
	}
}

// DeriveFunc computes a default from options resolved earlier in the schema.
// get only answers for names listed in the option's DependsOn.
type DeriveFunc func(get func(name string) string) string

// Option describes one recognized option.
type Option struct {
	Name    string
	Kind    Kind
	Default string

	// Choices is the allowed value set for KindChoice options.
	Choices []string

	// DependsOn lists the options Derive reads. Every entry must be declared
	// earlier in the schema.
	DependsOn []string

	// Derive, when set, replaces Default if the option is not overridden.
	Derive DeriveFunc

	// Validate checks a final value (overridden or derived).
	Validate func(value string) error

	Help string
}

// Derived reports whether the option is computed from other options.
func (o Option) Derived() bool {
	return o.Derive != nil
}

// Allows reports whether v is an accepted value for a choice option.
// String options accept everything.
func (o Option) Allows(v string) bool {
	if o.Kind != KindChoice {
		return true
	}
	return slices.Contains(o.Choices, v)
}

// Schema is an ordered, immutable set of options.
type Schema struct {
	options []Option
	index   map[string]int
}

// NewSchema builds a schema from opts in declaration order.
func NewSchema(opts ...Option) (*Schema, error) {
	s := &Schema{
		options: make([]Option, 0, len(opts)),
		index:   make(map[string]int, len(opts)),
	}

	for _, o := range opts {
		if o.Name == "" {
			return nil, fmt.Errorf("option at position %d has no name", len(s.options))
		}
		if _, dup := s.index[o.Name]; dup {
			return nil, fmt.Errorf("option %q declared twice", o.Name)
		}
		if o.Kind == KindChoice {
			if len(o.Choices) == 0 {
				return nil, fmt.Errorf("choice option %q has no choices", o.Name)
			}
			if !o.Derived() && !o.Allows(o.Default) {
				return nil, fmt.Errorf("option %q default %q is not one of %v", o.Name, o.Default, o.Choices)
			}
		}
		if len(o.DependsOn) > 0 && !o.Derived() {
			return nil, fmt.Errorf("option %q declares dependencies but no derivation", o.Name)
		}
		for _, dep := range o.DependsOn {
			if _, ok := s.index[dep]; !ok {
				return nil, fmt.Errorf("option %q depends on %q, which is not declared before it", o.Name, dep)
			}
		}

		o.Choices = slices.Clone(o.Choices)
		o.DependsOn = slices.Clone(o.DependsOn)
		s.index[o.Name] = len(s.options)
		s.options = append(s.options, o)
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(opts ...Option) *Schema {
	s, err := NewSchema(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Options returns the options in declaration order.
func (s *Schema) Options() []Option {
	out := make([]Option, len(s.options))
	for i, o := range s.options {
		o.Choices = slices.Clone(o.Choices)
		o.DependsOn = slices.Clone(o.DependsOn)
		out[i] = o
	}
	return out
}

// Lookup returns the option named name.
func (s *Schema) Lookup(name string) (Option, bool) {
	i, ok := s.index[name]
	if !ok {
		return Option{}, false
	}
	o := s.options[i]
	o.Choices = slices.Clone(o.Choices)
	return o, true
}

// Has reports whether name is a declared option.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns option names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.options))
	for i, o := range s.options {
		names[i] = o.Name
	}
	return names
}
