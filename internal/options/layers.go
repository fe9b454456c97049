package options

import (
	"maps"
	"strings"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

// Override sources, lowest precedence first.
const (
	SourceDefault = "default"
	SourceConfig  = "config"
	SourceReplay  = "replay"
	SourceValues  = "values"
	SourceFlag    = "--set"
	SourceDerived = "derived"
)

// Layer is one set of overrides and where it came from.
type Layer struct {
	Source string
	Values map[string]string
}

// Merged is the result of stacking layers.
type Merged struct {
	// Overrides is the final override map to pass to Resolve.
	Overrides map[string]string

	// Sources records which layer supplied each override.
	Sources map[string]string

	// Shadowed records lower-precedence values replaced by a later layer,
	// keyed by option name.
	Shadowed map[string][]Layer
}

// Merge stacks layers in order; later layers win.
func Merge(layers ...Layer) Merged {
	m := Merged{
		Overrides: make(map[string]string),
		Sources:   make(map[string]string),
		Shadowed:  make(map[string][]Layer),
	}

	for _, l := range layers {
		for k, v := range l.Values {
			if prev, ok := m.Overrides[k]; ok && prev != v {
				m.Shadowed[k] = append(m.Shadowed[k], Layer{
					Source: m.Sources[k],
					Values: map[string]string{k: prev},
				})
			}
			m.Overrides[k] = v
			m.Sources[k] = l.Source
		}
	}
	return m
}

// SourceOf reports where the resolved value of name came from.
func (m Merged) SourceOf(s *Schema, name string) string {
	if src, ok := m.Sources[name]; ok {
		return src
	}
	if o, ok := s.Lookup(name); ok && o.Derived() {
		return SourceDerived
	}
	return SourceDefault
}

// Clone returns a deep copy of the override map.
func (m Merged) Clone() map[string]string {
	return maps.Clone(m.Overrides)
}

// ParseAssignments parses key=value pairs as given to --set. The value may
// be empty or contain further '=' characters.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, oerrors.NewInvalidOptionError(p, "", "expected key=value", nil)
		}
		out[key] = value
	}
	return out, nil
}
