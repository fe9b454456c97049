package options

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

// ErrUnsupportedFormat is returned for values files that are not CUE, YAML or JSON.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ValuesLoader reads override values from CUE, YAML and JSON files. Files are
// unified in CUE, so two files may repeat a value but not contradict it.
type ValuesLoader struct {
	ctx    *cue.Context
	schema *Schema
}

// NewValuesLoader creates a ValuesLoader with a fresh CUE context. schema
// decides how boolean values map onto choice options.
func NewValuesLoader(schema *Schema) *ValuesLoader {
	return &ValuesLoader{ctx: cuecontext.New(), schema: schema}
}

// LoadFiles reads and unifies paths and returns the resulting overrides.
// An empty path list yields an empty map.
func (l *ValuesLoader) LoadFiles(paths ...string) (map[string]string, error) {
	if len(paths) == 0 {
		return map[string]string{}, nil
	}

	var result cue.Value
	for i, path := range paths {
		v, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			result = v
			continue
		}
		result = result.Unify(v)
		if err := result.Validate(); err != nil {
			return nil, oerrors.NewValidationError(
				"values conflict: "+cueerrors.Details(err, nil), path, "",
				"a value may appear in several files only if it is identical")
		}
	}

	return l.toOverrides(result, paths[len(paths)-1])
}

func (l *ValuesLoader) loadFile(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cue.Value{}, oerrors.NewNotFoundError("values file does not exist", path, "")
		}
		return cue.Value{}, oerrors.NewIOError(path, err)
	}

	var v cue.Value
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		v = l.ctx.CompileBytes(data, cue.Filename(path))
	case ".yaml", ".yml":
		jsonData, err := yaml.YAMLToJSON(data)
		if err != nil {
			return cue.Value{}, oerrors.NewValidationError("parsing YAML: "+err.Error(), path, "", "")
		}
		v = l.ctx.CompileBytes(jsonData, cue.Filename(path))
	case ".json":
		v = l.ctx.CompileBytes(data, cue.Filename(path))
	default:
		return cue.Value{}, oerrors.NewValidationError(
			fmt.Sprintf("%v: %q", ErrUnsupportedFormat, ext), path, "",
			"use a .cue, .yaml, .yml or .json file")
	}

	if err := v.Err(); err != nil {
		return cue.Value{}, oerrors.NewValidationError(cueerrors.Details(err, nil), path, "", "")
	}
	return v, nil
}

// toOverrides flattens a top-level struct of scalars into option strings.
func (l *ValuesLoader) toOverrides(v cue.Value, location string) (map[string]string, error) {
	if k := v.IncompleteKind(); k != cue.StructKind {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("values must be a struct of option names, got %v", k), location, "", "")
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, oerrors.NewValidationError(cueerrors.Details(err, nil), location, "", "")
	}

	out := make(map[string]string)
	for iter.Next() {
		name := iter.Selector().Unquoted()
		s, err := l.scalarString(name, iter.Value())
		if err != nil {
			return nil, oerrors.NewValidationError(err.Error(), location, name, "option values must be concrete strings, numbers or booleans")
		}
		out[name] = s
	}
	return out, nil
}

func (l *ValuesLoader) scalarString(name string, v cue.Value) (string, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return "", fmt.Errorf("value is not concrete: %s", cueerrors.Details(err, nil))
	}

	switch v.Kind() {
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return "", err
		}
		return l.boolString(name, b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(i, 10), nil
	case cue.FloatKind, cue.NumberKind:
		data, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported value kind %v", v.Kind())
	}
}

// boolString maps YAML-style booleans onto choice values. A choice that
// accepts "no" but not "n" (license, command_line_interface) gets "no".
func (l *ValuesLoader) boolString(name string, b bool) string {
	if !b && l.schema != nil {
		if o, ok := l.schema.Lookup(name); ok && o.Kind == KindChoice && !o.Allows("n") && o.Allows("no") {
			return "no"
		}
	}
	if b {
		return "y"
	}
	return "n"
}
