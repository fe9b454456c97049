package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
)

//go:embed schema/config.cue
var configSchemaCUE []byte

// ValidationError is one failing field of a config file.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap ties validation failures to the validation exit code.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator checks config files against the embedded CUE schema and the
// option schema of the templates.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(configSchemaCUE, cue.Filename("config.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}

	return &Validator{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Config")),
	}, nil
}

// ValidateFile validates the YAML config file at path. Every option in
// default_context must be known to opts and hold an allowed value.
func (v *Validator) ValidateFile(path string, opts *options.Schema) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return oerrors.NewNotFoundError("config file does not exist", path, "create one with 'pybake config init'")
	}
	if err != nil {
		return oerrors.NewIOError(path, err)
	}
	return v.Validate(data, opts)
}

// Validate validates YAML config content.
func (v *Validator) Validate(data []byte, opts *options.Schema) error {
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return ValidationErrors{{Field: "(file)", Message: "invalid YAML: " + err.Error()}}
	}
	if parsed == nil {
		parsed = map[string]any{}
	}

	jsonData, err := json.Marshal(normalizeYAML(parsed))
	if err != nil {
		return ValidationErrors{{Field: "(file)", Message: err.Error()}}
	}

	value := v.ctx.CompileBytes(jsonData)
	if err := value.Err(); err != nil {
		return ValidationErrors{{Field: "(file)", Message: cueerrors.Details(err, nil)}}
	}

	var errs ValidationErrors
	unified := v.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			format, args := e.Msg()
			field := fieldPath(e.Path())
			if field == "" {
				field = "(root)"
			}
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
		}
	}

	if opts != nil {
		errs = append(errs, checkDefaultContext(parsed, opts)...)
	}

	if len(errs) > 0 {
		sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
		return errs
	}
	return nil
}

func checkDefaultContext(parsed any, opts *options.Schema) ValidationErrors {
	root, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}
	ctx, ok := root["default_context"].(map[string]any)
	if !ok {
		return nil
	}

	var errs ValidationErrors
	for name, raw := range ctx {
		field := "default_context." + name
		o, known := opts.Lookup(name)
		if !known {
			errs = append(errs, ValidationError{Field: field, Message: "unknown option"})
			continue
		}
		s, isString := raw.(string)
		if isString && !o.Allows(s) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is not one of %s", s, strings.Join(o.Choices, ", ")),
			})
		}
	}
	return errs
}

// normalizeYAML converts YAML-specific types to JSON-compatible types.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = normalizeYAML(v)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[fmt.Sprintf("%v", k)] = normalizeYAML(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = normalizeYAML(v)
		}
		return result
	default:
		return v
	}
}

// fieldPath joins a CUE error path, dropping the leading definition selector
// so fields read as they appear in the file.
func fieldPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
