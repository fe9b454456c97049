package templates

import (
	"io/fs"
	"sort"
	"strings"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
)

// DefaultTemplateName is the template used when --template is not specified.
const DefaultTemplateName = "pypackage"

type registered struct {
	Template
	schema func() *options.Schema
	files  func() (fs.FS, error)
	tree   func() []Entry
}

// templates is the internal registry of available templates.
var templates = map[string]registered{
	"pypackage": {
		Template: Template{
			Name:        "pypackage",
			Description: "Python package with pyproject.toml, mkdocs site, tests and optional CLI",
			Default:     true,
		},
		schema: options.DefaultSchema,
		files:  pypackageFiles,
		tree:   pypackageEntries,
	},
}

// Get returns a template by name.
func Get(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, unknownTemplate(name)
	}
	return t.Template, nil
}

// List returns all available templates sorted by name.
func List() []Template {
	out := make([]Template, 0, len(templates))
	for _, name := range Names() {
		out = append(out, templates[name].Template)
	}
	return out
}

// GetDefault returns the default template.
func GetDefault() Template {
	return templates[DefaultTemplateName].Template
}

// Names returns all template names.
func Names() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the option schema of the named template.
func Schema(name string) (*options.Schema, error) {
	t, ok := templates[name]
	if !ok {
		return nil, unknownTemplate(name)
	}
	return t.schema(), nil
}

// Load parses and validates the named template against its schema.
func Load(name string) (*Tree, error) {
	t, ok := templates[name]
	if !ok {
		return nil, unknownTemplate(name)
	}

	files, err := t.files()
	if err != nil {
		return nil, oerrors.NewRenderError(name, err)
	}
	tree, err := NewTree(name, files, t.tree())
	if err != nil {
		return nil, err
	}
	if err := tree.Validate(t.schema()); err != nil {
		return nil, err
	}
	return tree, nil
}

func unknownTemplate(name string) error {
	return oerrors.NewNotFoundError("unknown template "+quote(name), "", "available templates: "+strings.Join(Names(), ", "))
}
