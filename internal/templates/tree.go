package templates

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
	"time"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
)

// Tree is an ordered, parsed template tree. It is immutable once built and
// safe to share between materializations.
type Tree struct {
	name     string
	entries  []Entry
	paths    []*template.Template
	contents []*template.Template
}

// NewTree parses entries, reading file sources from files. The first entry
// must be the top-level project directory and every other entry must follow
// its parent directory.
func NewTree(name string, files fs.FS, entries []Entry) (*Tree, error) {
	if len(entries) == 0 {
		return nil, oerrors.NewRenderError(name, fmt.Errorf("template tree has no entries"))
	}

	root := entries[0]
	if !root.Dir || strings.Contains(root.Path, "/") {
		return nil, oerrors.NewRenderError(root.Path, fmt.Errorf("first entry must be a top-level directory"))
	}

	t := &Tree{
		name:     name,
		entries:  make([]Entry, len(entries)),
		paths:    make([]*template.Template, len(entries)),
		contents: make([]*template.Template, len(entries)),
	}
	copy(t.entries, entries)

	seen := make(map[string]bool)
	dirs := make(map[string]bool)
	for i, e := range t.entries {
		if seen[e.Path] {
			return nil, oerrors.NewRenderError(e.Path, fmt.Errorf("entry declared twice"))
		}
		seen[e.Path] = true
		if i > 0 {
			if !strings.HasPrefix(e.Path, root.Path+"/") {
				return nil, oerrors.NewRenderError(e.Path, fmt.Errorf("entry is outside the project directory %q", root.Path))
			}
			if parent := path.Dir(e.Path); !dirs[parent] {
				return nil, oerrors.NewRenderError(e.Path, fmt.Errorf("parent directory %q is not declared before this entry", parent))
			}
		}
		if e.When != nil {
			e.When = &Condition{Option: e.When.Option, In: append([]string(nil), e.When.In...), Negate: e.When.Negate}
			t.entries[i] = e
		}

		pt, err := parseTemplate(e.Path, e.Path)
		if err != nil {
			return nil, oerrors.NewRenderError(e.Path, err)
		}
		t.paths[i] = pt

		if e.Dir {
			dirs[e.Path] = true
			continue
		}

		if e.Source == "" {
			return nil, oerrors.NewRenderError(e.Path, fmt.Errorf("file entry has no source"))
		}
		src, err := fs.ReadFile(files, e.Source)
		if err != nil {
			return nil, oerrors.NewRenderError(e.Source, err)
		}
		ct, err := parseTemplate(e.Source, string(src))
		if err != nil {
			return nil, oerrors.NewRenderError(e.Source, err)
		}
		t.contents[i] = ct
	}

	return t, nil
}

// Name returns the template name.
func (t *Tree) Name() string {
	return t.name
}

// Entries returns a copy of the entries in tree order.
func (t *Tree) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Validate checks every placeholder, guard and condition against schema
// without rendering. A failure is a template-authoring defect.
func (t *Tree) Validate(schema *options.Schema) error {
	if schema.Has(YearField) {
		return oerrors.NewRenderError(t.name, fmt.Errorf("option %q collides with the built-in year field", YearField))
	}

	for i, e := range t.entries {
		if err := checkReferences(t.paths[i], schema); err != nil {
			return oerrors.NewRenderError(e.Path, err)
		}
		if c := t.contents[i]; c != nil {
			if err := checkReferences(c, schema); err != nil {
				return oerrors.NewRenderError(e.Source, err)
			}
		}
		if err := e.When.Check(schema); err != nil {
			return oerrors.NewRenderError(e.Path, err)
		}
	}
	return nil
}

// ProjectDir renders the top-level directory name for cfg.
func (t *Tree) ProjectDir(cfg options.Resolved, now time.Time) (string, error) {
	return t.renderPath(NewRenderer(cfg, now), 0)
}

func (t *Tree) renderPath(r *Renderer, i int) (string, error) {
	out, err := r.Execute(t.paths[i])
	if err != nil {
		return "", oerrors.NewRenderError(t.entries[i].Path, err)
	}
	rel, err := cleanRelative(string(out))
	if err != nil {
		return "", oerrors.NewRenderError(t.entries[i].Path, err)
	}
	return rel, nil
}
