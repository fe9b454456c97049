package templates

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
	"github.com/opmodel/pybake/internal/output"
)

// MaterializeOption configures Materialize.
type MaterializeOption func(*materializeConfig)

type materializeConfig struct {
	now func() time.Time
}

// WithClock sets the clock that supplies the year field.
func WithClock(now func() time.Time) MaterializeOption {
	return func(c *materializeConfig) {
		c.now = now
	}
}

// Materialize renders tree for cfg into out. Entries are processed in tree
// order: the path is rendered, the entry's condition is evaluated, and
// included entries are written. Entries below an excluded directory are
// excluded too. Unknown fields fail with ErrRender; filesystem failures fail
// with ErrIO. Nothing is cleaned up on failure.
func Materialize(tree *Tree, cfg options.Resolved, out billy.Filesystem, opts ...MaterializeOption) (*MaterializedTree, error) {
	c := materializeConfig{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}

	r := NewRenderer(cfg, c.now())
	result := &MaterializedTree{Root: out.Root()}

	var excluded []string
	for i, e := range tree.entries {
		rel, err := tree.renderPath(r, i)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			result.ProjectDir = rel
		}

		if underAny(rel, excluded) || !e.When.Eval(cfg) {
			if e.Dir {
				excluded = append(excluded, rel)
			}
			output.Debug("skipping entry", "path", rel, "when", e.When.String())
			continue
		}

		if e.Dir {
			if err := out.MkdirAll(rel, e.mode()); err != nil {
				return nil, oerrors.NewIOError(out.Join(out.Root(), rel), err)
			}
			result.Dirs = append(result.Dirs, rel)
			continue
		}

		content, err := r.Execute(tree.contents[i])
		if err != nil {
			return nil, oerrors.NewRenderError(e.Source, err)
		}
		if err := checkStructured(rel, content); err != nil {
			return nil, oerrors.NewRenderError(rel, err)
		}

		if err := util.WriteFile(out, rel, content, e.mode()); err != nil {
			return nil, oerrors.NewIOError(out.Join(out.Root(), rel), err)
		}
		output.Debug("wrote file", "path", rel, "bytes", len(content))

		result.Files = append(result.Files, WrittenFile{
			Path:        rel,
			Description: e.Description,
			Size:        len(content),
		})
	}

	return result, nil
}

func underAny(p string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(p, d+"/") {
			return true
		}
	}
	return false
}

// checkStructured parses rendered manifests so a template that produces
// invalid TOML or YAML fails at bake time.
func checkStructured(p string, content []byte) error {
	switch strings.ToLower(path.Ext(p)) {
	case ".toml":
		var v map[string]any
		if err := toml.Unmarshal(content, &v); err != nil {
			return fmt.Errorf("rendered TOML does not parse: %w", err)
		}
	case ".yml", ".yaml":
		var v any
		if err := yaml.Unmarshal(content, &v); err != nil {
			return fmt.Errorf("rendered YAML does not parse: %w", err)
		}
	}
	return nil
}
