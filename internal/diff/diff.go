// Package diff compares an existing project directory with what the
// template would render for it today.
package diff

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
	"github.com/opmodel/pybake/internal/output"
	"github.com/opmodel/pybake/internal/templates"
)

// ignoredDirs are never reported as removed; tools create them next to
// generated projects.
var ignoredDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".ruff_cache":   true,
	".tox":          true,
	".nox":          true,
	"build":         true,
	"dist":          true,
	"site":          true,
}

// Result is the difference between a project on disk and its rendering.
// Paths are slash-separated and relative to the project directory.
type Result struct {
	// Added files would be created by the template.
	Added []string

	// Removed files exist on disk but are not produced by the template.
	Removed []string

	// Modified files differ between disk and the rendering.
	Modified []output.ModifiedItem
}

// IsEmpty reports whether the project matches its rendering.
func (r *Result) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Options configures Project.
type Options struct {
	Tree   *templates.Tree
	Config options.Resolved

	// Now supplies the year field. Defaults to time.Now.
	Now func() time.Time

	// UseColor styles structural YAML reports.
	UseColor bool
}

// Project renders opts.Tree in memory and compares it with projectDir.
// Nothing on disk is modified.
func Project(ctx context.Context, projectDir string, opts Options) (*Result, error) {
	info, err := os.Stat(projectDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oerrors.NewNotFoundError("project directory does not exist", projectDir,
			"bake it first with 'pybake bake'")
	}
	if err != nil {
		return nil, oerrors.NewIOError(projectDir, err)
	}
	if !info.IsDir() {
		return nil, oerrors.NewValidationError("project path is not a directory", projectDir, "", "")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	mem := memfs.New()
	rendered, err := templates.Materialize(opts.Tree, opts.Config, mem, templates.WithClock(now))
	if err != nil {
		return nil, err
	}
	if base := filepath.Base(filepath.Clean(projectDir)); base != rendered.ProjectDir {
		output.Warn("project directory name differs from the rendered name",
			"dir", base, "rendered", rendered.ProjectDir)
	}

	renderedFS, err := mem.Chroot(rendered.ProjectDir)
	if err != nil {
		return nil, oerrors.NewIOError(rendered.ProjectDir, err)
	}
	diskFS := osfs.New(projectDir)

	want, err := listFiles(renderedFS, false)
	if err != nil {
		return nil, oerrors.NewIOError(rendered.ProjectDir, err)
	}
	have, err := listFiles(diskFS, true)
	if err != nil {
		return nil, oerrors.NewIOError(projectDir, err)
	}

	comparer := NewComparer(opts.UseColor)
	result := &Result{}

	for _, p := range sortedKeys(want) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !have[p] {
			result.Added = append(result.Added, p)
			continue
		}

		onDisk, err := util.ReadFile(diskFS, p)
		if err != nil {
			return nil, oerrors.NewIOError(filepath.Join(projectDir, p), err)
		}
		fresh, err := util.ReadFile(renderedFS, p)
		if err != nil {
			return nil, oerrors.NewIOError(p, err)
		}

		d, err := comparer.Compare(p, onDisk, fresh)
		if err != nil {
			return nil, err
		}
		if d != "" {
			result.Modified = append(result.Modified, output.ModifiedItem{Path: p, Diff: d})
		}
	}

	for _, p := range sortedKeys(have) {
		if !want[p] {
			result.Removed = append(result.Removed, p)
		}
	}

	output.Debug("project compared", "path", projectDir,
		"added", len(result.Added), "removed", len(result.Removed), "modified", len(result.Modified))
	return result, nil
}

// listFiles returns the regular files below the root of fsys. skipIgnored
// prunes tool-managed directories.
func listFiles(fsys billy.Filesystem, skipIgnored bool) (map[string]bool, error) {
	files := make(map[string]bool)
	err := util.Walk(fsys, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if skipIgnored && p != "/" && (ignoredDirs[name] || strings.HasSuffix(name, ".egg-info")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		files[strings.TrimPrefix(filepath.ToSlash(p), "/")] = true
		return nil
	})
	return files, err
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
