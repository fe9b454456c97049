package diff

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
	"github.com/opmodel/pybake/internal/templates"
)

var fixedNow = time.Date(2031, time.March, 4, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// bakeProject bakes the default template into a temp dir and returns the
// project path with the options used.
func bakeProject(t *testing.T, overrides map[string]string) (string, Options) {
	t.Helper()

	tree, err := templates.Load(templates.DefaultTemplateName)
	require.NoError(t, err)
	cfg, err := options.Resolve(overrides)
	require.NoError(t, err)

	outDir := t.TempDir()
	result, err := templates.Bake(context.Background(), templates.BakeOptions{
		Tree:      tree,
		Config:    cfg,
		OutputDir: outDir,
		Now:       fixedClock,
	})
	require.NoError(t, err)

	return filepath.Join(outDir, result.ProjectDir), Options{Tree: tree, Config: cfg, Now: fixedClock}
}

func withOverrides(t *testing.T, opts Options, overrides map[string]string) Options {
	t.Helper()
	cfg, err := options.Resolve(overrides)
	require.NoError(t, err)
	opts.Config = cfg
	return opts
}

func TestProject_Unchanged(t *testing.T) {
	dir, opts := bakeProject(t, nil)

	result, err := Project(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty(), "freshly baked project should match: %+v", result)
}

func TestProject_ModifiedText(t *testing.T) {
	dir, opts := bakeProject(t, nil)
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# hand edited\n"), 0o644))

	result, err := Project(context.Background(), dir, opts)
	require.NoError(t, err)

	require.Len(t, result.Modified, 1)
	assert.Equal(t, "README.md", result.Modified[0].Path)
	assert.Contains(t, result.Modified[0].Diff, "-# hand edited")
	assert.Contains(t, result.Modified[0].Diff, "+# Python Project")
	assert.Empty(t, result.Added)
	assert.Empty(t, result.Removed)
}

func TestProject_AddedAndRemoved(t *testing.T) {
	dir, opts := bakeProject(t, nil)
	require.NoError(t, os.Remove(filepath.Join(dir, "LICENSE")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NOTES.txt"), []byte("mine\n"), 0o644))

	result, err := Project(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"LICENSE"}, result.Added)
	assert.Equal(t, []string{"NOTES.txt"}, result.Removed)
}

func TestProject_OptionChangeShowsConditionalFiles(t *testing.T) {
	dir, opts := bakeProject(t, map[string]string{"create_author_file": "n"})

	result, err := Project(context.Background(), dir, withOverrides(t, opts, nil))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"AUTHORS.md", "docs/authors.md"}, result.Added)

	var modified []string
	for _, m := range result.Modified {
		modified = append(modified, m.Path)
	}
	assert.Contains(t, modified, "mkdocs.yml")
}

func TestProject_IgnoresToolDirectories(t *testing.T) {
	dir, opts := bakeProject(t, nil)
	for _, p := range []string{".git/HEAD", "python_project/__pycache__/cli.cpython-312.pyc", "python_project.egg-info/PKG-INFO"} {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}

	result, err := Project(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty(), "tool directories should be ignored: %+v", result)
}

func TestProject_LeavesDiskUntouched(t *testing.T) {
	dir, opts := bakeProject(t, nil)
	require.NoError(t, os.Remove(filepath.Join(dir, "README.md")))

	_, err := Project(context.Background(), dir, opts)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestProject_MissingDirectory(t *testing.T) {
	_, opts := bakeProject(t, nil)
	_, err := Project(context.Background(), filepath.Join(t.TempDir(), "nope"), opts)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestProject_NotADirectory(t *testing.T) {
	_, opts := bakeProject(t, nil)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := Project(context.Background(), file, opts)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestProject_Cancelled(t *testing.T) {
	dir, opts := bakeProject(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Project(ctx, dir, opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComparer_YAMLStructural(t *testing.T) {
	c := NewComparer(false)

	d, err := c.Compare("mkdocs.yml", []byte("site_name: old\ntheme:\n  name: readthedocs\n"),
		[]byte("site_name: new\ntheme:\n  name: readthedocs\n"))
	require.NoError(t, err)
	assert.Contains(t, d, "site_name")
	assert.Contains(t, d, "old")
	assert.Contains(t, d, "new")
	assert.False(t, strings.HasPrefix(d, "---"), "structural report expected, got unified diff")
}

func TestComparer_YAMLFormattingOnly(t *testing.T) {
	c := NewComparer(false)

	d, err := c.Compare("mkdocs.yml", []byte("site_name:   same\n"), []byte("site_name: same\n"))
	require.NoError(t, err)
	assert.Contains(t, d, "--- a/mkdocs.yml")
	assert.Contains(t, d, "+site_name: same")
}

func TestComparer_InvalidYAMLFallsBackToText(t *testing.T) {
	c := NewComparer(false)

	d, err := c.Compare("mkdocs.yml", []byte("site_name: [\n"), []byte("site_name: ok\n"))
	require.NoError(t, err)
	assert.Contains(t, d, "-site_name: [")
	assert.Contains(t, d, "+site_name: ok")
}

func TestComparer_Equal(t *testing.T) {
	d, err := NewComparer(false).Compare("a.txt", []byte("same"), []byte("same"))
	require.NoError(t, err)
	assert.Empty(t, d)
}
