package templates

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/pybake/internal/options"
)

var fixedNow = time.Date(2031, time.March, 4, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func loadDefaultTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := Load(DefaultTemplateName)
	require.NoError(t, err)
	return tree
}

func resolve(t *testing.T, overrides map[string]string) options.Resolved {
	t.Helper()
	cfg, err := options.Resolve(overrides)
	require.NoError(t, err)
	return cfg
}

// bakeInMemory materializes the default template into a memfs.
func bakeInMemory(t *testing.T, overrides map[string]string) (billy.Filesystem, *MaterializedTree) {
	t.Helper()
	out := memfs.New()
	result, err := Materialize(loadDefaultTree(t), resolve(t, overrides), out, WithClock(fixedClock))
	require.NoError(t, err)
	return out, result
}

func readFile(t *testing.T, fsys billy.Filesystem, p string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, p)
	require.NoError(t, err, "reading %s", p)
	return string(data)
}

func exists(fsys billy.Filesystem, p string) bool {
	_, err := fsys.Stat(p)
	return err == nil
}

func lines(s string) []string {
	return strings.SplitAfter(s, "\n")
}

// allFiles returns every regular file path in fsys.
func allFiles(t *testing.T, fsys billy.Filesystem) []string {
	t.Helper()
	var files []string
	err := util.Walk(fsys, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, strings.TrimPrefix(p, "/"))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}
