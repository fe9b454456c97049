package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2031, time.March, 4, 12, 0, 0, 0, time.UTC)

// testEnv is an isolated config file with its own output and replay dirs.
type testEnv struct {
	dir        string
	configPath string
	outputDir  string
	replayDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		outputDir:  filepath.Join(dir, "out"),
		replayDir:  filepath.Join(dir, "replay"),
	}
	env.writeConfig(t, "replay_dir: "+env.replayDir+"\noutput_dir: "+env.outputDir+"\nlog:\n  timestamps: false\n")
	t.Setenv("PYBAKE_CONFIG", env.configPath)
	return env
}

func (e *testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.configPath, []byte(content), 0o644))
}

func (e *testEnv) project(name string) string {
	return filepath.Join(e.outputDir, name)
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(&GlobalConfig{Now: func() time.Time { return fixedNow }})

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}
