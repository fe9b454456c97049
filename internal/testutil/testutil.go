// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir creates a temporary directory for tests and returns a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "pybake-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to remove temp dir %s: %v", dir, err)
		}
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// Env is an isolated pybake environment: its own XDG homes and config file.
type Env struct {
	Root       string
	ConfigPath string
	ReplayDir  string
}

// Isolate points XDG_CONFIG_HOME, XDG_DATA_HOME and PYBAKE_CONFIG at a fresh
// temporary directory for the duration of the test. The config file is not
// created.
func Isolate(t *testing.T) *Env {
	t.Helper()
	root := t.TempDir()

	env := &Env{
		Root:       root,
		ConfigPath: filepath.Join(root, "config", "pybake", "config.yaml"),
		ReplayDir:  filepath.Join(root, "data", "pybake", "replay"),
	}

	for k, v := range env.vars() {
		t.Setenv(k, v)
	}
	return env
}

// Environ returns the current environment with the isolation variables
// applied, for subprocesses.
func (e *Env) Environ() []string {
	out := os.Environ()
	for k, v := range e.vars() {
		out = append(out, k+"="+v)
	}
	return out
}

func (e *Env) vars() map[string]string {
	return map[string]string{
		"XDG_CONFIG_HOME": filepath.Join(e.Root, "config"),
		"XDG_DATA_HOME":   filepath.Join(e.Root, "data"),
		"PYBAKE_CONFIG":   e.ConfigPath,
	}
}
