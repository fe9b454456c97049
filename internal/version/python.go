package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinPython is the oldest interpreter generated projects declare support for.
const MinPython = "3.9"

var pythonVersionRegex = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// PythonInfo describes the interpreter the smoke test would use.
type PythonInfo struct {
	Version    string `json:"version"`
	Path       string `json:"path"`
	Found      bool   `json:"found"`
	Compatible bool   `json:"compatible"`
	Message    string `json:"message,omitempty"`
}

// DetectPython finds python3 (or python) in PATH and reads its version.
func DetectPython(ctx context.Context) PythonInfo {
	var path string
	for _, name := range []string{"python3", "python"} {
		if p, err := exec.LookPath(name); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return PythonInfo{Message: "Python interpreter not found in PATH"}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Stdout = &out
	// Python 2 prints its version on stderr.
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return PythonInfo{Path: path, Found: true, Message: "failed to get Python version: " + err.Error()}
	}

	v, err := extractPythonVersion(out.String())
	if err != nil {
		return PythonInfo{Path: path, Found: true, Message: err.Error()}
	}

	info := PythonInfo{Version: v, Path: path, Found: true, Compatible: PythonCompatible(v)}
	if !info.Compatible {
		info.Message = "generated projects require Python >= " + MinPython
	}
	return info
}

func extractPythonVersion(output string) (string, error) {
	m := pythonVersionRegex.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("failed to parse Python version from output: %s", strings.TrimSpace(output))
	}
	if m[3] == "" {
		return m[1] + "." + m[2], nil
	}
	return m[1] + "." + m[2] + "." + m[3], nil
}

// PythonCompatible reports whether version is at least MinPython. Only
// MAJOR.MINOR are compared.
func PythonCompatible(version string) bool {
	major, minor, ok := majorMinor(version)
	if !ok {
		return false
	}
	wantMajor, wantMinor, _ := majorMinor(MinPython)
	if major != wantMajor {
		return major > wantMajor
	}
	return minor >= wantMinor
}

func majorMinor(version string) (int, int, bool) {
	parts := strings.Split(strings.TrimPrefix(version, "v"), ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// String returns a human-readable interpreter summary.
func (p PythonInfo) String() string {
	if !p.Found {
		return "  Interpreter: not found\n  Path:        -"
	}
	status := "compatible"
	if !p.Compatible {
		status = p.Message
	}
	return fmt.Sprintf("  Interpreter: %s (%s)\n  Path:        %s", p.Version, status, p.Path)
}
