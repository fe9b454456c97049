// Package verify runs the command line entry point of a baked project.
package verify

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
	"github.com/opmodel/pybake/internal/output"
)

// DefaultTimeout bounds each interpreter run.
const DefaultTimeout = 30 * time.Second

// clickHelpMarker is printed by every click command's --help.
const clickHelpMarker = "Show this message and exit."

// Result describes a smoke test. A skipped test carries the reason.
type Result struct {
	Skipped bool
	Reason  string

	// Runs holds the output of each interpreter run, in order.
	Runs []Run
}

// Run is one interpreter invocation.
type Run struct {
	Args   []string
	Output string
}

// SmokeTest runs a project's cli.py.
type SmokeTest struct {
	// Interpreters are tried in order. Defaults to python3, python.
	Interpreters []string

	// Timeout bounds each run. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Runner executes the interpreter. Defaults to ExecRunner.
	Runner Runner

	// LookPath finds an interpreter. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewSmokeTest returns a SmokeTest with the defaults filled in.
func NewSmokeTest() *SmokeTest {
	return &SmokeTest{
		Interpreters: []string{"python3", "python"},
		Timeout:      DefaultTimeout,
		Runner:       ExecRunner{},
		LookPath:     exec.LookPath,
	}
}

// Run checks the entry point of the project baked at projectPath with cfg.
// It runs cli.py without arguments and with --help. Output that lacks the
// expected markers fails with ErrRender. A missing interpreter, or a missing
// click module, skips the test.
func (s *SmokeTest) Run(ctx context.Context, projectPath string, cfg options.Resolved) (*Result, error) {
	cli := cfg.Value(options.CommandLineInterface)
	if cli == options.CLINone {
		return &Result{Skipped: true, Reason: "project has no command line interface"}, nil
	}

	python, ok := s.findInterpreter()
	if !ok {
		return &Result{
			Skipped: true,
			Reason:  fmt.Sprintf("no Python interpreter found (tried %s)", strings.Join(s.interpreters(), ", ")),
		}, nil
	}

	script := filepath.Join(cfg.Value(options.PackageName), "cli.py")
	logger := output.ProjectLogger(filepath.Base(projectPath))
	result := &Result{}

	for _, args := range [][]string{nil, {"--help"}} {
		logger.Debug("running entry point", "python", python, "args", args)

		res, err := s.runOnce(ctx, projectPath, python, append([]string{script}, args...))
		if err != nil {
			return nil, oerrors.NewRenderError(filepath.Join(projectPath, script),
				fmt.Errorf("running %s: %w", python, err))
		}

		if cli == options.CLIClick && missingModule(res.Stderr, "click") {
			return &Result{Skipped: true, Reason: "the click module is not installed for " + python}, nil
		}
		if res.ExitCode != 0 {
			return nil, oerrors.NewRenderError(filepath.Join(projectPath, script),
				fmt.Errorf("exit code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr)))
		}

		if err := expectOutput(cli, cfg, args, res.Stdout); err != nil {
			return nil, oerrors.NewRenderError(filepath.Join(projectPath, script), err)
		}
		result.Runs = append(result.Runs, Run{Args: args, Output: res.Stdout})
	}

	return result, nil
}

func (s *SmokeTest) runOnce(ctx context.Context, dir, python string, args []string) (CmdResult, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := s.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return runner.Run(ctx, dir, python, args...)
}

func (s *SmokeTest) interpreters() []string {
	if len(s.Interpreters) == 0 {
		return []string{"python3", "python"}
	}
	return s.Interpreters
}

func (s *SmokeTest) findInterpreter() (string, bool) {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range s.interpreters() {
		if p, err := lookPath(name); err == nil {
			return p, true
		}
	}
	return "", false
}

func missingModule(stderr, module string) bool {
	return strings.Contains(stderr, "No module named '"+module+"'") ||
		strings.Contains(stderr, "No module named "+module)
}

// expectOutput checks the markers each interface prints.
func expectOutput(cli string, cfg options.Resolved, args []string, stdout string) error {
	help := len(args) > 0

	var want string
	switch {
	case cli == options.CLIClick && help:
		want = clickHelpMarker
	case cli == options.CLIClick:
		want = cfg.Value(options.ProjectNameSlug)
	case cli == options.CLIArgparse && help:
		want = "usage:"
	case cli == options.CLIArgparse:
		want = "[]"
	default:
		return nil
	}

	if !strings.Contains(stdout, want) {
		return fmt.Errorf("output of cli.py %s does not contain %q:\n%s",
			strings.Join(args, " "), want, stdout)
	}
	return nil
}
