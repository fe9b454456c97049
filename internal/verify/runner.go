package verify

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CmdResult holds the captured output of a finished process.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs an external command. A non-zero exit is reported through
// CmdResult.ExitCode; err is only set when the process could not run to
// completion.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (CmdResult, error)
}

// ExecRunner runs commands with os/exec. Cancelling ctx kills the process.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CmdResult{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, err
	}
	return result, nil
}
