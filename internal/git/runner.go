package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// CommandRunner executes an external command. The returned exit code is
// meaningful only when err is nil; err reports that the process could not be
// started, was killed, or timed out.
type CommandRunner interface {
	Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error)
}

// ExecRunner runs commands with os/exec, bounding each one by Timeout.
type ExecRunner struct {
	// Timeout bounds a single command. Zero disables the limit.
	Timeout time.Duration
}

// Run implements CommandRunner.
func (r ExecRunner) Run(
	ctx context.Context,
	dir string,
	stdout, stderr io.Writer,
	name string,
	args ...string,
) (int, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return -1, fmt.Errorf("%s timed out after %s: %w", name, r.Timeout, ctxErr)
		}
		return -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("running %s: %w", name, err)
	}
	return 0, nil
}
