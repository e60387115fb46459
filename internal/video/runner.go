package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts subprocess execution so the ffmpeg and ffprobe
// invocations can be faked in tests.
type Runner interface {
	// Run executes a command and waits for it. A non-zero exit yields an
	// *ExitError carrying the captured stderr.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its stdout. Failures follow the
	// same *ExitError convention as Run.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// LookPath resolves an executable on PATH.
	LookPath(name string) (string, error)
}

// ExitError reports a subprocess that terminated with a non-zero status.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %s", e.Name, e.Stderr)
	}
	return fmt.Sprintf("%s failed with exit code %d", e.Name, e.Code)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	return wrapExit(name, stderr.String, cmd.Run())
}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := wrapExit(name, stderr.String, cmd.Run()); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func wrapExit(name string, stderr func() string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Name:   name,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr()),
		}
	}
	return fmt.Errorf("run %s: %w", name, err)
}
