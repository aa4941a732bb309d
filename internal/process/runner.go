// Package process runs external commands with a controlled environment and
// captures their output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Command describes one external tool invocation.
type Command struct {
	// Name is the executable, resolved through PATH when not absolute.
	Name string

	// Args excludes the executable itself.
	Args []string

	// Dir is the working directory. Empty means the caller's directory.
	Dir string

	// Env is the complete child environment as KEY=VALUE pairs.
	// The parent environment is not inherited.
	Env []string
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of one completed invocation.
type Result struct {
	Success     bool   `json:"success"`
	ExitCode    int    `json:"exit_code"`
	Output      string `json:"output"`
	ErrorOutput string `json:"error_output"`
}

// Runner executes commands.
// This allows faking the tagging tools in tests.
type Runner interface {
	// Run blocks until the process exits. The error is non-nil only when
	// the process could not be started; a non-zero exit status is reported
	// through Result.
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ErrStart wraps failures to launch a process.
var ErrStart = errors.New("failed to start process")

// execRunner is the real implementation using exec.CommandContext.
type execRunner struct {
	logger *slog.Logger
}

// NewRunner returns the default os/exec backed runner.
// No timeout is applied; ctx only ends the process if the caller cancels it.
func NewRunner(logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &execRunner{logger: logger}
}

func (r *execRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	// A nil Env would inherit the parent environment.
	cmd.Env = append([]string{}, c.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	took := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			r.logger.Debug("process start failed", "cmd", c.String(), "dir", c.Dir, "error", err)
			return Result{}, fmt.Errorf("%w: %s: %w", ErrStart, c.Name, err)
		}
	}

	res := Result{
		ExitCode:    cmd.ProcessState.ExitCode(),
		Output:      stdout.String(),
		ErrorOutput: stderr.String(),
	}
	res.Success = res.ExitCode == 0

	r.logger.Debug("process finished",
		"cmd", c.String(),
		"dir", c.Dir,
		"exit_code", res.ExitCode,
		"stdout_bytes", len(res.Output),
		"stderr_bytes", len(res.ErrorOutput),
		"took", took)

	return res, nil
}

// LookPath reports where name resolves on the current PATH.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	return path, nil
}
