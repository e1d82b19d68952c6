// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs the external conversion engine as a subprocess.
// Every call spawns one process with a discrete argument vector, feeds it a
// stdin payload, and waits for it up to a fixed timeout.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultCommand is the engine invoked when no path is configured. It is
	// resolved through PATH.
	DefaultCommand = "pandoc"

	// DefaultTimeout bounds every engine call unless overridden.
	DefaultTimeout = 1000 * time.Millisecond

	// waitDelay bounds how long Run keeps reading pipes after the process
	// has been killed.
	waitDelay = 250 * time.Millisecond
)

// Runner executes the engine with the given arguments and stdin payload and
// returns the captured stdout.
type Runner interface {
	Run(ctx context.Context, command string, args []string, stdin string) (string, error)
}

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	return cmd.Run()
}

// ProcessRunner implements Runner on top of os/exec.
type ProcessRunner struct {
	exec    executor
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a ProcessRunner.
type Option func(*ProcessRunner)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *ProcessRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(log *slog.Logger) Option {
	return func(r *ProcessRunner) {
		if log != nil {
			r.log = log
		}
	}
}

var defaultExec = &osExecutor{}

// NewRunner creates a ProcessRunner that spawns real processes.
func NewRunner(opts ...Option) *ProcessRunner {
	return newRunner(defaultExec, opts...)
}

func newRunner(exec executor, opts ...Option) *ProcessRunner {
	r := &ProcessRunner{
		exec:    exec,
		timeout: DefaultTimeout,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timeout returns the wait bound applied to every call.
func (r *ProcessRunner) Timeout() time.Duration { return r.timeout }

// Resolve returns the executable path command refers to, or a NotFoundError.
func (r *ProcessRunner) Resolve(command string) (string, error) {
	path, err := r.exec.LookPath(command)
	if err != nil {
		return "", &NotFoundError{Command: command, Err: err}
	}
	return path, nil
}

// Run spawns command with args, writes stdin to it and returns everything
// it printed on stdout. Arguments are passed as an argv, never through a
// shell.
func (r *ProcessRunner) Run(ctx context.Context, command string, args []string, stdin string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	start := time.Now()
	err := r.exec.RunPiped(ctx, command, args, strings.NewReader(stdin), &stdout, &stderr)
	r.log.Debug("engine call",
		"command", command,
		"args", args,
		"stdin_bytes", len(stdin),
		"stdout_bytes", stdout.Len(),
		"elapsed", time.Since(start),
		"error", err,
	)
	if err != nil {
		return "", r.classify(ctx, command, err, stderr.String())
	}
	return stdout.String(), nil
}

// classify maps a raw execution error onto the engine error taxonomy.
func (r *ProcessRunner) classify(ctx context.Context, command string, err error, stderr string) error {
	switch {
	case errors.Is(err, exec.ErrNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return &NotFoundError{Command: command, Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %s did not finish within %s", ErrTimeout, command, r.timeout)
	case ctx.Err() != nil:
		return fmt.Errorf("running %s: %w", command, ctx.Err())
	}

	exitErr := &ExitError{
		Command: command,
		Code:    -1,
		Stderr:  strings.TrimSpace(stderr),
		Err:     err,
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		exitErr.Code = ee.ExitCode()
	}
	return exitErr
}

// Version runs command --version and returns the first non-empty line it
// prints, e.g. "pandoc 3.1.11".
func Version(ctx context.Context, r Runner, command string) (string, error) {
	out, err := r.Run(ctx, command, []string{"--version"}, "")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("%s --version printed nothing", command)
}
