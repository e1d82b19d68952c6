// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that the engine command could not be located or
	// executed.
	ErrNotFound = errors.New("conversion engine not found")

	// ErrTimeout reports that the engine did not finish within the runner's
	// wait bound.
	ErrTimeout = errors.New("conversion engine timed out")

	// ErrNonZeroExit reports that the engine ran but failed.
	ErrNonZeroExit = errors.New("conversion engine failed")
)

// NotFoundError names the command that could not be started and how to fix
// it. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Command string
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("conversion engine %q could not be started (%v); install pandoc or set \"engine\" in the pandoc-region config", e.Command, e.Err)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitError carries the exit status and captured stderr of a failed engine
// run. It matches ErrNonZeroExit with errors.Is. Code is -1 when the process
// failed without reporting a status.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
	if e.Code < 0 {
		msg = fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Is(target error) bool { return target == ErrNonZeroExit }

func (e *ExitError) Unwrap() error { return e.Err }
