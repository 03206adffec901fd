package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrContextRequired is returned when a work unit is executed without an
	// execution context.
	ErrContextRequired = zerr.New("execution context is required")

	// ErrNotAttached is returned when a target is executed without being
	// attached to a registry.
	ErrNotAttached = zerr.New("target is not attached to a registry")

	// ErrActionAlreadySet is returned when Does is called on a target that
	// already has an action.
	ErrActionAlreadySet = zerr.New("target action is already set")

	// ErrTargetAlreadyDefined is returned when defining a target whose name
	// is already taken.
	ErrTargetAlreadyDefined = zerr.New("target already defined")

	// ErrTargetNotFound is returned when a requested target or dependency is
	// not registered.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrNoDefaultTarget is returned when a run names no targets and no
	// default target is configured.
	ErrNoDefaultTarget = zerr.New("no default target configured")
)

// NotRequestedExitCode is the exit-code hint carried by the error raised when
// a target executes outside the run's requested set.
const NotRequestedExitCode = 3

// TaskExecutionError is a semantic run-time failure carrying a process
// exit-code hint for the caller that owns the process boundary. Concrete
// tasks may reuse it for their own domain failures.
type TaskExecutionError struct {
	ExitCode int
	Reason   string
}

// NewTaskExecutionError creates a TaskExecutionError with the given exit
// code and reason.
func NewTaskExecutionError(exitCode int, reason string) *TaskExecutionError {
	return &TaskExecutionError{ExitCode: exitCode, Reason: reason}
}

// Error implements the error interface.
func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("%s (exit code %d)", e.Reason, e.ExitCode)
}
