package domain

import "go.trai.ch/zerr"

// ExecutionMode tags a task with how the target runner schedules it.
type ExecutionMode int

const (
	// Synchronous runs the task inline, after all previously launched work
	// in the target has completed.
	Synchronous ExecutionMode = iota
	// Parallel launches the task in the background as part of the current
	// batch; the batch is joined before the next synchronous task starts.
	Parallel
)

// String returns the human-readable name of the mode.
func (m ExecutionMode) String() string {
	switch m {
	case Parallel:
		return "parallel"
	default:
		return "sync"
	}
}

// ParseExecutionMode maps a configuration string to an ExecutionMode.
// The empty string defaults to Synchronous.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch s {
	case "", "sync", "synchronous":
		return Synchronous, nil
	case "parallel":
		return Parallel, nil
	default:
		return Synchronous, zerr.With(zerr.New("unknown execution mode"), "mode", s)
	}
}
