package domain

import (
	"fmt"
	"time"
)

// Logic is the concrete behavior a work unit wraps.
type Logic[R any] func(ec *Context) (R, error)

// Task is the mode-agnostic execution surface the target runner drives a
// work unit through, independent of the unit's result type. Typed results
// stay reachable through the concrete *Unit[R].
type Task interface {
	Description() string
	DryRunSafe() bool
	// Run executes the unit synchronously through the wrapper.
	Run(ec *Context) error
	// Launch starts the unit in the background and returns its join handle.
	Launch(ec *Context) Completion
}

// Completion is the join handle of a launched task.
type Completion interface {
	Wait() error
}

// Unit decorates arbitrary task logic with a cumulative wall-clock timer,
// depth-scoped logging and a dry-run-safety flag. Every task, regardless of
// what it does, executes only through this wrapper.
//
// The timer and depth bookkeeping are per-invocation state: one unit
// instance supports one concurrent invocation at a time. Reusing the same
// instance inside a parallel batch is not supported.
type Unit[R any] struct {
	description string
	dryRunSafe  bool
	logDuration bool
	elapsed     time.Duration
	logic       Logic[R]
}

// NewUnit wraps the given logic in a work unit. The description, when
// non-empty, is logged at the current depth on every invocation.
func NewUnit[R any](description string, logic Logic[R]) *Unit[R] {
	return &Unit[R]{description: description, logic: logic}
}

// MarkDryRunSafe flags the unit as safe to execute during a dry run.
func (u *Unit[R]) MarkDryRunSafe() *Unit[R] {
	u.dryRunSafe = true
	return u
}

// LogDuration makes the wrapper log the description and cumulative elapsed
// whole seconds after every invocation completes.
func (u *Unit[R]) LogDuration() *Unit[R] {
	u.logDuration = true
	return u
}

// Description returns the unit's human-readable description.
func (u *Unit[R]) Description() string {
	return u.description
}

// DryRunSafe reports whether the unit may execute during a dry run.
func (u *Unit[R]) DryRunSafe() bool {
	return u.dryRunSafe
}

// Elapsed returns the cumulative wall-clock time spent in the unit across
// all invocations so far.
func (u *Unit[R]) Elapsed() time.Duration {
	return u.elapsed
}

// Execute runs the unit synchronously. Timer and depth bookkeeping are
// symmetric on every exit path: the cleanup runs even when the logic fails,
// and the failure propagates afterwards, never swallowed.
func (u *Unit[R]) Execute(ec *Context) (R, error) {
	var zero R
	if ec == nil {
		return zero, ErrContextRequired
	}

	start := time.Now()
	if u.description != "" {
		ec.LogInfo(u.description)
	}
	ec.IncreaseDepth()
	defer func() {
		u.elapsed += time.Since(start)
		ec.DecreaseDepth()
		if u.logDuration {
			ec.LogInfo(fmt.Sprintf("%s finished (took %d seconds)", u.description, int(u.elapsed.Seconds())))
		}
	}()

	return u.logic(ec)
}

// Run executes the unit synchronously, discarding the typed result.
func (u *Unit[R]) Run(ec *Context) error {
	_, err := u.Execute(ec)
	return err
}

// Start runs the unit on a background goroutine and returns a typed join
// handle.
func (u *Unit[R]) Start(ec *Context) *Pending[R] {
	p := &Pending[R]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.result, p.err = u.Execute(ec)
	}()
	return p
}

// Launch starts the unit in the background, exposing the boxed join handle.
func (u *Unit[R]) Launch(ec *Context) Completion {
	return u.Start(ec)
}

// Pending is the join handle for a work unit started in the background.
type Pending[R any] struct {
	done   chan struct{}
	result R
	err    error
}

// Join blocks until the unit completes and returns its typed result.
func (p *Pending[R]) Join() (R, error) {
	<-p.done
	return p.result, p.err
}

// Wait blocks until the unit completes and returns its error, if any.
func (p *Pending[R]) Wait() error {
	<-p.done
	return p.err
}
