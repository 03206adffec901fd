package domain

import (
	"context"
	"strings"
	"sync/atomic"
)

// Logger is the sink the execution context writes run output to.
// The consumer-side interface lives here so the core does not depend on any
// concrete logging adapter.
type Logger interface {
	Info(msg string)
	Error(err error)
}

// Context carries run-wide state: the logging sink, the current nesting
// depth, the set of targets explicitly requested for this run, and the
// dry-run flag. A single Context is shared by every target and task of one
// run; the depth counter is atomic because members of a parallel batch log
// through it concurrently.
type Context struct {
	ctx       context.Context
	logger    Logger
	requested []string
	dryRun    bool
	depth     atomic.Int32
}

// ContextOption configures a Context at construction time.
type ContextOption func(*Context)

// WithRequestedTargets restricts the run to the given target names. An empty
// list means no restriction.
func WithRequestedTargets(names []string) ContextOption {
	return func(c *Context) {
		c.requested = names
	}
}

// WithDryRun marks the run as a simulation.
func WithDryRun() ContextOption {
	return func(c *Context) {
		c.dryRun = true
	}
}

// NewContext creates an execution context writing to the given logger.
func NewContext(ctx context.Context, logger Logger, opts ...ContextOption) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	c := &Context{ctx: ctx, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Context returns the underlying context.Context for adapters that shell out.
// No cancellation is modeled inside the core itself.
func (c *Context) Context() context.Context {
	return c.ctx
}

// LogInfo logs a message indented to the current nesting depth.
func (c *Context) LogInfo(msg string) {
	c.logger.Info(strings.Repeat("  ", int(c.depth.Load())) + msg)
}

// LogError logs an error through the run's sink.
func (c *Context) LogError(err error) {
	c.logger.Error(err)
}

// IncreaseDepth increments the logging depth by one.
func (c *Context) IncreaseDepth() {
	c.depth.Add(1)
}

// DecreaseDepth decrements the logging depth by one.
func (c *Context) DecreaseDepth() {
	c.depth.Add(-1)
}

// Depth returns the current logging depth.
func (c *Context) Depth() int {
	return int(c.depth.Load())
}

// RequestedTargets returns the run's explicit target allow-list. A nil or
// empty result means the run is unrestricted.
func (c *Context) RequestedTargets() []string {
	return c.requested
}

// Requested reports whether the named target may execute in this run.
func (c *Context) Requested(name string) bool {
	if len(c.requested) == 0 {
		return true
	}
	for _, n := range c.requested {
		if n == name {
			return true
		}
	}
	return false
}

// DryRun reports whether this run is a simulation.
func (c *Context) DryRun() bool {
	return c.dryRun
}

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Error(error) {}
