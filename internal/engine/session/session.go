// Package session implements the run session driving a target registry.
package session

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
)

// Session executes one run of requested targets against a registry. The
// registry walks the dependency graph itself; the session resolves what was
// requested, computes the run's allow-list, emits the plan and wraps each
// requested target in a telemetry span.
type Session struct {
	logger ports.Logger
	tracer ports.Tracer
}

// New creates a new Session.
func New(logger ports.Logger, tracer ports.Tracer) *Session {
	return &Session{logger: logger, tracer: tracer}
}

// Run executes the named targets in order. When no names are given the
// registry's default target runs. The allow-list handed to the execution
// context is the union of the requested targets' dependency closures, so
// dependencies pass the runner's gate while any target reached outside the
// plan fails it.
func (s *Session) Run(ctx context.Context, registry *domain.Registry, targetNames []string, dryRun bool) error {
	if len(targetNames) == 0 {
		target, ok := registry.Default()
		if !ok {
			return domain.ErrNoDefaultTarget
		}
		targetNames = []string{target.Name()}
	}

	planned, err := plan(registry, targetNames)
	if err != nil {
		return err
	}
	s.tracer.EmitPlan(ctx, planned, targetNames)

	opts := []domain.ContextOption{domain.WithRequestedTargets(planned)}
	if dryRun {
		opts = append(opts, domain.WithDryRun())
	}
	ec := domain.NewContext(ctx, s.logger, opts...)

	start := time.Now()
	for _, name := range targetNames {
		_, span := s.tracer.Start(ctx, "target "+name)
		runErr := registry.RunTarget(ec, name)
		if runErr != nil {
			span.RecordError(runErr)
			span.End()
			return runErr
		}
		span.End()
	}
	s.logger.Info(fmt.Sprintf("Build finished in %.1fs", time.Since(start).Seconds()))

	return nil
}

// plan returns the union of the requested targets' dependency closures,
// dependency-first, each target once.
func plan(registry *domain.Registry, targetNames []string) ([]string, error) {
	seen := make(map[string]bool)
	var planned []string
	for _, name := range targetNames {
		closure, err := registry.Closure(name)
		if err != nil {
			return nil, err
		}
		for _, member := range closure {
			if seen[member] {
				continue
			}
			seen[member] = true
			planned = append(planned, member)
		}
	}
	return planned, nil
}
