package domain

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

// Action is a direct callback a target runs before its task list.
type Action func(ec *Context) error

// step pairs a task with the execution mode it was attached with.
type step struct {
	task Task
	mode ExecutionMode
}

// Target is a named, at-most-once-per-run unit of dependency-ordered work
// combining an optional direct action and an ordered task list. A Target is
// itself a work unit: its execution goes through the same wrapper as every
// other task.
type Target struct {
	*Unit[int]

	name         string
	description  string
	hidden       bool
	dependencies []string
	steps        []step
	action       Action
	registry     *Registry
}

// NewTarget creates a standalone target. It must be attached to a registry
// (Registry.Define creates attached targets directly, Registry.Add attaches
// existing ones) before it can run.
func NewTarget(name string) *Target {
	t := &Target{name: name}
	t.Unit = NewUnit("", t.doExecute)
	return t
}

// Name returns the target's unique name.
func (t *Target) Name() string {
	return t.name
}

// Description returns the target's description. It shadows the embedded
// unit's description, which stays empty so the runner's own log line is the
// only per-target banner.
func (t *Target) Description() string {
	return t.description
}

// Hidden reports whether the target is hidden from listings.
func (t *Target) Hidden() bool {
	return t.hidden
}

// Dependencies returns the declared dependency names in order. Duplicates
// are kept as declared; the executed-set makes repeats a no-op at run time.
func (t *Target) Dependencies() []string {
	deps := make([]string, len(t.dependencies))
	copy(deps, t.dependencies)
	return deps
}

// DependsOn appends the given target names to the dependency list.
func (t *Target) DependsOn(names ...string) *Target {
	t.dependencies = append(t.dependencies, names...)
	return t
}

// DependsOnTargets appends the given targets to the dependency list,
// recorded by name and resolved lazily at execution time.
func (t *Target) DependsOnTargets(targets ...*Target) *Target {
	for _, dep := range targets {
		t.dependencies = append(t.dependencies, dep.name)
	}
	return t
}

// Does sets the target's direct action. It fails with ErrActionAlreadySet
// if an action was set before; use OverrideDoes to replace unconditionally.
func (t *Target) Does(action Action) error {
	if t.action != nil {
		return zerr.With(ErrActionAlreadySet, "target", t.name)
	}
	t.action = action
	return nil
}

// OverrideDoes replaces the target's action unconditionally.
func (t *Target) OverrideDoes(action Action) *Target {
	t.action = action
	return t
}

// SetDescription sets the target's description.
func (t *Target) SetDescription(description string) *Target {
	t.description = description
	return t
}

// Hide marks the target as hidden from listings.
func (t *Target) Hide() *Target {
	t.hidden = true
	return t
}

// SetAsDefault registers this target as the registry's default.
func (t *Target) SetAsDefault() error {
	if t.registry == nil {
		return zerr.With(ErrNotAttached, "target", t.name)
	}
	return t.registry.SetDefault(t.name)
}

// AddTasks appends tasks in synchronous mode.
func (t *Target) AddTasks(tasks ...Task) *Target {
	for _, task := range tasks {
		t.steps = append(t.steps, step{task: task, mode: Synchronous})
	}
	return t
}

// AddTasksInParallel appends tasks in parallel mode.
func (t *Target) AddTasksInParallel(tasks ...Task) *Target {
	for _, task := range tasks {
		t.steps = append(t.steps, step{task: task, mode: Parallel})
	}
	return t
}

// doExecute is the target runner. It runs behind the work-unit wrapper, so
// timing and depth bookkeeping are already in place when it starts.
func (t *Target) doExecute(ec *Context) (int, error) {
	if t.registry == nil {
		return 0, zerr.With(ErrNotAttached, "target", t.name)
	}

	ec.LogInfo("Executing target " + t.name)

	// Dedup barrier. Marking before dependency recursion keeps mutually
	// dependent targets from recursing forever: the second entry sees the
	// mark and skips the body.
	if !t.registry.MarkExecuted(t) {
		return 0, nil
	}

	if err := t.registry.EnsureDependenciesExecuted(ec, t.name); err != nil {
		return 0, err
	}

	if !ec.Requested(t.name) {
		return 0, NewTaskExecutionError(NotRequestedExitCode,
			fmt.Sprintf("target %s is not requested for execution", t.name))
	}

	if t.action != nil {
		if err := t.action(ec); err != nil {
			return 0, err
		}
	}

	if err := t.runSteps(ec); err != nil {
		return 0, err
	}

	return 0, nil
}

// stepGroup is a maximal run of same-mode steps produced by groupSteps.
type stepGroup struct {
	mode  ExecutionMode
	tasks []Task
}

// groupSteps partitions the ordered step list into maximal runs of
// consecutive Parallel steps; every Synchronous step forms its own group.
func groupSteps(steps []step) []stepGroup {
	var groups []stepGroup
	for _, s := range steps {
		last := len(groups) - 1
		if s.mode == Parallel && last >= 0 && groups[last].mode == Parallel {
			groups[last].tasks = append(groups[last].tasks, s.task)
			continue
		}
		groups = append(groups, stepGroup{mode: s.mode, tasks: []Task{s.task}})
	}
	return groups
}

// runSteps executes the task list group by group. A parallel group is fully
// joined before the next group starts: every member is awaited even when a
// sibling fails, and all failures surface together.
func (t *Target) runSteps(ec *Context) error {
	for _, group := range groupSteps(t.steps) {
		if group.mode == Synchronous {
			if err := group.tasks[0].Run(ec); err != nil {
				return err
			}
			continue
		}

		completions := make([]Completion, len(group.tasks))
		for i, task := range group.tasks {
			completions[i] = task.Launch(ec)
		}
		var errs []error
		for _, c := range completions {
			if err := c.Wait(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
	}
	return nil
}
