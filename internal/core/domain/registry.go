package domain

import (
	"sort"
	"sync"

	"go.trai.ch/zerr"
)

// Registry owns the full set of targets by name, the default-target slot and
// the set of targets already executed in the current run. Targets are
// attached to their registry at definition time; execution dedup runs
// through the registry's executed set.
type Registry struct {
	mu          sync.Mutex
	targets     map[string]*Target
	defaultName string
	executed    map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		targets:  make(map[string]*Target),
		executed: make(map[string]bool),
	}
}

// Define creates a target with the given name and registers it. It returns
// an error if the name is already taken.
func (r *Registry) Define(name string) (*Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.targets[name]; exists {
		return nil, zerr.With(ErrTargetAlreadyDefined, "target", name)
	}
	t := NewTarget(name)
	t.registry = r
	r.targets[name] = t
	return t, nil
}

// Add registers an existing target, attaching it to this registry.
func (r *Registry) Add(t *Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.targets[t.name]; exists {
		return zerr.With(ErrTargetAlreadyDefined, "target", t.name)
	}
	t.registry = r
	r.targets[t.name] = t
	return nil
}

// Lookup resolves a target by name.
func (r *Registry) Lookup(name string) (*Target, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.targets[name]
	return t, ok
}

// SetDefault marks the named target as the registry's default.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.targets[name]; !ok {
		return zerr.With(ErrTargetNotFound, "target", name)
	}
	r.defaultName = name
	return nil
}

// Default returns the default target, if one is configured.
func (r *Registry) Default() (*Target, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.defaultName == "" {
		return nil, false
	}
	t, ok := r.targets[r.defaultName]
	return t, ok
}

// MarkExecuted atomically checks and marks the target as executed for the
// current run. It returns false when the target was already marked, keeping
// the at-most-once invariant even if two dependents race to trigger the
// same dependency.
func (r *Registry) MarkExecuted(t *Target) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.executed[t.name] {
		return false
	}
	r.executed[t.name] = true
	return true
}

// Executed reports whether the named target has executed in the current run.
func (r *Registry) Executed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executed[name]
}

// ResetExecution clears the executed set, starting a fresh run.
func (r *Registry) ResetExecution() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executed = make(map[string]bool)
}

// EnsureDependenciesExecuted executes every not-yet-executed dependency of
// the named target, in declared order, recursively through each dependency's
// own wrapper. A dependency is fully finished before the next one starts.
func (r *Registry) EnsureDependenciesExecuted(ec *Context, name string) error {
	t, ok := r.Lookup(name)
	if !ok {
		return zerr.With(ErrTargetNotFound, "target", name)
	}

	for _, dep := range t.dependencies {
		if r.Executed(dep) {
			continue
		}
		depTarget, ok := r.Lookup(dep)
		if !ok {
			return zerr.With(zerr.With(ErrTargetNotFound, "dependency", dep), "dependent", name)
		}
		if err := depTarget.Run(ec); err != nil {
			return err
		}
	}
	return nil
}

// RunTarget executes the named target through its wrapper. An empty name
// resolves to the default target. Dependency cycles are tolerated rather
// than reported: the executed-set is marked before dependency recursion, so
// a cycle degenerates to "already executed, skip".
func (r *Registry) RunTarget(ec *Context, name string) error {
	var t *Target
	var ok bool
	if name == "" {
		if t, ok = r.Default(); !ok {
			return ErrNoDefaultTarget
		}
	} else if t, ok = r.Lookup(name); !ok {
		return zerr.With(ErrTargetNotFound, "target", name)
	}
	return t.Run(ec)
}

// Closure returns the dependency-first transitive closure of the named
// target, each member once, ending with the target itself. Declared order is
// preserved for first occurrences.
func (r *Registry) Closure(name string) ([]string, error) {
	seen := make(map[string]bool)
	var order []string

	var visit func(n string) error
	visit = func(n string) error {
		if seen[n] {
			return nil
		}
		seen[n] = true

		t, ok := r.Lookup(n)
		if !ok {
			return zerr.With(ErrTargetNotFound, "target", n)
		}
		for _, dep := range t.dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		order = append(order, n)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}
	return order, nil
}

// Names returns all registered target names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered targets, sorted by name.
func (r *Registry) All() []*Target {
	names := r.Names()

	r.mu.Lock()
	defer r.mu.Unlock()
	targets := make([]*Target, 0, len(names))
	for _, name := range names {
		targets = append(targets, r.targets[name])
	}
	return targets
}
