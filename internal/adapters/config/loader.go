// Package config provides the configuration loader for rig.
package config

import (
	"os"
	"sort"

	"go.trai.ch/rig/internal/adapters/fs"    //nolint:depguard // Builtin step kinds
	"go.trai.ch/rig/internal/adapters/shell" //nolint:depguard // Builtin step kinds
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	executor ports.Executor
	hasher   ports.Hasher
}

// NewFileConfigLoader creates a loader that builds command steps on the
// given executor and checksum steps on the given hasher.
func NewFileConfigLoader(executor ports.Executor, hasher ports.Hasher) *FileConfigLoader {
	return &FileConfigLoader{executor: executor, hasher: hasher}
}

// Load reads a Rigfile from the given path and returns the registry it
// describes.
func (l *FileConfigLoader) Load(path string) (*domain.Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var rigfile Rigfile
	if err := yaml.Unmarshal(data, &rigfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	return l.build(&rigfile)
}

func (l *FileConfigLoader) build(rigfile *Rigfile) (*domain.Registry, error) {
	registry := domain.NewRegistry()

	// Verify dependencies against the declared names before defining
	// anything, so a broken file fails as a whole.
	for name, dto := range rigfile.Targets {
		for _, dep := range dto.DependsOn {
			if _, declared := rigfile.Targets[dep]; !declared {
				return nil, zerr.With(zerr.With(zerr.New("missing dependency"), "missing_dependency", dep), "target", name)
			}
		}
	}

	// Define in sorted order for deterministic registry contents.
	names := make([]string, 0, len(rigfile.Targets))
	for name := range rigfile.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dto := rigfile.Targets[name]
		target, err := registry.Define(name)
		if err != nil {
			return nil, err
		}
		target.SetDescription(dto.Description).DependsOn(dto.DependsOn...)
		if dto.Hidden {
			target.Hide()
		}
		for _, stepDTO := range dto.Steps {
			if err := l.addStep(target, name, &stepDTO); err != nil {
				return nil, err
			}
		}
	}

	if rigfile.Default != "" {
		if err := registry.SetDefault(rigfile.Default); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func (l *FileConfigLoader) addStep(target *domain.Target, targetName string, dto *StepDTO) error {
	task, err := l.buildTask(dto)
	if err != nil {
		return zerr.With(err, "target", targetName)
	}

	mode, err := domain.ParseExecutionMode(dto.Mode)
	if err != nil {
		return zerr.With(err, "target", targetName)
	}
	if mode == domain.Parallel {
		target.AddTasksInParallel(task)
	} else {
		target.AddTasks(task)
	}
	return nil
}

func (l *FileConfigLoader) buildTask(dto *StepDTO) (domain.Task, error) {
	switch {
	case len(dto.Run) > 0 && len(dto.Checksum) > 0:
		return nil, zerr.With(zerr.New("step declares both run and checksum"), "step", dto.Name)
	case len(dto.Run) > 0:
		unit := shell.NewCommandTask(l.executor, dto.Name, &ports.Command{
			Argv:        dto.Run,
			WorkingDir:  dto.WorkingDir,
			Environment: dto.Environment,
		})
		if dto.DryRunSafe {
			unit.MarkDryRunSafe()
		}
		if dto.LogDuration {
			unit.LogDuration()
		}
		return unit, nil
	case len(dto.Checksum) > 0:
		unit := fs.NewChecksumTask(l.hasher, dto.Name, dto.Checksum)
		if dto.LogDuration {
			unit.LogDuration()
		}
		return unit, nil
	default:
		return nil, zerr.With(zerr.New("step declares no action"), "step", dto.Name)
	}
}
