// Package app implements the application layer for rig.
package app

import (
	"context"

	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/session"
	"go.trai.ch/zerr"
)

// DefaultConfigFile is the build definition rig looks for when no config
// path is given.
const DefaultConfigFile = "rig.yaml"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	session      *session.Session
	configPath   string
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, sess *session.Session) *App {
	return &App{
		configLoader: loader,
		session:      sess,
		configPath:   DefaultConfigFile,
	}
}

// SetConfigPath overrides the build definition path. Called from the CLI's
// config hook before any command runs.
func (a *App) SetConfigPath(path string) {
	if path != "" {
		a.configPath = path
	}
}

// RunOptions configures the Run method.
type RunOptions struct {
	DryRun bool
}

// Run executes the build for the specified targets. With no targets the
// registry's default target runs.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	registry, err := a.configLoader.Load(a.configPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	return a.session.Run(ctx, registry, targetNames, opts.DryRun)
}

// TargetInfo describes one registered target for listings.
type TargetInfo struct {
	Name        string
	Description string
	Default     bool
	Hidden      bool
}

// ListTargets returns the registered targets sorted by name. Hidden targets
// are included only when showHidden is set.
func (a *App) ListTargets(showHidden bool) ([]TargetInfo, error) {
	registry, err := a.configLoader.Load(a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	defaultName := ""
	if target, ok := registry.Default(); ok {
		defaultName = target.Name()
	}

	var infos []TargetInfo
	for _, target := range registry.All() {
		if target.Hidden() && !showHidden {
			continue
		}
		infos = append(infos, TargetInfo{
			Name:        target.Name(),
			Description: target.Description(),
			Default:     target.Name() == defaultName,
			Hidden:      target.Hidden(),
		})
	}
	return infos, nil
}
