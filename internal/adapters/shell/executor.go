// Package shell provides the shell executor adapter and the command work
// unit built on top of it.
package shell

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor streaming command output to the given
// logger.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs the command. The process environment is the system
// environment with the command's own variables layered on top. Stdout and
// stderr stream to the logger line by line.
func (e *Executor) Execute(ctx context.Context, cmd *ports.Command) error {
	if cmd == nil || len(cmd.Argv) == 0 {
		return nil
	}

	name := cmd.Argv[0]
	args := cmd.Argv[1:]

	c := exec.CommandContext(ctx, name, args...) //nolint:gosec // user provided command
	if cmd.WorkingDir != "" {
		c.Dir = cmd.WorkingDir
	}
	c.Env = mergeEnvironment(os.Environ(), cmd.Environment)
	c.Stdout = &logWriter{logger: e.logger}
	c.Stderr = &logWriter{logger: e.logger, warn: true}

	if err := c.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "command", name), "exit_code", exitCode)
	}
	return nil
}

// mergeEnvironment layers overrides on top of the base KEY=VALUE list.
func mergeEnvironment(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	merged := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if _, overridden := overrides[key]; overridden {
				continue
			}
		}
		merged = append(merged, kv)
	}
	for key, value := range overrides {
		merged = append(merged, key+"="+value)
	}
	return merged
}

type logWriter struct {
	logger ports.Logger
	warn   bool
}

func (w *logWriter) Write(p []byte) (int, error) {
	for line := range strings.Lines(string(p)) {
		line = strings.TrimRight(line, "\n")
		if line == "" {
			continue
		}
		if w.warn {
			w.logger.Warn(line)
		} else {
			w.logger.Info(line)
		}
	}
	return len(p), nil
}
