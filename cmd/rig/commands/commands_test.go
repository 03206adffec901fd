package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/cmd/rig/commands"
	"go.trai.ch/rig/internal/adapters/config"
	"go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/adapters/shell"
	"go.trai.ch/rig/internal/adapters/telemetry"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/build"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/session"
)

type discardLogger struct{}

func (discardLogger) Info(string)         {}
func (discardLogger) Warn(string)         {}
func (discardLogger) Error(error)         {}
func (discardLogger) SetOutput(io.Writer) {}

func newCLI() *commands.CLI {
	log := discardLogger{}
	loader := config.NewFileConfigLoader(shell.NewExecutor(log), fs.NewHasher())
	sess := session.New(log, telemetry.NewNoOpTracer())
	return commands.New(app.New(loader, sess))
}

func writeRigfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := newCLI()
	var out bytes.Buffer
	cli.SetOutput(&out)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, build.Version+"\n", out)
}

func TestRunCommand(t *testing.T) {
	path := writeRigfile(t, `
version: "1"
default: build
targets:
  build:
    steps:
      - run: ["true"]
`)

	_, err := execute(t, "--config", path, "run")
	require.NoError(t, err)
}

func TestRunCommandFailure(t *testing.T) {
	path := writeRigfile(t, `
version: "1"
targets:
  broken:
    steps:
      - run: ["false"]
`)

	_, err := execute(t, "--config", path, "run", "broken")
	require.Error(t, err)
}

func TestRunCommandDryRun(t *testing.T) {
	path := writeRigfile(t, `
version: "1"
targets:
  broken:
    steps:
      - run: ["false"]
`)

	// With --dry-run the failing command is skipped instead of executed.
	_, err := execute(t, "--config", path, "run", "--dry-run", "broken")
	require.NoError(t, err)
}

func TestRunCommandMissingConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestTargetsCommand(t *testing.T) {
	path := writeRigfile(t, `
version: "1"
default: build
targets:
  build:
    description: compile everything
    steps:
      - run: ["true"]
  prep:
    hidden: true
    steps:
      - run: ["true"]
`)

	out, err := execute(t, "--config", path, "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "build (default)")
	assert.Contains(t, out, "compile everything")
	assert.NotContains(t, out, "prep")
}

func TestTargetsCommandAll(t *testing.T) {
	path := writeRigfile(t, `
version: "1"
targets:
  build:
    steps:
      - run: ["true"]
  prep:
    hidden: true
    steps:
      - run: ["true"]
`)

	out, err := execute(t, "--config", path, "targets", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "prep")
}

func TestUnknownTarget(t *testing.T) {
	path := writeRigfile(t, `
version: "1"
targets:
  build:
    steps:
      - run: ["true"]
`)

	_, err := execute(t, "--config", path, "run", "ghost")
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}
