package config_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/config"
	"go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/adapters/shell"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
)

type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *testLogger) Warn(msg string)     { l.Info(msg) }
func (l *testLogger) Error(err error)     { l.Info(err.Error()) }
func (l *testLogger) SetOutput(io.Writer) {}

func writeRigfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader() (*config.FileConfigLoader, *testLogger) {
	log := &testLogger{}
	return config.NewFileConfigLoader(shell.NewExecutor(log), fs.NewHasher()), log
}

func TestLoad_ValidRigfile(t *testing.T) {
	path := writeRigfile(t, `version: "1"
default: build
targets:
  clean:
    description: Remove build outputs
    steps:
      - name: deleteFiles
        run: ["true"]
  build:
    description: Compile everything
    dependsOn: [clean]
    steps:
      - name: compile
        run: ["true"]
      - name: packageA
        run: ["true"]
        mode: parallel
      - name: packageB
        run: ["true"]
        mode: parallel
      - name: publish
        run: ["true"]
  internal:
    hidden: true
    steps:
      - name: probe
        run: ["true"]
`)

	loader, _ := newLoader()
	registry, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "clean", "internal"}, registry.Names())

	defaultTarget, ok := registry.Default()
	require.True(t, ok)
	assert.Equal(t, "build", defaultTarget.Name())

	build, ok := registry.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, []string{"clean"}, build.Dependencies())
	assert.Equal(t, "Compile everything", build.Description())

	hidden, ok := registry.Lookup("internal")
	require.True(t, ok)
	assert.True(t, hidden.Hidden())
}

func TestLoad_ExecutesLoadedTargets(t *testing.T) {
	path := writeRigfile(t, `version: "1"
targets:
  hello:
    steps:
      - name: greet
        run: ["echo", "hello from rig"]
`)

	loader, log := newLoader()
	registry, err := loader.Load(path)
	require.NoError(t, err)

	ec := domain.NewContext(context.Background(), log)
	require.NoError(t, registry.RunTarget(ec, "hello"))

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Contains(t, log.messages, "hello from rig")
}

func TestLoad_DryRunSkipsUnsafeSteps(t *testing.T) {
	path := writeRigfile(t, `version: "1"
targets:
  deploy:
    steps:
      - name: upload
        run: ["false"]
`)

	loader, log := newLoader()
	registry, err := loader.Load(path)
	require.NoError(t, err)

	// The command would fail if executed; a dry run must not reach it.
	ec := domain.NewContext(context.Background(), log, domain.WithDryRun())
	require.NoError(t, registry.RunTarget(ec, "deploy"))
}

func TestLoad_MissingDependency(t *testing.T) {
	path := writeRigfile(t, `version: "1"
targets:
  build:
    dependsOn: [ghost]
    steps:
      - name: compile
        run: ["true"]
`)

	loader, _ := newLoader()
	_, err := loader.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing dependency")
}

func TestLoad_UnknownMode(t *testing.T) {
	path := writeRigfile(t, `version: "1"
targets:
  build:
    steps:
      - name: compile
        run: ["true"]
        mode: sideways
`)

	loader, _ := newLoader()
	_, err := loader.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown execution mode")
}

func TestLoad_StepValidation(t *testing.T) {
	tests := []struct {
		name string
		step string
		want string
	}{
		{
			name: "no action",
			step: `- name: empty`,
			want: "step declares no action",
		},
		{
			name: "both actions",
			step: `- name: both
        run: ["true"]
        checksum: [some/file]`,
			want: "step declares both run and checksum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRigfile(t, `version: "1"
targets:
  build:
    steps:
      `+tt.step+`
`)
			loader, _ := newLoader()
			_, err := loader.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_FileErrors(t *testing.T) {
	loader, _ := newLoader()

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := writeRigfile(t, "targets: [not, a, map]")
	_, err = loader.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

var _ ports.ConfigLoader = (*config.FileConfigLoader)(nil)
