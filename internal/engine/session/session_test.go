package session_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports/mocks"
	"go.trai.ch/rig/internal/engine/session"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
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

func (l *testLogger) Warn(string)         {}
func (l *testLogger) Error(error)         {}
func (l *testLogger) SetOutput(io.Writer) {}

func newTracer(ctrl *gomock.Controller) *mocks.MockTracer {
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return tracer
}

func expectSpan(ctrl *gomock.Controller, tracer *mocks.MockTracer, name string) *mocks.MockSpan {
	span := mocks.NewMockSpan(ctrl)
	tracer.EXPECT().Start(gomock.Any(), name).Return(context.Background(), span)
	return span
}

func TestSession_RunsRequestedTargetsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := newTracer(ctrl)

	registry := domain.NewRegistry()
	var order []string
	record := func(name string) domain.Action {
		return func(*domain.Context) error {
			order = append(order, name)
			return nil
		}
	}
	dep, err := registry.Define("dep")
	require.NoError(t, err)
	require.NoError(t, dep.Does(record("dep")))
	build, err := registry.Define("build")
	require.NoError(t, err)
	build.DependsOn("dep")
	require.NoError(t, build.Does(record("build")))
	test, err := registry.Define("test")
	require.NoError(t, err)
	require.NoError(t, test.Does(record("test")))

	expectSpan(ctrl, tracer, "target build").EXPECT().End()
	expectSpan(ctrl, tracer, "target test").EXPECT().End()

	s := session.New(&testLogger{}, tracer)
	require.NoError(t, s.Run(context.Background(), registry, []string{"build", "test"}, false))
	assert.Equal(t, []string{"dep", "build", "test"}, order)
}

func TestSession_EmitsDependencyFirstPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)

	registry := domain.NewRegistry()
	dep, err := registry.Define("dep")
	require.NoError(t, err)
	require.NoError(t, dep.Does(func(*domain.Context) error { return nil }))
	build, err := registry.Define("build")
	require.NoError(t, err)
	build.DependsOn("dep")
	require.NoError(t, build.Does(func(*domain.Context) error { return nil }))

	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"dep", "build"}, []string{"build"})
	expectSpan(ctrl, tracer, "target build").EXPECT().End()

	s := session.New(&testLogger{}, tracer)
	require.NoError(t, s.Run(context.Background(), registry, []string{"build"}, false))
}

func TestSession_FallsBackToDefaultTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := newTracer(ctrl)

	registry := domain.NewRegistry()
	ran := false
	build, err := registry.Define("build")
	require.NoError(t, err)
	require.NoError(t, build.Does(func(*domain.Context) error {
		ran = true
		return nil
	}))
	require.NoError(t, registry.SetDefault("build"))

	expectSpan(ctrl, tracer, "target build").EXPECT().End()

	s := session.New(&testLogger{}, tracer)
	require.NoError(t, s.Run(context.Background(), registry, nil, false))
	assert.True(t, ran)
}

func TestSession_NoDefaultTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)

	s := session.New(&testLogger{}, tracer)
	err := s.Run(context.Background(), domain.NewRegistry(), nil, false)
	require.ErrorIs(t, err, domain.ErrNoDefaultTarget)
}

func TestSession_UnknownTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)

	s := session.New(&testLogger{}, tracer)
	err := s.Run(context.Background(), domain.NewRegistry(), []string{"ghost"}, false)
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestSession_RecordsFailureOnSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := newTracer(ctrl)

	registry := domain.NewRegistry()
	boom := zerr.New("command failed")
	broken, err := registry.Define("broken")
	require.NoError(t, err)
	require.NoError(t, broken.Does(func(*domain.Context) error { return boom }))
	after, err := registry.Define("after")
	require.NoError(t, err)
	require.NoError(t, after.Does(func(*domain.Context) error {
		t.Error("target after must not run after a failure")
		return nil
	}))

	span := expectSpan(ctrl, tracer, "target broken")
	span.EXPECT().RecordError(gomock.Any())
	span.EXPECT().End()

	s := session.New(&testLogger{}, tracer)
	require.ErrorIs(t, s.Run(context.Background(), registry, []string{"broken", "after"}, false), boom)
}

func TestSession_DryRunReachesTargets(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := newTracer(ctrl)

	registry := domain.NewRegistry()
	sawDryRun := false
	build, err := registry.Define("build")
	require.NoError(t, err)
	require.NoError(t, build.Does(func(ec *domain.Context) error {
		sawDryRun = ec.DryRun()
		return nil
	}))

	expectSpan(ctrl, tracer, "target build").EXPECT().End()

	s := session.New(&testLogger{}, tracer)
	require.NoError(t, s.Run(context.Background(), registry, []string{"build"}, true))
	assert.True(t, sawDryRun)
}

func TestSession_LogsBuildDuration(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := newTracer(ctrl)

	registry := domain.NewRegistry()
	build, err := registry.Define("build")
	require.NoError(t, err)
	require.NoError(t, build.Does(func(*domain.Context) error { return nil }))

	expectSpan(ctrl, tracer, "target build").EXPECT().End()

	log := &testLogger{}
	s := session.New(log, tracer)
	require.NoError(t, s.Run(context.Background(), registry, []string{"build"}, false))

	log.mu.Lock()
	defer log.mu.Unlock()
	require.NotEmpty(t, log.messages)
	assert.Contains(t, log.messages[len(log.messages)-1], "Build finished in")
}
