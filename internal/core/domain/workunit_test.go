package domain_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// recordingLogger captures messages for assertions. It implements
// domain.Logger.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
	errs     []error
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *recordingLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}

func newTestContext(opts ...domain.ContextOption) (*domain.Context, *recordingLogger) {
	log := &recordingLogger{}
	return domain.NewContext(context.Background(), log, opts...), log
}

func TestUnit_RequiresContext(t *testing.T) {
	unit := domain.NewUnit("noop", func(_ *domain.Context) (int, error) {
		return 0, nil
	})

	_, err := unit.Execute(nil)
	require.ErrorIs(t, err, domain.ErrContextRequired)
}

func TestUnit_DepthSymmetry(t *testing.T) {
	ec, _ := newTestContext()

	unit := domain.NewUnit("ok", func(ec *domain.Context) (int, error) {
		assert.Equal(t, 1, ec.Depth())
		return 42, nil
	})

	result, err := unit.Execute(ec)
	require.NoError(t, err)
	require.Equal(t, 42, result)
	require.Equal(t, 0, ec.Depth())
}

func TestUnit_DepthSymmetryOnFailure(t *testing.T) {
	ec, _ := newTestContext()
	boom := zerr.New("boom")

	unit := domain.NewUnit("fails", func(_ *domain.Context) (int, error) {
		return 0, boom
	})

	_, err := unit.Execute(ec)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, ec.Depth(), "depth must unwind even when the logic fails")

	// A second invocation starts from a clean slate.
	_, err = unit.Execute(ec)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, ec.Depth())
}

func TestUnit_LogsDescriptionAtDepth(t *testing.T) {
	ec, log := newTestContext()

	inner := domain.NewUnit("inner", func(_ *domain.Context) (int, error) {
		return 0, nil
	})
	outer := domain.NewUnit("outer", func(ec *domain.Context) (int, error) {
		return inner.Execute(ec)
	})

	_, err := outer.Execute(ec)
	require.NoError(t, err)
	require.Equal(t, []string{"outer", "  inner"}, log.all())
}

func TestUnit_ElapsedAccumulates(t *testing.T) {
	ec, _ := newTestContext()

	unit := domain.NewUnit("sleepy", func(_ *domain.Context) (int, error) {
		time.Sleep(10 * time.Millisecond)
		return 0, nil
	})

	_, err := unit.Execute(ec)
	require.NoError(t, err)
	first := unit.Elapsed()
	require.GreaterOrEqual(t, first, 10*time.Millisecond)

	_, err = unit.Execute(ec)
	require.NoError(t, err)
	require.GreaterOrEqual(t, unit.Elapsed(), first+10*time.Millisecond)
}

func TestUnit_LogDuration(t *testing.T) {
	ec, log := newTestContext()

	unit := domain.NewUnit("timed", func(_ *domain.Context) (int, error) {
		return 0, nil
	}).LogDuration()

	_, err := unit.Execute(ec)
	require.NoError(t, err)

	messages := log.all()
	require.Len(t, messages, 2)
	assert.Equal(t, "timed", messages[0])
	assert.Contains(t, messages[1], "timed finished")
}

func TestUnit_StartJoinsTypedResult(t *testing.T) {
	ec, _ := newTestContext()

	unit := domain.NewUnit("async", func(_ *domain.Context) (string, error) {
		return "done", nil
	})

	result, err := unit.Start(ec).Join()
	require.NoError(t, err)
	require.Equal(t, "done", result)
}

func TestUnit_LaunchSurfacesError(t *testing.T) {
	ec, _ := newTestContext()
	boom := zerr.New("boom")

	unit := domain.NewUnit("async", func(_ *domain.Context) (int, error) {
		return 0, boom
	})

	require.ErrorIs(t, unit.Launch(ec).Wait(), boom)
	require.Equal(t, 0, ec.Depth())
}

func TestUnit_MarkDryRunSafe(t *testing.T) {
	unit := domain.NewUnit("safe", func(_ *domain.Context) (int, error) {
		return 0, nil
	})
	require.False(t, unit.DryRunSafe())
	require.True(t, unit.MarkDryRunSafe().DryRunSafe())
}
