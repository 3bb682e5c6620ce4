package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lixenwraith/dotfield/engine"
	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/physics"
	"github.com/lixenwraith/dotfield/vmath"
	"github.com/lixenwraith/dotfield/world"
)

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

// untilCancelled blocks like the real loop and reports whether it saw cancellation
func untilCancelled(cancelled *bool) runnerFunc {
	return func(ctx context.Context) error {
		<-ctx.Done()
		*cancelled = true
		return nil
	}
}

type panicObserver struct{}

func (panicObserver) Observe(world.TickStats) { panic("boom") }

type noInput struct{}

func (noInput) TryReadByte() (byte, bool) { return 0, false }

type discardSink struct{}

func (discardSink) WriteAndFlush(string) error { return nil }

func TestSuperviseLoop_PanicReturnsError(t *testing.T) {
	sim, err := world.New(physics.DefaultConfig(), nil, vmath.NewFastRand(1))
	require.NoError(t, err)
	sim.SetDimensions(8, 8)
	sim.AddParticle(physics.NewParticle(1, 1, 1, 1))

	loop := engine.NewLoop(sim, noInput{}, discardSink{}, engine.LoopConfig{
		Clock:   engine.NewMockTimeProvider(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Millisecond),
		Observe: panicObserver{},
	})

	var runErr error
	require.NotPanics(t, func() {
		runErr = superviseLoop(context.Background(), loop, make(chan os.Signal), zap.NewNop())
	})
	require.Error(t, runErr)
	assert.ErrorIs(t, runErr, engine.ErrLoopPanic)
	assert.Contains(t, runErr.Error(), "boom")
}

func TestSuperviseLoop_RecoversRunnerPanic(t *testing.T) {
	panicky := runnerFunc(func(context.Context) error { panic("raw runner") })

	var runErr error
	require.NotPanics(t, func() {
		runErr = superviseLoop(context.Background(), panicky, make(chan os.Signal), zap.NewNop())
	})
	assert.ErrorIs(t, runErr, engine.ErrLoopPanic)
	assert.Contains(t, runErr.Error(), "raw runner")
}

func TestSuperviseLoop_SignalStopsLoopCleanly(t *testing.T) {
	signals := make(chan os.Signal, 1)
	signals <- syscall.SIGTERM

	cancelled := false
	err := superviseLoop(context.Background(), untilCancelled(&cancelled), signals, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestSuperviseLoop_LoopErrorPropagates(t *testing.T) {
	tty := errors.New("tty gone")
	failing := runnerFunc(func(context.Context) error { return tty })

	err := superviseLoop(context.Background(), failing, make(chan os.Signal), zap.NewNop())
	assert.ErrorIs(t, err, tty)
}

func TestSuperviseLoop_QuitEndsWatcher(t *testing.T) {
	quits := runnerFunc(func(context.Context) error { return nil })

	done := make(chan error, 1)
	go func() {
		done <- superviseLoop(context.Background(), quits, make(chan os.Signal), zap.NewNop())
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("signal watcher kept the group alive after the loop returned")
	}
}

func TestRealMain_BadConfigReturnsExitCode(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOTFIELD_FPS", "fast")

	assert.Equal(t, 1, realMain())
}

func TestRealMain_FlushesLogBeforeFailing(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal; the simulator would start")
	}
	t.Chdir(t.TempDir())
	t.Setenv("DOTFIELD_DEBUG", "true")
	t.Setenv("DOTFIELD_BACKEND", "ansi")

	require.Equal(t, 1, realMain())

	data, err := os.ReadFile(filepath.Join(parameter.LogDir, parameter.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "run failed")
	assert.Contains(t, string(data), `"run":`)
}
