package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/terminal"
	"github.com/lixenwraith/dotfield/world"
)

// ErrLoopPanic wraps a panic raised by a tick, a frame, an observer or the output
var ErrLoopPanic = errors.New("simulation loop panicked")

// TickObserver receives the stats of every tick, including the one run by a frame
type TickObserver interface {
	Observe(stats world.TickStats)
}

// LoopConfig tunes a Loop; zero values fall back to defaults
type LoopConfig struct {
	FPS     int
	HUD     bool
	Clock   Clock
	Logger  *zap.Logger
	Observe TickObserver
}

// LoopStats summarizes a finished run
type LoopStats struct {
	Frames        int
	FramesSkipped int // Identical frames not re-emitted
	Ticks         int
	Totals        world.TickStats
}

// Loop alternates physics ticks and rendered frames on one goroutine
// Physics runs uncapped between frames; frames are emitted at most once per frame interval
type Loop struct {
	sim      *world.Simulation
	input    InputSource
	out      world.OutputSink
	clock    Clock
	interval time.Duration
	hud      bool
	logger   *zap.Logger
	observer TickObserver

	dedupe *dedupeSink
	stats  LoopStats
}

// NewLoop wires a simulation to its display
func NewLoop(sim *world.Simulation, input InputSource, out world.OutputSink, cfg LoopConfig) *Loop {
	clock := cfg.Clock
	if clock == nil {
		clock = NewTimeProvider()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		sim:      sim,
		input:    input,
		out:      out,
		clock:    clock,
		interval: parameter.FrameInterval(cfg.FPS),
		hud:      cfg.HUD,
		logger:   logger,
		observer: cfg.Observe,
		dedupe:   &dedupeSink{next: out},
	}
}

// Stats returns counters accumulated so far
func (l *Loop) Stats() LoopStats {
	s := l.stats
	s.FramesSkipped = l.dedupe.skipped
	return s
}

// Run drives the simulation until a quit key arrives, ctx is cancelled, or output fails
// Cancellation is checked between iterations; a tick or frame in progress always completes
// A panic inside the loop is returned as an error wrapping ErrLoopPanic
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			err = fmt.Errorf("%w: %v", ErrLoopPanic, r)
		}
	}()
	return l.run(ctx)
}

func (l *Loop) run(ctx context.Context) error {
	l.logger.Debug("loop started",
		zap.Duration("frame_interval", l.interval),
		zap.Int("particles", l.sim.Len()),
	)

	lastFrame := l.clock.Now()
	ticksSinceFrame := 1

	for {
		if err := ctx.Err(); err != nil {
			l.logger.Debug("loop cancelled", zap.Error(err))
			return nil
		}

		now := l.clock.Now()
		sinceLast := now.Sub(lastFrame)
		if sinceLast >= l.interval {
			if err := l.frame(ticksSinceFrame, sinceLast); err != nil {
				return err
			}
			lastFrame = now
			ticksSinceFrame = 1
		} else {
			ticksSinceFrame++
			l.record(l.sim.Tick())
		}

		if c, ok := l.input.TryReadByte(); ok && isQuit(c) {
			l.logger.Info("quit requested",
				zap.Int("frames", l.stats.Frames),
				zap.Int("ticks", l.stats.Ticks),
			)
			return nil
		}
	}
}

func (l *Loop) frame(ticks int, sinceLast time.Duration) error {
	w, h := l.sim.Width(), l.sim.Height()

	stats, err := l.sim.Frame(l.dedupe)
	if err != nil {
		return fmt.Errorf("render frame %d: %w", l.stats.Frames, err)
	}
	l.record(stats)
	l.stats.Frames++

	if w != l.sim.Width() || h != l.sim.Height() {
		l.logger.Debug("display resized",
			zap.Uint32("width", l.sim.Width()),
			zap.Uint32("height", l.sim.Height()),
		)
	}

	if l.hud {
		line := terminal.Goto(1, 1) + fmt.Sprintf("%d Ticks per frame, %-12v", ticks, sinceLast.Round(time.Microsecond))
		if err := l.out.WriteAndFlush(line); err != nil {
			return fmt.Errorf("write hud: %w", err)
		}
	}
	return nil
}

func (l *Loop) record(stats world.TickStats) {
	l.stats.Ticks++
	l.stats.Totals.Add(stats)
	if l.observer != nil {
		l.observer.Observe(stats)
	}
}

func isQuit(c byte) bool {
	return c == parameter.QuitByte || c == parameter.InterruptByte
}

// dedupeSink drops a write whose text hashes the same as the previous one
type dedupeSink struct {
	next    world.OutputSink
	last    uint64
	valid   bool
	skipped int
}

func (d *dedupeSink) WriteAndFlush(text string) error {
	h := xxhash.Sum64String(text)
	if d.valid && h == d.last {
		d.skipped++
		return nil
	}
	if err := d.next.WriteAndFlush(text); err != nil {
		d.valid = false
		return err
	}
	d.last = h
	d.valid = true
	return nil
}
