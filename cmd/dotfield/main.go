package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/dotfield/audio"
	"github.com/lixenwraith/dotfield/config"
	"github.com/lixenwraith/dotfield/engine"
	"github.com/lixenwraith/dotfield/terminal"
	"github.com/lixenwraith/dotfield/vmath"
	"github.com/lixenwraith/dotfield/world"
)

var (
	configFlag    = flag.String("config", "", "Path to a YAML config file")
	particlesFlag = flag.Int("particles", 0, "Number of random particles to spawn")
	fpsFlag       = flag.Int("fps", 0, "Target frames per second")
	seedFlag      = flag.Uint64("seed", 0, "Random seed, 0 for time-based")
	backendFlag   = flag.String("backend", "", "Terminal backend: ansi, tcell")
	soundFlag     = flag.Bool("sound", false, "Click on wall bounces and collisions")
	debugFlag     = flag.Bool("debug", false, "Write debug logs to logs/dotfield.log")
	hudFlag       = flag.Bool("hud", true, "Show ticks per frame in the top-left corner")
	gravityFlag   = flag.Bool("gravity", false, "Enable downward gravity")
)

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so deferred cleanup runs before os.Exit
func realMain() (code int) {
	// Panic Recovery: Ensure terminal is reset even if the simulation crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mDOTFIELD CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			code = 1
		}
	}()

	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger, logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}
	logger = logger.With(zap.String("run", uuid.NewString()))
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

// applyFlags overlays only the flags given on the command line
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "particles":
			cfg.Particles = *particlesFlag
		case "fps":
			cfg.FPS = *fpsFlag
		case "seed":
			cfg.Seed = *seedFlag
		case "backend":
			cfg.Backend = terminal.Kind(*backendFlag)
		case "sound":
			cfg.Sound = *soundFlag
		case "debug":
			cfg.Debug = *debugFlag
		case "hud":
			cfg.HUD = *hudFlag
		case "gravity":
			cfg.Physics.GravityEnabled = *gravityFlag
		}
	})
}

func run(cfg *config.Config, logger *zap.Logger) error {
	term, err := terminal.Open(cfg.Backend)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer term.Fini()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	sim, err := world.New(cfg.PhysicsConfig(), term, vmath.NewFastRand(seed))
	if err != nil {
		return err
	}
	sim.UpdateDimensions()
	for range cfg.Particles {
		sim.AddRandomParticle()
	}

	logger.Info("simulation ready",
		zap.Int("particles", sim.Len()),
		zap.Uint32("width", sim.Width()),
		zap.Uint32("height", sim.Height()),
		zap.Uint64("seed", seed),
		zap.String("backend", string(cfg.Backend)),
	)

	var observer engine.TickObserver
	if cfg.Sound {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			logger.Warn("audio unavailable, continuing without sound", zap.Error(err))
		} else {
			defer sm.Cleanup()
			observer = sm
		}
	}

	loop := engine.NewLoop(sim, term, term, engine.LoopConfig{
		FPS:     cfg.FPS,
		HUD:     cfg.HUD,
		Logger:  logger,
		Observe: observer,
	})

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	err = superviseLoop(context.Background(), loop, signals, logger)
	stats := loop.Stats()
	logger.Info("run finished",
		zap.Int("frames", stats.Frames),
		zap.Int("frames_skipped", stats.FramesSkipped),
		zap.Int("ticks", stats.Ticks),
		zap.Int("wall_hits", stats.Totals.WallHits),
		zap.Int("collisions", stats.Totals.Collisions),
		zap.Int("degenerate", stats.Totals.Degenerate),
	)
	if err != nil {
		return fmt.Errorf("simulation loop: %w", err)
	}
	return nil
}

// errStopSignal cancels the group when SIGINT or SIGTERM arrives; it is not a failure
var errStopSignal = errors.New("stop signal")

// runner is the part of engine.Loop the supervisor drives
type runner interface {
	Run(ctx context.Context) error
}

// superviseLoop runs the loop beside a signal watcher until either ends
// A signal cancels the loop and yields nil; a loop panic comes back as an error
// wrapping engine.ErrLoopPanic so the caller can unwind and restore the terminal
func superviseLoop(parent context.Context, loop runner, signals <-chan os.Signal, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(parent)
	runCtx, stopRun := context.WithCancel(ctx)

	g.Go(func() (err error) {
		defer stopRun()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("loop goroutine panicked",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = fmt.Errorf("%w: %v", engine.ErrLoopPanic, r)
			}
		}()
		return loop.Run(runCtx)
	})
	g.Go(func() error {
		select {
		case sig := <-signals:
			logger.Info("signal received, shutting down", zap.Stringer("signal", sig))
			return errStopSignal
		case <-runCtx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errStopSignal) {
		return err
	}
	return nil
}
