package world

import (
	"fmt"

	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/physics"
	"github.com/lixenwraith/dotfield/render"
	"github.com/lixenwraith/dotfield/terminal"
	"github.com/lixenwraith/dotfield/vmath"
)

// DimensionSource reports the current display size in character cells
type DimensionSource interface {
	Size() (cols, rows int)
}

// OutputSink emits raw text, escape sequences included, and makes it visible immediately
type OutputSink interface {
	WriteAndFlush(text string) error
}

// TickStats counts the events of one or more ticks
type TickStats struct {
	WallHits   int // Axis reflections, one per particle per axis per tick at most
	Collisions int // Resolved pairs
	Degenerate int // Colliding pairs skipped because their centers coincide
}

// Add accumulates other into s
func (s *TickStats) Add(other TickStats) {
	s.WallHits += other.WallHits
	s.Collisions += other.Collisions
	s.Degenerate += other.Degenerate
}

// Simulation owns the particle set and the bounds they live in
// Width and height are in sub-cell units (2x4 per terminal cell)
// Not safe for concurrent use; the run loop is its only owner
type Simulation struct {
	particles []physics.Particle
	width     uint32
	height    uint32

	cfg  physics.Config
	dims DimensionSource
	rng  *vmath.FastRand
}

// New creates an empty simulation with zero bounds
// dims may be nil when dimensions are driven through SetDimensions only
func New(cfg physics.Config, dims DimensionSource, rng *vmath.FastRand) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	if rng == nil {
		rng = vmath.NewFastRand(1)
	}
	return &Simulation{
		particles: make([]physics.Particle, 0),
		cfg:       cfg,
		dims:      dims,
		rng:       rng,
	}, nil
}

// Width returns the horizontal bound in sub-cells
func (s *Simulation) Width() uint32 { return s.width }

// Height returns the vertical bound in sub-cells
func (s *Simulation) Height() uint32 { return s.height }

// Len returns the particle count
func (s *Simulation) Len() int { return len(s.particles) }

// Config returns the physics constants in use
func (s *Simulation) Config() physics.Config { return s.cfg }

// Particle returns a copy of the i-th particle in insertion order
func (s *Simulation) Particle(i int) physics.Particle { return s.particles[i] }

// Particles returns a snapshot of all particles
func (s *Simulation) Particles() []physics.Particle {
	out := make([]physics.Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// AddParticle appends p and pulls it inside the current bounds
func (s *Simulation) AddParticle(p physics.Particle) {
	s.particles = append(s.particles, p)
	s.containAt(len(s.particles) - 1)
}

// AddRandomParticle appends a particle placed uniformly in bounds,
// with each velocity component uniform in [-BaseEnergy/2, BaseEnergy/2]
func (s *Simulation) AddRandomParticle() {
	half := s.cfg.BaseEnergy / 2
	p := physics.NewParticle(
		s.rng.Float32()*float32(s.width),
		s.rng.Float32()*float32(s.height),
		s.rng.Range(-half, half),
		s.rng.Range(-half, half),
	)
	s.particles = append(s.particles, p)
}

// Tick advances the world by exactly one fixed step of parameter.TickDT
// Order is integrate, then walls, then collisions
func (s *Simulation) Tick() TickStats {
	const dt = float32(parameter.TickDT)

	for i := range s.particles {
		p := &s.particles[i]
		p.Integrate(dt)
		p.ApplyGravity(s.cfg, dt)
		p.CapSpeed(s.cfg)
	}

	stats := TickStats{WallHits: s.CheckWalls()}
	stats.Collisions, stats.Degenerate = s.CheckCollisions()
	return stats
}

// TickMany runs n ticks and returns the combined stats
func (s *Simulation) TickMany(n int) TickStats {
	var total TickStats
	for i := 0; i < n; i++ {
		total.Add(s.Tick())
	}
	return total
}

// UpdateDimensions polls the display size and rescales it to sub-cells
// On change, particles outside the new bounds are reflected back immediately
// Returns true if either dimension changed
func (s *Simulation) UpdateDimensions() bool {
	if s.dims == nil {
		return false
	}
	cols, rows := s.dims.Size()
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return s.SetDimensions(uint32(cols)*parameter.SubCellsX, uint32(rows)*parameter.SubCellsY)
}

// SetDimensions sets sub-cell bounds directly, re-running containment on change
func (s *Simulation) SetDimensions(width, height uint32) bool {
	if width == s.width && height == s.height {
		return false
	}
	s.width = width
	s.height = height
	s.CheckWalls()
	return true
}

// Render rasterizes the current particle positions into braille text
func (s *Simulation) Render() string {
	return s.Canvas().String()
}

// Canvas rasterizes the current particle positions
func (s *Simulation) Canvas() *render.Canvas {
	c := render.NewCanvas(int(s.width), int(s.height))
	for i := range s.particles {
		pos := s.particles[i].Position
		c.Plot(pos.X, pos.Y)
	}
	return c
}

// Frame updates dimensions, runs one tick, and writes a full-screen frame to out
func (s *Simulation) Frame(out OutputSink) (TickStats, error) {
	s.UpdateDimensions()
	stats := s.Tick()
	if err := out.WriteAndFlush(terminal.Home + terminal.Clear + s.Render()); err != nil {
		return stats, fmt.Errorf("write frame: %w", err)
	}
	return stats, nil
}
