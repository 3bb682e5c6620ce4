package physics

import (
	"github.com/lixenwraith/dotfield/vmath"
)

// Particle is a unit-mass point with a collision radius taken from Config
type Particle struct {
	Position vmath.Vector2
	Velocity vmath.Vector2
}

// NewParticle creates a particle at (x, y) moving at (dx, dy)
func NewParticle(x, y, dx, dy float32) Particle {
	return Particle{
		Position: vmath.V2(x, y),
		Velocity: vmath.V2(dx, dy),
	}
}

// Integrate advances position by one explicit Euler step: p += v*dt
func (p *Particle) Integrate(dt float32) {
	p.Position.AddScaledInPlace(p.Velocity, dt)
}

// ApplyGravity accelerates the particle by cfg.Gravity*dt, no-op when gravity is disabled
func (p *Particle) ApplyGravity(cfg Config, dt float32) {
	if !cfg.GravityEnabled {
		return
	}
	p.Velocity.AddScaledInPlace(cfg.Gravity, dt)
}

// CapSpeed limits velocity magnitude to cfg.MaxSpeed, returns true if velocity was clamped
func (p *Particle) CapSpeed(cfg Config) bool {
	if cfg.MaxSpeed <= 0 {
		return false
	}
	capped := vmath.ClampMagnitude(p.Velocity, cfg.MaxSpeed)
	if capped == p.Velocity {
		return false
	}
	p.Velocity = capped
	return true
}

// IsColliding reports circle overlap, inclusive at exactly 2*radius
func (p Particle) IsColliding(other Particle, cfg Config) bool {
	return vmath.DistanceSq(p.Position, other.Position) <= cfg.CollisionDistanceSq()
}

// ResolveCollision computes post-impact velocities for two equal, unit-mass particles
// Caller must have checked IsColliding; positions are returned unchanged
// Returns ok=false with inputs untouched when centers are closer than cfg.MinSeparationSq,
// where the contact normal is undefined
func ResolveCollision(a, b Particle, cfg Config) (Particle, Particle, bool) {
	dc := vmath.Sub(a.Position, b.Position)
	distSq := vmath.MagnitudeSq(dc)
	if distSq == 0 || distSq < cfg.MinSeparationSq {
		return a, b, false
	}

	dv := vmath.Sub(a.Velocity, b.Velocity)
	k := vmath.Dot(dv, dc) / distSq

	// Δc and Δv flip sign together for b, so the projection factor is shared
	a.Velocity = vmath.Sub(a.Velocity, vmath.Scale(dc, k))
	b.Velocity = vmath.Add(b.Velocity, vmath.Scale(dc, k))
	return a, b, true
}
