package world

import (
	"math"

	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/physics"
)

// CheckWalls mirrors every out-of-bounds particle back inside [0,width]×[0,height]
// Each crossed axis negates that velocity component scaled by Damping
// Returns the number of axis reflections
func (s *Simulation) CheckWalls() int {
	hits := 0
	for i := range s.particles {
		hits += s.containAt(i)
	}
	return hits
}

func (s *Simulation) containAt(i int) int {
	p := &s.particles[i]
	hx := reflectAxis(&p.Position.X, &p.Velocity.X, float32(s.width), s.cfg.Damping)
	hy := reflectAxis(&p.Position.Y, &p.Velocity.Y, float32(s.height), s.cfg.Damping)
	return hx + hy
}

// reflectAxis applies x' = -x below 0 and x' = 2*limit - x above limit
// Every pass is one bounce: the velocity component flips and is damped each time
// Overshoots still outside after WallPassesMax passes are clamped onto the wall,
// with the velocity pointed back into the bounds
func reflectAxis(pos, vel *float32, limit, damping float32) int {
	if *pos >= 0 && *pos <= limit {
		return 0
	}

	for pass := 0; pass < parameter.WallPassesMax && (*pos < 0 || *pos > limit); pass++ {
		if *pos < 0 {
			*pos = -*pos
		} else {
			*pos = 2*limit - *pos
		}
		*vel = -*vel * damping
	}

	switch {
	case math.IsNaN(float64(*pos)) || *pos < 0:
		*pos = 0
		*vel = float32(math.Abs(float64(*vel)))
	case *pos > limit:
		*pos = limit
		*vel = -float32(math.Abs(float64(*vel)))
	}

	return 1
}

// CheckCollisions resolves every colliding pair (i, j), i < j, in insertion order
// Impulses apply sequentially: a later pair sees velocities updated by earlier pairs
// Returns resolved and degenerate pair counts
func (s *Simulation) CheckCollisions() (resolved, degenerate int) {
	n := len(s.particles)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := s.particles[i], s.particles[j]
			if !a.IsColliding(b, s.cfg) {
				continue
			}
			a, b, ok := physics.ResolveCollision(a, b, s.cfg)
			if !ok {
				degenerate++
				continue
			}
			s.particles[i], s.particles[j] = a, b
			resolved++
		}
	}
	return resolved, degenerate
}
