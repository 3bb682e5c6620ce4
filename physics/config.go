package physics

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/vmath"
)

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid physics config")

// Config holds the physical constants of a simulation
// Passed by value; a Simulation never mutates its copy
type Config struct {
	Radius          float32
	Gravity         vmath.Vector2
	GravityEnabled  bool
	Damping         float32
	BaseEnergy      float32
	MaxSpeed        float32 // 0 = uncapped
	MinSeparationSq float32
}

// DefaultConfig returns the stock constants with gravity disabled
func DefaultConfig() Config {
	return Config{
		Radius:          parameter.ParticleRadius,
		Gravity:         vmath.V2(0, parameter.GravityY),
		GravityEnabled:  false,
		Damping:         parameter.WallDamping,
		BaseEnergy:      parameter.BaseEnergy,
		MaxSpeed:        parameter.MaxSpeed,
		MinSeparationSq: parameter.MinSeparationSq,
	}
}

// Validate rejects values that break containment or collision math
func (c Config) Validate() error {
	switch {
	case !(c.Radius > 0):
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, c.Radius)
	case c.Damping < 0:
		return fmt.Errorf("%w: damping must be non-negative, got %v", ErrInvalidConfig, c.Damping)
	case c.BaseEnergy < 0:
		return fmt.Errorf("%w: base energy must be non-negative, got %v", ErrInvalidConfig, c.BaseEnergy)
	case c.MaxSpeed < 0:
		return fmt.Errorf("%w: max speed must be non-negative, got %v", ErrInvalidConfig, c.MaxSpeed)
	case c.MinSeparationSq < 0:
		return fmt.Errorf("%w: min separation must be non-negative, got %v", ErrInvalidConfig, c.MinSeparationSq)
	case !vmath.IsFinite(c.Gravity):
		return fmt.Errorf("%w: gravity must be finite", ErrInvalidConfig)
	}
	return nil
}

// CollisionDistanceSq returns (2*radius)², the inclusive contact threshold
func (c Config) CollisionDistanceSq() float32 {
	d := 2 * c.Radius
	return d * d
}
