package parameter

// Particle Physics Defaults
const (
	// TickDT is the fixed physics step in seconds, independent of frame pacing
	TickDT = 0.01

	// ParticleRadius is the collision radius in sub-cell units; two particles collide within 2*radius
	ParticleRadius = 1.0

	// GravityY is downward acceleration in sub-cells/sec² when gravity is enabled
	GravityY = 1.0

	// WallDamping scales the reflected velocity component on wall contact (1.0 = no energy loss)
	WallDamping = 1.0

	// BaseEnergy bounds initial random velocity to [-BaseEnergy/2, BaseEnergy/2] per axis
	BaseEnergy = 100.0

	// MaxSpeed caps particle speed after integration, 0 disables the cap
	MaxSpeed = 0.0

	// MinSeparationSq is the squared center distance below which a colliding pair is left unresolved
	MinSeparationSq = 1e-6

	// WallPassesMax bounds repeated mirror reflection for particles that overshoot by more than a full span
	WallPassesMax = 4
)
