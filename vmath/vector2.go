package vmath

import "math"

// Vector2 is a float32 2D point or vector, used for both position and velocity
type Vector2 struct {
	X, Y float32
}

// V2 is shorthand for Vector2{x, y}
func V2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns a + b
func Add(a, b Vector2) Vector2 {
	return Vector2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b
func Sub(a, b Vector2) Vector2 {
	return Vector2{a.X - b.X, a.Y - b.Y}
}

// Scale returns v * k
func Scale(v Vector2, k float32) Vector2 {
	return Vector2{v.X * k, v.Y * k}
}

// ScaleInPlace multiplies both components by k
func (v *Vector2) ScaleInPlace(k float32) {
	v.X *= k
	v.Y *= k
}

// AddInPlace mutates v += b
func (v *Vector2) AddInPlace(b Vector2) {
	v.X += b.X
	v.Y += b.Y
}

// AddScaledInPlace mutates v += b*k without an intermediate value
func (v *Vector2) AddScaledInPlace(b Vector2, k float32) {
	v.X += b.X * k
	v.Y += b.Y * k
}

// Dot returns x1*x2 + y1*y2
func Dot(a, b Vector2) float32 {
	return a.X*b.X + a.Y*b.Y
}

// MagnitudeSq returns squared length without sqrt
func MagnitudeSq(v Vector2) float32 {
	return v.X*v.X + v.Y*v.Y
}

// Magnitude returns Euclidean length sqrt(x² + y²), exactly 0 for the zero vector
func Magnitude(v Vector2) float32 {
	sq := MagnitudeSq(v)
	if sq == 0 {
		return 0
	}
	return float32(math.Sqrt(float64(sq)))
}

// DistanceSq returns squared Euclidean distance between two points
func DistanceSq(a, b Vector2) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// ClampMagnitude limits vector to maxMag while preserving direction
// Returns unchanged vector if magnitude <= maxMag or maxMag <= 0
func ClampMagnitude(v Vector2, maxMag float32) Vector2 {
	if maxMag <= 0 {
		return v
	}
	sq := MagnitudeSq(v)
	if sq <= maxMag*maxMag {
		return v
	}
	return Scale(v, maxMag/float32(math.Sqrt(float64(sq))))
}

// IsFinite reports whether neither component is NaN or Inf
func IsFinite(v Vector2) bool {
	return isFinite32(v.X) && isFinite32(v.Y)
}

func isFinite32(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
