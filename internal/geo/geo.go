package geo

import (
	"fmt"
	"math"
)

// Battlefield coordinates are planar, origin top-left, y increasing south.
// All operations here are pure value transforms.

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// South is the fallback direction for degenerate normalization.
var South = Vec{X: 0, Y: 1}

// Vec is a 2D point or displacement on the battlefield.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Length returns the Euclidean norm.
func (v Vec) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSquared avoids the square root for distance comparisons.
func (v Vec) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector with the direction of v. Vectors shorter
// than Epsilon normalize to South.
func (v Vec) Normalize() Vec {
	if v.IsZero() {
		return South
	}
	return v.Scale(1 / v.Length())
}

// Rotate rotates v by angle radians (counter-clockwise in x/y terms).
func (v Vec) Rotate(angle float64) Vec {
	sin, cos := math.Sincos(angle)
	return Vec{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Angle returns the direction of v in radians, atan2-based.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Distance returns |v - o|.
func (v Vec) Distance(o Vec) float64 {
	return v.Sub(o).Length()
}

// DistanceSquared returns |v - o|².
func (v Vec) DistanceSquared(o Vec) float64 {
	return v.Sub(o).LengthSquared()
}

// IsZero reports whether v is shorter than Epsilon.
func (v Vec) IsZero() bool {
	return v.Length() < Epsilon
}

func (v Vec) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y)
}
