// Package geometry implements the projection, unprojection, pan, and zoom
// math shared by both the reference and candidate renderers (§4.1). Both
// renderers delegate all view math here so their pixel output only differs
// in rasterization technique, never in the underlying geometry.
package geometry

import "math"

// Vec is a 2D point or vector in either data space or screen space,
// depending on context.
type Vec struct {
	X, Y float64
}

// Add returns the sum of two vectors.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the difference of two vectors.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul returns the vector scaled by s.
func (v Vec) Mul(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Div returns the vector divided by s.
func (v Vec) Div(s float64) Vec {
	return Vec{X: v.X / s, Y: v.Y / s}
}

// Dot returns the dot product of two vectors.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the 2D cross product (scalar).
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Length returns the Euclidean length of the vector.
func (v Vec) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns the squared length of the vector.
func (v Vec) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Distance returns the distance between two points.
func (v Vec) Distance(o Vec) float64 {
	return v.Sub(o).Length()
}

// Normalize returns a unit vector in the same direction, or the zero
// vector if v has zero length.
func (v Vec) Normalize() Vec {
	length := v.Length()
	if length == 0 {
		return Vec{}
	}
	return Vec{X: v.X / length, Y: v.Y / length}
}

// Rotate returns v rotated by angle radians around the origin.
func (v Vec) Rotate(angle float64) Vec {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vec{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Lerp linearly interpolates between v and o; t=0 returns v, t=1 returns o.
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
	}
}
