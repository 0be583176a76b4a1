package core

import "math"

// Vec3 is a point or displacement in global chamber coordinates,
// in centimetres (the geometry's native length unit).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Unit returns v normalised to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// perpendicularToLine returns the exact perpendicular offset from p to the
// infinite line through point on with unit direction dir:
//
//	p − (on + ((p−on)·dir) dir)
//
// The result is orthogonal to dir; its norm is the point-to-line distance.
func perpendicularToLine(p, on, dir Vec3) Vec3 {
	along := p.Sub(on).Dot(dir)
	closest := on.Add(dir.Scale(along))
	return p.Sub(closest)
}
