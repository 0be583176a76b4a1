package core

import (
	"math"
	"testing"
)

func TestVec3Basics(t *testing.T) {
	v := Vec3{X: 3, Y: 4, Z: 0}
	if got := v.Norm(); got != 5 {
		t.Errorf("Norm = %v, want 5", got)
	}
	if got := v.Unit().Norm(); !almostEqual(got, 1, 1e-15) {
		t.Errorf("Unit().Norm() = %v, want 1", got)
	}
	if got := v.Dot(Vec3{X: 1, Y: 1, Z: 1}); got != 7 {
		t.Errorf("Dot = %v, want 7", got)
	}
	if got := v.Sub(v); got != (Vec3{}) {
		t.Errorf("v - v = %#v, want zero", got)
	}
}

func TestUnitOfZeroVector(t *testing.T) {
	if got := (Vec3{}).Unit(); got != (Vec3{}) {
		t.Errorf("Unit of zero vector = %#v, want zero", got)
	}
}

func TestPerpendicularToLine(t *testing.T) {
	// Line along z through (1, 0, 0).
	on := Vec3{X: 1, Y: 0, Z: 0}
	dir := Vec3{X: 0, Y: 0, Z: 1}

	// A point offset by 2 in y, anywhere along z.
	p := Vec3{X: 1, Y: 2, Z: 17.5}
	perp := perpendicularToLine(p, on, dir)
	if !almostEqual(perp.Norm(), 2, 1e-15) {
		t.Errorf("perpendicular norm = %v, want 2", perp.Norm())
	}
	if !almostEqual(perp.Dot(dir), 0, 1e-15) {
		t.Errorf("perpendicular not orthogonal to line: dot = %v", perp.Dot(dir))
	}
}

func TestPerpendicularToLine_PointOnLine(t *testing.T) {
	on := Vec3{X: -2, Y: 5, Z: 0}
	dir := Vec3{X: 1, Y: 1, Z: 1}.Unit()
	p := on.Add(dir.Scale(123.456))

	if got := perpendicularToLine(p, on, dir).Norm(); !almostEqual(got, 0, 1e-12) {
		t.Errorf("point on line has perpendicular %v, want 0", got)
	}
}

func TestPerpendicularToLine_SkewDirection(t *testing.T) {
	// Against an independent computation: distance from point to line via
	// the cross-product formula |d×(p−o)|.
	on := Vec3{X: 1, Y: 2, Z: 3}
	dir := Vec3{X: 2, Y: -1, Z: 0.5}.Unit()
	p := Vec3{X: -4, Y: 0, Z: 7}

	rel := p.Sub(on)
	cx := dir.Y*rel.Z - dir.Z*rel.Y
	cy := dir.Z*rel.X - dir.X*rel.Z
	cz := dir.X*rel.Y - dir.Y*rel.X
	want := math.Sqrt(cx*cx + cy*cy + cz*cz)

	if got := perpendicularToLine(p, on, dir).Norm(); !almostEqual(got, want, 1e-12) {
		t.Errorf("perpendicular norm = %v, want %v", got, want)
	}
}
