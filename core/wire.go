package core

import (
	"fmt"
	"math"
)

// WireCalculator maps (layer, nphi) pairs to physical wire lines. It is a
// set of pure functions over an immutable ChamberParams: no mutable state,
// no randomness, safe for unsynchronised concurrent use.
type WireCalculator struct {
	params *ChamberParams
}

// NewWireCalculator validates the descriptor and builds a calculator.
func NewWireCalculator(params *ChamberParams) (*WireCalculator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("wire calculator: %w", err)
	}
	return &WireCalculator{params: params}, nil
}

// PhiZ0 returns the azimuthal angle of the wire where it crosses the z=0
// plane. Wires are equally spaced in phi, with an optional per-layer stagger.
func (w *WireCalculator) PhiZ0(layer, nphi int) float64 {
	geom := w.params.Layers[layer]
	step := 2 * math.Pi / float64(geom.WireCount)
	return (float64(nphi) + geom.PhiOffset) * step
}

// Direction returns the unit direction vector of the wire.
//
// A wire anchored at radius r and azimuth phi0 in the z=0 plane, twisted by
// TwistAngle between the endplates, runs along
//
//	(−r κ sin phi0, r κ cos phi0, 1), κ = tan(TwistAngle/2) / HalfLength
//
// normalised to unit length. κ carries the layer's stereo sign.
func (w *WireCalculator) Direction(layer, nphi int) Vec3 {
	geom := w.params.Layers[layer]
	kappa := float64(geom.StereoSign) * math.Tan(w.params.TwistAngle/2) / w.params.HalfLength
	phi0 := w.PhiZ0(layer, nphi)
	return Vec3{
		X: -geom.RadiusZ0 * kappa * math.Sin(phi0),
		Y: geom.RadiusZ0 * kappa * math.Cos(phi0),
		Z: 1,
	}.Unit()
}

// Z0Point returns the wire's reference point in the z=0 plane.
func (w *WireCalculator) Z0Point(layer, nphi int) Vec3 {
	geom := w.params.Layers[layer]
	phi0 := w.PhiZ0(layer, nphi)
	return Vec3{
		X: geom.RadiusZ0 * math.Cos(phi0),
		Y: geom.RadiusZ0 * math.Sin(phi0),
		Z: 0,
	}
}

// HitToWire returns the exact perpendicular offset from a hit position to
// its wire line. Its norm is the unsmeared drift distance; it is also used
// as a validation quantity (it should stay within the physical cell size).
func (w *WireCalculator) HitToWire(layer, nphi int, hit Vec3) Vec3 {
	return perpendicularToLine(hit, w.Z0Point(layer, nphi), w.Direction(layer, nphi))
}

// AlongWire returns the signed projection of the hit along the wire,
// measured from the z=0 reference point.
func (w *WireCalculator) AlongWire(layer, nphi int, hit Vec3) float64 {
	return hit.Sub(w.Z0Point(layer, nphi)).Dot(w.Direction(layer, nphi))
}
