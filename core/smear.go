package core

// SmearedPosition is the wire-local position of one hit after resolution
// smearing, plus the exact quantities the smearing started from. The exact
// values feed the debug histograms and tests; only the smeared ones are
// persisted.
type SmearedPosition struct {
	// DriftDistance is the smeared unsigned perpendicular distance (cm).
	DriftDistance float64
	// AlongWire is the smeared projection along the wire (cm).
	AlongWire float64

	// TrueDistance is |hit-to-wire| before smearing (cm).
	TrueDistance float64
	// TrueAlongWire is the projection along the wire before smearing (cm).
	TrueAlongWire float64
}

// Smearer projects hit positions into the wire's local frame and applies
// Gaussian resolution smearing there. Smearing never perturbs the three
// global coordinates independently: along-wire and perpendicular resolutions
// differ by an order of magnitude and only make sense in the wire frame.
type Smearer struct {
	wires *WireCalculator
}

// NewSmearer builds a smearer over the given wire calculator.
func NewSmearer(wires *WireCalculator) *Smearer {
	return &Smearer{wires: wires}
}

// Smear computes the local-frame position of a hit on the (layer, nphi)
// wire and draws the two smearing terms from rng. The perpendicular term is
// a scalar added to the unsigned distance, modelling a single-sided
// drift-distance measurement; large negative draws may push the result
// below zero, and the value is deliberately not clamped.
func (s *Smearer) Smear(hit Vec3, layer, nphi int, rng *EventRand) SmearedPosition {
	trueDistance := s.wires.HitToWire(layer, nphi, hit).Norm()
	trueAlong := s.wires.AlongWire(layer, nphi, hit)

	// Fixed draw order: along-wire first, then perpendicular. The order is
	// part of the reproducibility contract.
	deltaAlong := rng.SmearAlong()
	deltaPerp := rng.SmearPerp()

	return SmearedPosition{
		DriftDistance: trueDistance + deltaPerp,
		AlongWire:     trueAlong + deltaAlong,
		TrueDistance:  trueDistance,
		TrueAlongWire: trueAlong,
	}
}
