package model

// DigiHit is one digitized drift-chamber hit: the smeared local-frame
// position of a simulated crossing plus its sampled ionization statistics.
type DigiHit struct {
	CellID CellID

	// DriftDistance is the smeared perpendicular distance from the crossing
	// point to the sense wire (cm). The drift-time observable is derived
	// from it downstream.
	DriftDistance float64

	// AlongWire is the smeared coordinate of the crossing along the wire,
	// measured from the wire's z=0 reference point (cm).
	AlongWire float64

	ClusterCount uint32
	ClusterSize  uint32
}

// HitAssociation links a digitized hit back to the simulated hit that
// produced it. Indices refer to the event's digi and input hit sequences.
// The current hit-by-hit policy always emits weight 1.0; the weight exists
// so a future N:1 aggregation can share contributions.
type HitAssociation struct {
	DigiIndex int
	SimIndex  int
	Weight    float64
}

// DigiEvent is the output unit of work: the digitized hits and their
// associations for one event, index-aligned with the input hit sequence.
type DigiEvent struct {
	Header       EventHeader
	Digis        []DigiHit
	Associations []HitAssociation
}
