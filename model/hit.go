package model

// CellID is the bit-packed identifier of a sense-wire channel. The field
// layout (offset/width of superlayer, layer, nphi) is carried by the chamber
// descriptor, not by this type.
type CellID uint64

// EventHeader identifies one event within a run.
type EventHeader struct {
	RunNumber   uint32
	EventNumber uint32
}

// SimHit is one simulated particle crossing of a drift cell.
// Positions and lengths use the chamber's native centimetre convention.
type SimHit struct {
	CellID CellID

	// Position is the crossing point in global chamber coordinates (cm).
	Position [3]float64

	// EnergyDeposit is the energy lost in the cell (GeV).
	EnergyDeposit float64

	// PathLength is the track path length inside the cell (cm).
	PathLength float64
}

// SimEvent is the input unit of work: one event header plus the ordered
// simulated hits recorded for that event.
type SimEvent struct {
	Header EventHeader
	Hits   []SimHit
}
