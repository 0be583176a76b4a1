package core

import (
	"encoding/json"
	"io"
)

// Hist1D is a fixed-binning one-dimensional histogram. It is not
// concurrency-safe: each worker fills its own copy and the copies are merged
// after processing, so histogramming never serialises the workers.
type Hist1D struct {
	Lo, Hi  float64
	Bins    []uint64
	Under   uint64
	Over    uint64
	Entries uint64
}

// NewHist1D allocates a histogram with nbins equal-width bins over [lo, hi).
func NewHist1D(nbins int, lo, hi float64) *Hist1D {
	return &Hist1D{Lo: lo, Hi: hi, Bins: make([]uint64, nbins)}
}

// Fill adds one entry.
func (h *Hist1D) Fill(x float64) {
	h.Entries++
	if x < h.Lo {
		h.Under++
		return
	}
	if x >= h.Hi {
		h.Over++
		return
	}
	i := int(float64(len(h.Bins)) * (x - h.Lo) / (h.Hi - h.Lo))
	h.Bins[i]++
}

// Merge adds the contents of other into h. Binning must match.
func (h *Hist1D) Merge(other *Hist1D) {
	for i, n := range other.Bins {
		h.Bins[i] += n
	}
	h.Under += other.Under
	h.Over += other.Over
	h.Entries += other.Entries
}

// DebugHists are the optional diagnostic histograms of the digitization:
// the exact hit-to-wire distance, the residual of the projected point
// (expected zero), and the two smearing deltas.
type DebugHists struct {
	HitToWireDistance *Hist1D `json:"hit_to_wire_distance_cm"`
	ProjectedResidual *Hist1D `json:"projected_residual_cm"`
	SmearAlong        *Hist1D `json:"smear_along_cm"`
	SmearPerp         *Hist1D `json:"smear_perp_cm"`
}

// NewDebugHists allocates the standard binning: distances up to 10 cm,
// residuals and smears around zero.
func NewDebugHists() *DebugHists {
	return &DebugHists{
		HitToWireDistance: NewHist1D(100, 0, 10),
		ProjectedResidual: NewHist1D(100, 0, 1e-6),
		SmearAlong:        NewHist1D(100, -1, 1),
		SmearPerp:         NewHist1D(100, -0.1, 0.1),
	}
}

// Merge folds other into h.
func (h *DebugHists) Merge(other *DebugHists) {
	h.HitToWireDistance.Merge(other.HitToWireDistance)
	h.ProjectedResidual.Merge(other.ProjectedResidual)
	h.SmearAlong.Merge(other.SmearAlong)
	h.SmearPerp.Merge(other.SmearPerp)
}

// WriteJSON persists the histograms.
func (h *DebugHists) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}
