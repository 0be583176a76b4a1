package core

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// cdfStep is one step of an empirical cumulative distribution: value v is
// drawn whenever the uniform falls below P (and above the previous step).
type cdfStep struct {
	P float64
	V uint32
}

// clusterBin holds the empirical count and size distributions for one slice
// of dE/dx.
type clusterBin struct {
	lo, hi   float64
	countCDF []cdfStep
	sizeCDF  []cdfStep
}

// ClusterTable is the pre-loaded empirical ionization model: dE/dx bins,
// each with cumulative distributions for cluster count and mean cluster
// size. It is loaded once at startup and read-only afterwards, so it is
// shared across workers without locking.
type ClusterTable struct {
	bins []clusterBin

	// minCount/minSize are the safe defaults returned when a bin carries a
	// degenerate (empty) distribution.
	minCount uint32
	minSize  uint32
}

// ClusterSampler draws (cluster count, cluster size) pairs for hits,
// consuming uniforms from the per-worker engine so samples stay reproducible
// under the per-event seed.
type ClusterSampler struct {
	table *ClusterTable
}

// NewClusterSampler wraps a loaded table. A nil table is a startup error:
// the sampler has no fallback model.
func NewClusterSampler(table *ClusterTable) (*ClusterSampler, error) {
	if table == nil || len(table.bins) == 0 {
		return nil, fmt.Errorf("%w: cluster distribution table is empty", ErrConfig)
	}
	return &ClusterSampler{table: table}, nil
}

// Sample draws an ionization-cluster count and mean cluster size for a hit
// with the given energy deposit (GeV) and path length (cm). It never fails:
// a dE/dx outside the table's sampled domain clamps to the nearest bin, and
// degenerate bins degrade to the table's minimum values.
//
// Two uniforms are always consumed per call, in fixed order (count first),
// regardless of the bin hit.
func (s *ClusterSampler) Sample(energyDeposit, pathLength float64, rng *EventRand) (count, size uint32) {
	uCount := rng.Uniform()
	uSize := rng.Uniform()

	bin := s.table.binFor(dEdx(energyDeposit, pathLength))

	count = drawCDF(bin.countCDF, uCount, s.table.minCount)
	size = drawCDF(bin.sizeCDF, uSize, s.table.minSize)
	return count, size
}

// dEdx is the table key: energy loss per unit path. A degenerate path
// length keys on raw energy deposit, which the bin clamping then handles.
func dEdx(energyDeposit, pathLength float64) float64 {
	if pathLength <= 0 {
		return energyDeposit
	}
	return energyDeposit / pathLength
}

func (t *ClusterTable) binFor(key float64) *clusterBin {
	n := len(t.bins)
	if key < t.bins[0].lo {
		return &t.bins[0]
	}
	if key >= t.bins[n-1].hi {
		return &t.bins[n-1]
	}
	i := sort.Search(n, func(i int) bool { return key < t.bins[i].hi })
	return &t.bins[i]
}

func drawCDF(cdf []cdfStep, u float64, fallback uint32) uint32 {
	for _, step := range cdf {
		if u < step.P {
			return step.V
		}
	}
	if len(cdf) == 0 {
		return fallback
	}
	// u landed beyond the last step (CDFs not summing exactly to 1).
	return cdf[len(cdf)-1].V
}

// JSON shapes for the table file. Unexported so the on-disk format can
// evolve independently of the in-memory model.
type clusterTableJSON struct {
	MinCount uint32           `json:"min_cluster_count"`
	MinSize  uint32           `json:"min_cluster_size"`
	Bins     []clusterBinJSON `json:"bins"`
}

type clusterBinJSON struct {
	DEdxLow  float64       `json:"dedx_low"`
	DEdxHigh float64       `json:"dedx_high"`
	Count    []cdfStepJSON `json:"count_cdf"`
	Size     []cdfStepJSON `json:"size_cdf"`
}

type cdfStepJSON struct {
	P float64 `json:"p"`
	V uint32  `json:"v"`
}

// LoadClusterTable reads the empirical distribution file. Any structural
// problem here is startup-fatal: digitization cannot degrade its ionization
// model per hit.
func LoadClusterTable(r io.Reader) (*ClusterTable, error) {
	var payload clusterTableJSON
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: cluster table decode failed: %v", ErrConfig, err)
	}
	if len(payload.Bins) == 0 {
		return nil, fmt.Errorf("%w: cluster table has no bins", ErrConfig)
	}

	table := &ClusterTable{
		bins:     make([]clusterBin, 0, len(payload.Bins)),
		minCount: payload.MinCount,
		minSize:  payload.MinSize,
	}

	prevHigh := 0.0
	for i, b := range payload.Bins {
		if b.DEdxHigh <= b.DEdxLow {
			return nil, fmt.Errorf("%w: cluster table bin %d has empty range [%v, %v)",
				ErrConfig, i, b.DEdxLow, b.DEdxHigh)
		}
		if i > 0 && b.DEdxLow != prevHigh {
			return nil, fmt.Errorf("%w: cluster table bins %d and %d are not contiguous", ErrConfig, i-1, i)
		}
		prevHigh = b.DEdxHigh

		bin := clusterBin{
			lo:       b.DEdxLow,
			hi:       b.DEdxHigh,
			countCDF: toCDF(b.Count),
			sizeCDF:  toCDF(b.Size),
		}
		if err := validateCDF(bin.countCDF); err != nil {
			return nil, fmt.Errorf("%w: cluster table bin %d count cdf: %v", ErrConfig, i, err)
		}
		if err := validateCDF(bin.sizeCDF); err != nil {
			return nil, fmt.Errorf("%w: cluster table bin %d size cdf: %v", ErrConfig, i, err)
		}
		table.bins = append(table.bins, bin)
	}
	return table, nil
}

func toCDF(steps []cdfStepJSON) []cdfStep {
	out := make([]cdfStep, 0, len(steps))
	for _, s := range steps {
		out = append(out, cdfStep{P: s.P, V: s.V})
	}
	return out
}

func validateCDF(cdf []cdfStep) error {
	prev := 0.0
	for i, step := range cdf {
		if step.P <= prev || step.P > 1 {
			return fmt.Errorf("step %d has non-increasing or out-of-range probability %v", i, step.P)
		}
		prev = step.P
	}
	return nil
}
