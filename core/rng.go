package core

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/driftlab/dch-digitizer/internal/uid"
)

// MMToCM converts the millimetre resolution configuration into the
// geometry's native centimetre unit.
const MMToCM = 0.1

// Resolution is the configured smearing resolution, in millimetres.
type Resolution struct {
	// AlongWireMM is the sigma along the sense wire (both-end readout).
	AlongWireMM float64
	// PerpendicularMM is the sigma perpendicular to the sense wire.
	PerpendicularMM float64
}

// DefaultResolution matches the chamber's nominal readout performance:
// 1 mm along the wire, 0.1 mm across.
var DefaultResolution = Resolution{AlongWireMM: 1.0, PerpendicularMM: 0.1}

// EventRand is the per-worker random state for digitization: one PCG engine
// plus two zero-mean Gaussian samplers in centimetres. Each worker owns
// exactly one EventRand and never shares it, so no locking is involved.
//
// The engine is reseeded once per distinct (run, event) pair from the
// deterministic seed derivation, which makes every draw a pure function of
// the event identity and the draw order within the event.
type EventRand struct {
	engine *rand.Rand

	gaussAlong distuv.Normal
	gaussPerp  distuv.Normal

	seeded bool
	run    uint32
	event  uint32
}

// NewEventRand constructs the worker random state for the given resolution.
// The engine starts unseeded; SeedForEvent must run before the first draw.
func NewEventRand(res Resolution) *EventRand {
	engine := rand.New(rand.NewSource(0))
	return &EventRand{
		engine:     engine,
		gaussAlong: distuv.Normal{Mu: 0, Sigma: res.AlongWireMM * MMToCM, Src: engine},
		gaussPerp:  distuv.Normal{Mu: 0, Sigma: res.PerpendicularMM * MMToCM, Src: engine},
	}
}

// SeedForEvent reseeds the engine for a new (run, event) pair. Calling it
// again for the pair already active is a no-op, so the builder can invoke it
// per hit without disturbing the draw sequence within the event.
func (r *EventRand) SeedForEvent(run, event uint32) {
	if r.seeded && r.run == run && r.event == event {
		return
	}
	r.engine.Seed(uid.EventSeed(run, event))
	r.seeded = true
	r.run = run
	r.event = event
}

// SmearAlong draws the zero-mean along-wire smearing term (cm).
func (r *EventRand) SmearAlong() float64 {
	return r.gaussAlong.Rand()
}

// SmearPerp draws the zero-mean perpendicular smearing term (cm).
func (r *EventRand) SmearPerp() float64 {
	return r.gaussPerp.Rand()
}

// Uniform draws a uniform number in [0, 1), used by the cluster sampler.
func (r *EventRand) Uniform() float64 {
	return r.engine.Float64()
}
