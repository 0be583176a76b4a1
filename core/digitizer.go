package core

import (
	"context"
	"fmt"

	"github.com/driftlab/dch-digitizer/internal/logging"
	"github.com/driftlab/dch-digitizer/model"
)

// Digitizer assembles digitized records for one event at a time. It owns no
// per-event state itself: everything mutable lives in the EventRand handed
// to DigitizeEvent, so one Digitizer serves any number of workers.
type Digitizer struct {
	params   *ChamberParams
	codec    *CellCodec
	wires    *WireCalculator
	smearer  *Smearer
	clusters *ClusterSampler
	log      logging.Logger
}

// NewDigitizer wires the digitization components over a validated geometry
// descriptor and a loaded cluster table.
func NewDigitizer(params *ChamberParams, codec *CellCodec, table *ClusterTable, log logging.Logger) (*Digitizer, error) {
	if log == nil {
		log = logging.Noop()
	}
	wires, err := NewWireCalculator(params)
	if err != nil {
		return nil, err
	}
	clusters, err := NewClusterSampler(table)
	if err != nil {
		return nil, err
	}
	return &Digitizer{
		params:   params,
		codec:    codec,
		wires:    wires,
		smearer:  NewSmearer(wires),
		clusters: clusters,
		log:      log,
	}, nil
}

// DigitizeEvent produces exactly one DigiHit and one HitAssociation (weight
// 1.0) per input hit, index-aligned with the input sequence. The first
// undecodable cell identifier aborts the event: a partial event would break
// the 1:1 cardinality the output contract promises.
//
// hists may be nil; when set, the per-worker debug histograms are filled.
func (d *Digitizer) DigitizeEvent(ctx context.Context, ev model.SimEvent, rng *EventRand, hists *DebugHists) (model.DigiEvent, error) {
	rng.SeedForEvent(ev.Header.RunNumber, ev.Header.EventNumber)

	out := model.DigiEvent{
		Header:       ev.Header,
		Digis:        make([]model.DigiHit, 0, len(ev.Hits)),
		Associations: make([]model.HitAssociation, 0, len(ev.Hits)),
	}

	for i, hit := range ev.Hits {
		layer, nphi, err := d.params.DecodeCell(d.codec, hit.CellID)
		if err != nil {
			d.log.Error(ctx, "cell decode failed, aborting event",
				logging.Uint64("cell_id", uint64(hit.CellID)),
				logging.Int("run", int(ev.Header.RunNumber)),
				logging.Int("event", int(ev.Header.EventNumber)),
			)
			return model.DigiEvent{Header: ev.Header},
				fmt.Errorf("event %d hit %d: %w", ev.Header.EventNumber, i, err)
		}

		pos := Vec3{X: hit.Position[0], Y: hit.Position[1], Z: hit.Position[2]}
		smeared := d.smearer.Smear(pos, layer, nphi, rng)
		count, size := d.clusters.Sample(hit.EnergyDeposit, hit.PathLength, rng)

		out.Digis = append(out.Digis, model.DigiHit{
			CellID:        hit.CellID,
			DriftDistance: smeared.DriftDistance,
			AlongWire:     smeared.AlongWire,
			ClusterCount:  count,
			ClusterSize:   size,
		})
		out.Associations = append(out.Associations, model.HitAssociation{
			DigiIndex: i,
			SimIndex:  i,
			Weight:    1.0,
		})

		if hists != nil {
			d.fillDebugHists(hists, pos, layer, nphi, smeared)
		}
	}
	return out, nil
}

func (d *Digitizer) fillDebugHists(hists *DebugHists, pos Vec3, layer, nphi int, smeared SmearedPosition) {
	hists.HitToWireDistance.Fill(smeared.TrueDistance)
	hists.SmearAlong.Fill(smeared.AlongWire - smeared.TrueAlongWire)
	hists.SmearPerp.Fill(smeared.DriftDistance - smeared.TrueDistance)

	// Residual of the projected point: project the hit onto the wire, then
	// measure that point's own distance to the wire. Anything visibly away
	// from zero means the frame computation is inconsistent.
	ez := d.wires.Direction(layer, nphi)
	z0 := d.wires.Z0Point(layer, nphi)
	projected := pos.Sub(d.wires.HitToWire(layer, nphi, pos))
	hists.ProjectedResidual.Fill(perpendicularToLine(projected, z0, ez).Norm())
}
