package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/driftlab/dch-digitizer/model"
)

// JSON shapes for the event files. Unexported: the wire format is owned by
// this package, the model types stay free of serialization tags.
type simFileJSON struct {
	Events []simEventJSON `json:"events"`
}

type simEventJSON struct {
	Run   uint32       `json:"run"`
	Event uint32       `json:"event"`
	Hits  []simHitJSON `json:"hits"`
}

type simHitJSON struct {
	CellID        uint64     `json:"cell_id"`
	Position      [3]float64 `json:"position_cm"`
	EnergyDeposit float64    `json:"energy_deposit_gev"`
	PathLength    float64    `json:"path_length_cm"`
}

type digiFileJSON struct {
	Events []digiEventJSON `json:"events"`
}

type digiEventJSON struct {
	Run          uint32            `json:"run"`
	Event        uint32            `json:"event"`
	Digis        []digiHitJSON     `json:"digis"`
	Associations []associationJSON `json:"associations"`
}

type digiHitJSON struct {
	CellID        uint64  `json:"cell_id"`
	DriftDistance float64 `json:"drift_distance_cm"`
	AlongWire     float64 `json:"along_wire_cm"`
	ClusterCount  uint32  `json:"cluster_count"`
	ClusterSize   uint32  `json:"cluster_size"`
}

type associationJSON struct {
	Digi   int     `json:"digi"`
	Sim    int     `json:"sim"`
	Weight float64 `json:"weight"`
}

// LoadSimEvents reads the input event sequence from r.
func LoadSimEvents(r io.Reader) ([]model.SimEvent, error) {
	var payload simFileJSON
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode sim events: %w", err)
	}

	events := make([]model.SimEvent, 0, len(payload.Events))
	for _, ev := range payload.Events {
		hits := make([]model.SimHit, 0, len(ev.Hits))
		for _, h := range ev.Hits {
			hits = append(hits, model.SimHit{
				CellID:        model.CellID(h.CellID),
				Position:      h.Position,
				EnergyDeposit: h.EnergyDeposit,
				PathLength:    h.PathLength,
			})
		}
		events = append(events, model.SimEvent{
			Header: model.EventHeader{RunNumber: ev.Run, EventNumber: ev.Event},
			Hits:   hits,
		})
	}
	return events, nil
}

// WriteDigiEvents writes the digitized collections to w, in event order.
func WriteDigiEvents(w io.Writer, events []model.DigiEvent) error {
	payload := digiFileJSON{Events: make([]digiEventJSON, 0, len(events))}
	for _, ev := range events {
		out := digiEventJSON{
			Run:          ev.Header.RunNumber,
			Event:        ev.Header.EventNumber,
			Digis:        make([]digiHitJSON, 0, len(ev.Digis)),
			Associations: make([]associationJSON, 0, len(ev.Associations)),
		}
		for _, d := range ev.Digis {
			out.Digis = append(out.Digis, digiHitJSON{
				CellID:        uint64(d.CellID),
				DriftDistance: d.DriftDistance,
				AlongWire:     d.AlongWire,
				ClusterCount:  d.ClusterCount,
				ClusterSize:   d.ClusterSize,
			})
		}
		for _, a := range ev.Associations {
			out.Associations = append(out.Associations, associationJSON{
				Digi:   a.DigiIndex,
				Sim:    a.SimIndex,
				Weight: a.Weight,
			})
		}
		payload.Events = append(payload.Events, out)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode digi events: %w", err)
	}
	return nil
}
