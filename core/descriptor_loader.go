package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSON shapes for the chamber descriptor file. Kept unexported so the file
// format can evolve without touching ChamberParams.
type chamberDescriptorJSON struct {
	HalfLengthCM        float64              `json:"half_length_cm"`
	TwistAngleRad       float64              `json:"twist_angle_rad"`
	LayersPerSuperlayer int                  `json:"layers_per_superlayer"`
	CellFields          []cellFieldJSON      `json:"cell_fields"`
	Layers              map[string]layerJSON `json:"layers"`
}

type cellFieldJSON struct {
	Name   string `json:"name"`
	Offset uint   `json:"offset"`
	Width  uint   `json:"width"`
}

type layerJSON struct {
	RadiusZ0CM float64 `json:"radius_z0_cm"`
	WireCount  int     `json:"wire_count"`
	StereoSign int     `json:"stereo_sign"`
	PhiOffset  float64 `json:"phi_offset"`
}

// LoadChamberDescriptor reads the static geometry descriptor and the cell
// identifier field layout from r. It validates both; any failure is
// startup-fatal since every subsequent hit depends on this data.
func LoadChamberDescriptor(r io.Reader) (*ChamberParams, *CellCodec, error) {
	var payload chamberDescriptorJSON
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("%w: chamber descriptor decode failed: %v", ErrConfig, err)
	}

	params := &ChamberParams{
		HalfLength:          payload.HalfLengthCM,
		TwistAngle:          payload.TwistAngleRad,
		LayersPerSuperlayer: payload.LayersPerSuperlayer,
		Layers:              make(map[int]LayerGeometry, len(payload.Layers)),
	}
	for key, layer := range payload.Layers {
		var index int
		if _, err := fmt.Sscanf(key, "%d", &index); err != nil {
			return nil, nil, fmt.Errorf("%w: chamber descriptor layer key %q is not an index", ErrConfig, key)
		}
		params.Layers[index] = LayerGeometry{
			RadiusZ0:   layer.RadiusZ0CM,
			WireCount:  layer.WireCount,
			StereoSign: layer.StereoSign,
			PhiOffset:  layer.PhiOffset,
		}
	}
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	fields := make([]CellField, 0, len(payload.CellFields))
	for _, f := range payload.CellFields {
		fields = append(fields, CellField{Name: f.Name, Offset: f.Offset, Width: f.Width})
	}
	codec, err := NewCellCodec(fields)
	if err != nil {
		return nil, nil, err
	}
	for _, required := range []string{"superlayer", "layer", "nphi"} {
		if _, err := codec.Get(0, required); err != nil {
			return nil, nil, fmt.Errorf("%w: chamber descriptor cell layout misses field %q", ErrConfig, required)
		}
	}

	return params, codec, nil
}
