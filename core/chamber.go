package core

import (
	"errors"
	"fmt"

	"github.com/driftlab/dch-digitizer/model"
)

var (
	ErrConfig = errors.New("invalid digitizer configuration")
	ErrDecode = errors.New("cell identifier decode failed")
)

// LayerGeometry holds the static parameters of one wire layer.
type LayerGeometry struct {
	// RadiusZ0 is the radius of the layer's sense wires at the z=0 plane (cm).
	RadiusZ0 float64

	// WireCount is the number of sense wires in the layer.
	WireCount int

	// StereoSign is +1 or -1: the sign of the layer's twist relative to the
	// chamber axis. Adjacent superlayers alternate sign so stereo views cross.
	StereoSign int

	// PhiOffset staggers the layer's wires in azimuth, in units of the
	// layer's phi step (typically 0 or 0.5 for odd layers).
	PhiOffset float64
}

// ChamberParams is the immutable geometry descriptor of the drift chamber.
// It is built once at startup and read concurrently without locking.
type ChamberParams struct {
	// HalfLength is half the chamber length along z (cm). Wires run from
	// -HalfLength to +HalfLength.
	HalfLength float64

	// TwistAngle is the total azimuthal twist of a wire between the two
	// endplates (rad). The stereo angle of each wire follows from it and
	// from the wire radius.
	TwistAngle float64

	// LayersPerSuperlayer converts (superlayer, layer) pairs from the cell
	// identifier into the canonical 1-based layer index.
	LayersPerSuperlayer int

	// Layers is keyed by canonical layer index (1-based).
	Layers map[int]LayerGeometry
}

// Validate checks the descriptor for the conditions that make the wire
// calculator unusable. Called once at startup; any error here is fatal for
// the whole run.
func (p *ChamberParams) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil chamber descriptor", ErrConfig)
	}
	if p.HalfLength <= 0 {
		return fmt.Errorf("%w: non-positive half-length %v", ErrConfig, p.HalfLength)
	}
	if p.LayersPerSuperlayer <= 0 {
		return fmt.Errorf("%w: unknown layers-per-superlayer %d", ErrConfig, p.LayersPerSuperlayer)
	}
	if len(p.Layers) == 0 {
		return fmt.Errorf("%w: empty layer table", ErrConfig)
	}
	for index, layer := range p.Layers {
		if index < 1 {
			return fmt.Errorf("%w: layer index %d is not 1-based", ErrConfig, index)
		}
		if layer.RadiusZ0 <= 0 {
			return fmt.Errorf("%w: layer %d has non-positive radius %v", ErrConfig, index, layer.RadiusZ0)
		}
		if layer.WireCount <= 0 {
			return fmt.Errorf("%w: layer %d has non-positive wire count %d", ErrConfig, index, layer.WireCount)
		}
		if layer.StereoSign != 1 && layer.StereoSign != -1 {
			return fmt.Errorf("%w: layer %d has stereo sign %d, want +1 or -1", ErrConfig, index, layer.StereoSign)
		}
	}
	return nil
}

// CellField describes one bit field inside a cell identifier.
type CellField struct {
	Name   string
	Offset uint
	Width  uint
}

// CellCodec extracts fields from bit-packed cell identifiers according to a
// fixed layout. The layout comes from the chamber descriptor, so ids are
// only decodable with the geometry version that produced them.
type CellCodec struct {
	fields map[string]CellField
}

// NewCellCodec validates the field layout and builds a codec.
func NewCellCodec(fields []CellField) (*CellCodec, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty cell field layout", ErrConfig)
	}
	byName := make(map[string]CellField, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: cell field with empty name", ErrConfig)
		}
		if f.Width == 0 || f.Width > 64 || f.Offset+f.Width > 64 {
			return nil, fmt.Errorf("%w: cell field %q does not fit in 64 bits (offset %d, width %d)",
				ErrConfig, f.Name, f.Offset, f.Width)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate cell field %q", ErrConfig, f.Name)
		}
		byName[f.Name] = f
	}
	return &CellCodec{fields: byName}, nil
}

// Get extracts a named field from id.
func (c *CellCodec) Get(id model.CellID, name string) (uint64, error) {
	f, ok := c.fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown cell field %q", ErrDecode, name)
	}
	mask := uint64(1)<<f.Width - 1
	return uint64(id) >> f.Offset & mask, nil
}

// DecodeCell resolves a cell identifier into the canonical 1-based layer
// index and the wire index within the layer, validated against the layer
// table. A failure here is fatal for the current event only.
func (p *ChamberParams) DecodeCell(codec *CellCodec, id model.CellID) (layer, nphi int, err error) {
	rawLayer, err := codec.Get(id, "layer")
	if err != nil {
		return 0, 0, err
	}
	rawSuperlayer, err := codec.Get(id, "superlayer")
	if err != nil {
		return 0, 0, err
	}
	rawNphi, err := codec.Get(id, "nphi")
	if err != nil {
		return 0, 0, err
	}

	layer = int(rawLayer) + p.LayersPerSuperlayer*int(rawSuperlayer) + 1
	nphi = int(rawNphi)

	geom, ok := p.Layers[layer]
	if !ok {
		return 0, 0, fmt.Errorf("%w: id %#x maps to unknown layer %d", ErrDecode, uint64(id), layer)
	}
	if nphi >= geom.WireCount {
		return 0, 0, fmt.Errorf("%w: id %#x wire index %d outside layer %d (has %d wires)",
			ErrDecode, uint64(id), nphi, layer, geom.WireCount)
	}
	return layer, nphi, nil
}
