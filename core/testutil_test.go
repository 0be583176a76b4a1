package core

import (
	"math"
	"testing"

	"github.com/driftlab/dch-digitizer/model"
)

// Shared test fixture: a small two-superlayer chamber with the usual
// alternating stereo views.
const (
	testLayersPerSuperlayer = 4
	testWireCount           = 192
)

func testChamber() *ChamberParams {
	layers := make(map[int]LayerGeometry)
	for i := 1; i <= 2*testLayersPerSuperlayer; i++ {
		sign := 1
		if (i-1)/testLayersPerSuperlayer == 1 {
			sign = -1
		}
		offset := 0.0
		if i%2 == 0 {
			offset = 0.5
		}
		layers[i] = LayerGeometry{
			RadiusZ0:   35.0 + 1.2*float64(i-1),
			WireCount:  testWireCount,
			StereoSign: sign,
			PhiOffset:  offset,
		}
	}
	return &ChamberParams{
		HalfLength:          200.0,
		TwistAngle:          0.06,
		LayersPerSuperlayer: testLayersPerSuperlayer,
		Layers:              layers,
	}
}

// Field layout shared by the fixtures: superlayer:0+5, layer:5+4, nphi:9+16.
func testCodec(t *testing.T) *CellCodec {
	t.Helper()
	codec, err := NewCellCodec([]CellField{
		{Name: "superlayer", Offset: 0, Width: 5},
		{Name: "layer", Offset: 5, Width: 4},
		{Name: "nphi", Offset: 9, Width: 16},
	})
	if err != nil {
		t.Fatalf("NewCellCodec: %v", err)
	}
	return codec
}

func packCell(superlayer, layer, nphi uint64) model.CellID {
	return model.CellID(superlayer | layer<<5 | nphi<<9)
}

func testTable(t *testing.T) *ClusterTable {
	t.Helper()
	table := &ClusterTable{
		bins: []clusterBin{
			{
				lo: 0, hi: 1e-3,
				countCDF: []cdfStep{{P: 0.5, V: 2}, {P: 1.0, V: 5}},
				sizeCDF:  []cdfStep{{P: 1.0, V: 3}},
			},
			{
				lo: 1e-3, hi: 2e-3,
				countCDF: []cdfStep{{P: 1.0, V: 8}},
				sizeCDF:  []cdfStep{{P: 0.25, V: 1}, {P: 1.0, V: 4}},
			},
		},
		minCount: 1,
		minSize:  1,
	}
	return table
}

// pointOnWire returns a point on the (layer, nphi) wire line at the given
// distance along the wire from its z=0 reference point.
func pointOnWire(w *WireCalculator, layer, nphi int, along float64) Vec3 {
	return w.Z0Point(layer, nphi).Add(w.Direction(layer, nphi).Scale(along))
}

// perpOffsetPoint returns a point displaced from the wire by exactly dist,
// perpendicular to the wire direction, at the given along-wire position.
func perpOffsetPoint(w *WireCalculator, layer, nphi int, along, dist float64) Vec3 {
	ez := w.Direction(layer, nphi)
	radial := Vec3{X: 1, Y: 0, Z: 0}
	if math.Abs(ez.Dot(radial)) > 0.99 {
		radial = Vec3{X: 0, Y: 1, Z: 0}
	}
	perp := radial.Sub(ez.Scale(radial.Dot(ez))).Unit()
	return pointOnWire(w, layer, nphi, along).Add(perp.Scale(dist))
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
