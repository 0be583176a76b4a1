package core

import (
	"math"
	"testing"
)

func TestWireDirection_UnitForAllWires(t *testing.T) {
	wires, err := NewWireCalculator(testChamber())
	if err != nil {
		t.Fatalf("NewWireCalculator: %v", err)
	}

	for layer := 1; layer <= 2*testLayersPerSuperlayer; layer++ {
		for nphi := 0; nphi < testWireCount; nphi += 17 {
			if got := wires.Direction(layer, nphi).Norm(); !almostEqual(got, 1, 1e-12) {
				t.Fatalf("|Direction(%d, %d)| = %v, want 1", layer, nphi, got)
			}
		}
	}
}

func TestWireZ0Point_InZ0Plane(t *testing.T) {
	wires, err := NewWireCalculator(testChamber())
	if err != nil {
		t.Fatalf("NewWireCalculator: %v", err)
	}

	for layer := 1; layer <= 2*testLayersPerSuperlayer; layer++ {
		for nphi := 0; nphi < testWireCount; nphi += 31 {
			p := wires.Z0Point(layer, nphi)
			if p.Z != 0 {
				t.Fatalf("Z0Point(%d, %d).Z = %v, want 0", layer, nphi, p.Z)
			}
			r := testChamber().Layers[layer].RadiusZ0
			if got := math.Hypot(p.X, p.Y); !almostEqual(got, r, 1e-12) {
				t.Fatalf("|Z0Point(%d, %d)| = %v, want radius %v", layer, nphi, got, r)
			}
		}
	}
}

func TestWirePhiZ0_EquallySpaced(t *testing.T) {
	wires, err := NewWireCalculator(testChamber())
	if err != nil {
		t.Fatalf("NewWireCalculator: %v", err)
	}

	step := 2 * math.Pi / testWireCount
	if got := wires.PhiZ0(1, 1) - wires.PhiZ0(1, 0); !almostEqual(got, step, 1e-12) {
		t.Errorf("phi step = %v, want %v", got, step)
	}
	// Layer 2 carries a half-step stagger.
	if got := wires.PhiZ0(2, 0); !almostEqual(got, 0.5*step, 1e-12) {
		t.Errorf("staggered phi = %v, want %v", got, 0.5*step)
	}
}

func TestHitToWire_ZeroOnWire(t *testing.T) {
	wires, err := NewWireCalculator(testChamber())
	if err != nil {
		t.Fatalf("NewWireCalculator: %v", err)
	}

	for _, along := range []float64{-150, -1, 0, 42.5, 180} {
		hit := pointOnWire(wires, 3, 77, along)
		if got := wires.HitToWire(3, 77, hit).Norm(); !almostEqual(got, 0, 1e-9) {
			t.Fatalf("on-wire hit at along=%v has |hit-to-wire| = %v, want 0", along, got)
		}
	}
}

func TestHitToWire_KnownPerpendicularOffset(t *testing.T) {
	wires, err := NewWireCalculator(testChamber())
	if err != nil {
		t.Fatalf("NewWireCalculator: %v", err)
	}

	hit := perpOffsetPoint(wires, 5, 10, 33.0, 0.5)
	offset := wires.HitToWire(5, 10, hit)
	if got := offset.Norm(); !almostEqual(got, 0.5, 1e-12) {
		t.Errorf("|hit-to-wire| = %v, want 0.5", got)
	}
	// The offset must be orthogonal to the wire.
	if got := offset.Dot(wires.Direction(5, 10)); !almostEqual(got, 0, 1e-12) {
		t.Errorf("hit-to-wire not orthogonal to wire: dot = %v", got)
	}
}

func TestAlongWire_MatchesConstruction(t *testing.T) {
	wires, err := NewWireCalculator(testChamber())
	if err != nil {
		t.Fatalf("NewWireCalculator: %v", err)
	}

	hit := pointOnWire(wires, 2, 0, 64.0)
	if got := wires.AlongWire(2, 0, hit); !almostEqual(got, 64.0, 1e-9) {
		t.Errorf("AlongWire = %v, want 64.0", got)
	}
}

func TestStereoSignFlipsDirection(t *testing.T) {
	wires, err := NewWireCalculator(testChamber())
	if err != nil {
		t.Fatalf("NewWireCalculator: %v", err)
	}

	// Layers 1 and 5 sit in opposite-sign superlayers. At the same phi the
	// transverse components of their directions point opposite ways.
	a := wires.Direction(1, 0)
	b := wires.Direction(1+testLayersPerSuperlayer, 0)
	if a.Y*b.Y > 0 {
		t.Errorf("expected opposite stereo twists, got %v and %v", a, b)
	}
}

func TestNewWireCalculator_RejectsBadDescriptor(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ChamberParams)
	}{
		{"zero half-length", func(p *ChamberParams) { p.HalfLength = 0 }},
		{"zero layers per superlayer", func(p *ChamberParams) { p.LayersPerSuperlayer = 0 }},
		{"empty layer table", func(p *ChamberParams) { p.Layers = nil }},
		{"bad stereo sign", func(p *ChamberParams) {
			l := p.Layers[1]
			l.StereoSign = 0
			p.Layers[1] = l
		}},
		{"negative radius", func(p *ChamberParams) {
			l := p.Layers[2]
			l.RadiusZ0 = -1
			p.Layers[2] = l
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := testChamber()
			tc.mutate(params)
			if _, err := NewWireCalculator(params); err == nil {
				t.Fatalf("expected descriptor rejection")
			}
		})
	}
}
