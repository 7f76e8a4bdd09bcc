package detector

import (
	"math"
	"testing"

	"github.com/spinescan/spinescan/internal/geometry"
)

func TestDecodeAxisAligned(t *testing.T) {
	score := NewScoreMap(2, 2)
	geom := NewGeometryMap(2, 2)

	// One confident cell at grid (1, 0): pixel offset (4, 0).
	score.Set(1, 0, 0.9)
	geom.Set(geomTop, 1, 0, 8)
	geom.Set(geomRight, 1, 0, 12)
	geom.Set(geomBottom, 1, 0, 8)
	geom.Set(geomLeft, 1, 0, 12)

	boxes, err := Decode(score, geom, 0.5)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(boxes))
	}

	// end = offset + (dRight, dBottom), start = end - (w, h).
	want := geometry.Box{X1: -8, Y1: -8, X2: 16, Y2: 8}
	if boxes[0].Box != want {
		t.Fatalf("decoded box = %+v, want %+v", boxes[0].Box, want)
	}
	if boxes[0].Confidence != float64(float32(0.9)) {
		t.Fatalf("confidence = %v, want 0.9", boxes[0].Confidence)
	}
}

func TestDecodeRotationSizesTheBox(t *testing.T) {
	score := NewScoreMap(1, 1)
	geom := NewGeometryMap(1, 1)

	score.Set(0, 0, 1.0)
	geom.Set(geomTop, 0, 0, 5)
	geom.Set(geomRight, 0, 0, 10)
	geom.Set(geomBottom, 0, 0, 5)
	geom.Set(geomLeft, 0, 0, 10)
	geom.Set(geomAngle, 0, 0, float32(math.Pi/2))

	boxes, err := Decode(score, geom, 0.5)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(boxes))
	}

	b := boxes[0].Box
	// Rotation moves the anchor but the emitted box stays axis-aligned
	// at the full w x h extent.
	if b.Width() != 20 || b.Height() != 10 {
		t.Fatalf("box size %dx%d, want 20x10", b.Width(), b.Height())
	}
	// cos ~ 0, sin ~ 1: the anchor lands near (dBottom, -dRight).
	if b.X2 > 5 || b.X2 < 4 || b.Y2 > -9 || b.Y2 < -10 {
		t.Fatalf("box anchor (%d,%d), want near (5,-10)", b.X2, b.Y2)
	}
}

func TestDecodeThresholdFiltersCells(t *testing.T) {
	score := NewScoreMap(1, 3)
	geom := NewGeometryMap(1, 3)
	score.Set(0, 0, 0.3)
	score.Set(1, 0, 0.5)
	score.Set(2, 0, 0.7)
	for x := 0; x < 3; x++ {
		geom.Set(geomTop, x, 0, 4)
		geom.Set(geomBottom, x, 0, 4)
		geom.Set(geomLeft, x, 0, 4)
		geom.Set(geomRight, x, 0, 4)
	}

	// Threshold is inclusive: 0.5 and 0.7 survive.
	boxes, err := Decode(score, geom, 0.5)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(boxes))
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	score := NewScoreMap(2, 2)
	geom := NewGeometryMap(2, 2)

	if _, err := Decode(ScoreMap{}, GeometryMap{}, 0.5); err == nil {
		t.Fatalf("empty grids should fail")
	}
	if _, err := Decode(score, NewGeometryMap(3, 2), 0.5); err == nil {
		t.Fatalf("mismatched grid shapes should fail")
	}
	if _, err := Decode(score, geom, -0.1); err == nil {
		t.Fatalf("negative threshold should fail")
	}
	if _, err := Decode(score, geom, 1.5); err == nil {
		t.Fatalf("threshold above 1 should fail")
	}

	short := NewScoreMap(2, 2)
	short.Data = short.Data[:3]
	if _, err := Decode(short, geom, 0.5); err == nil {
		t.Fatalf("short score data should fail")
	}

	badGeom := NewGeometryMap(2, 2)
	badGeom.Channels[2] = badGeom.Channels[2][:1]
	if _, err := Decode(score, badGeom, 0.5); err == nil {
		t.Fatalf("short geometry channel should fail")
	}
}
