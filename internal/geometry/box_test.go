package geometry

import (
	"image"
	"testing"
)

func TestNewBoxNormalizesCorners(t *testing.T) {
	b := NewBox(10, 20, 4, 6)
	if b.X1 != 4 || b.Y1 != 6 || b.X2 != 10 || b.Y2 != 20 {
		t.Fatalf("corners not normalized: %+v", b)
	}
	if !b.Valid() {
		t.Fatalf("normalized box should be valid")
	}
}

func TestBoxDimensions(t *testing.T) {
	b := Box{X1: 10, Y1: 20, X2: 40, Y2: 60}
	if b.Width() != 30 || b.Height() != 40 {
		t.Fatalf("got %dx%d, want 30x40", b.Width(), b.Height())
	}
	if b.Area() != 1200 {
		t.Fatalf("area = %d, want 1200", b.Area())
	}
	if b.CenterX() != 25 || b.CenterY() != 40 {
		t.Fatalf("center = (%v,%v), want (25,40)", b.CenterX(), b.CenterY())
	}
}

func TestBoxValid(t *testing.T) {
	if (Box{X1: 5, Y1: 5, X2: 5, Y2: 10}).Valid() {
		t.Fatalf("zero-width box should be invalid")
	}
	if (Box{X1: 5, Y1: 10, X2: 10, Y2: 10}).Valid() {
		t.Fatalf("zero-height box should be invalid")
	}
}

func TestBoxClamp(t *testing.T) {
	b := Box{X1: -10, Y1: -5, X2: 120, Y2: 90}.Clamp(100, 80)
	want := Box{X1: 0, Y1: 0, X2: 100, Y2: 80}
	if b != want {
		t.Fatalf("clamped to %+v, want %+v", b, want)
	}

	// A box entirely outside collapses to an invalid box.
	out := Box{X1: 200, Y1: 200, X2: 300, Y2: 300}.Clamp(100, 80)
	if out.Valid() {
		t.Fatalf("fully outside box should clamp to invalid, got %+v", out)
	}
}

func TestBoxToRect(t *testing.T) {
	b := Box{X1: 1, Y1: 2, X2: 3, Y2: 4}
	if b.ToRect() != image.Rect(1, 2, 3, 4) {
		t.Fatalf("ToRect mismatch: %v", b.ToRect())
	}
}

func TestIoU(t *testing.T) {
	a := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}

	if got := IoU(a, a); got != 1.0 {
		t.Fatalf("self IoU = %v, want 1.0", got)
	}

	disjoint := Box{X1: 20, Y1: 20, X2: 30, Y2: 30}
	if got := IoU(a, disjoint); got != 0.0 {
		t.Fatalf("disjoint IoU = %v, want 0.0", got)
	}

	// Touching edges do not intersect.
	touching := Box{X1: 10, Y1: 0, X2: 20, Y2: 10}
	if got := IoU(a, touching); got != 0.0 {
		t.Fatalf("touching IoU = %v, want 0.0", got)
	}

	// 5x10 overlap: 50 / (100 + 100 - 50).
	half := Box{X1: 5, Y1: 0, X2: 15, Y2: 10}
	if got := IoU(a, half); got != 50.0/150.0 {
		t.Fatalf("half-overlap IoU = %v, want %v", got, 50.0/150.0)
	}
}
