package layout

import (
	"testing"

	"github.com/spinescan/spinescan/internal/geometry"
)

func TestTrimmedMean(t *testing.T) {
	// Middle half of [10 20 30 40] is [20 30].
	if got := trimmedMean([]float64{40, 10, 30, 20}); got != 25 {
		t.Fatalf("trimmedMean = %v, want 25", got)
	}
	// Too small to trim: plain mean.
	if got := trimmedMean([]float64{10, 20}); got != 15 {
		t.Fatalf("trimmedMean small sample = %v, want 15", got)
	}
	if got := trimmedMean([]float64{10, 20, 30}); got != 20 {
		t.Fatalf("trimmedMean three samples = %v, want 20", got)
	}
	// Outliers in the quartiles are discarded.
	if got := trimmedMean([]float64{1, 20, 20, 20, 20, 20, 20, 500}); got != 20 {
		t.Fatalf("trimmedMean with outliers = %v, want 20", got)
	}
}

func TestGapJumpCandidate(t *testing.T) {
	opts := DefaultOptions()

	// Clear break between word gaps and a column gap.
	cand, ok := gapJumpCandidate([]float64{10, 12, 11, 100}, opts)
	if !ok {
		t.Fatalf("expected a jump to be found")
	}
	if cand != 80 {
		t.Fatalf("candidate = %v, want 100*0.8 = 80", cand)
	}

	// Uniform gaps: no break.
	if _, ok := gapJumpCandidate([]float64{20, 22, 21, 23}, opts); ok {
		t.Fatalf("uniform gaps should not produce a jump")
	}

	// A single gap is not a distribution.
	if _, ok := gapJumpCandidate([]float64{100}, opts); ok {
		t.Fatalf("single gap should not produce a jump")
	}
}

func TestGapThresholdHeightBaseline(t *testing.T) {
	// Height 20 boxes, no gap information: 20 * 1.5 = 30.
	boxes := []geometry.Box{
		{X1: 10, Y1: 10, X2: 100, Y2: 30},
		{X1: 10, Y1: 40, X2: 100, Y2: 60},
	}
	if got := gapThreshold(boxes, DefaultOptions()); got != 30 {
		t.Fatalf("threshold = %v, want 30", got)
	}
}

func TestGapThresholdClampsLowerBound(t *testing.T) {
	// Tiny 10px text: 10 * 1.5 = 15 clamps up to 25 without a jump.
	boxes := []geometry.Box{
		{X1: 10, Y1: 10, X2: 100, Y2: 20},
		{X1: 10, Y1: 30, X2: 100, Y2: 40},
	}
	if got := gapThreshold(boxes, DefaultOptions()); got != 25 {
		t.Fatalf("threshold = %v, want clamp to 25", got)
	}
}

func TestGapThresholdClampsUpperBound(t *testing.T) {
	// Huge 200px lettering: 300 clamps down to 150.
	boxes := []geometry.Box{
		{X1: 10, Y1: 0, X2: 100, Y2: 200},
		{X1: 10, Y1: 300, X2: 100, Y2: 500},
	}
	if got := gapThreshold(boxes, DefaultOptions()); got != 150 {
		t.Fatalf("threshold = %v, want clamp to 150", got)
	}
}

func TestGapThresholdJumpWins(t *testing.T) {
	// Word gaps around 8px, one 30px column gap. The jump candidate
	// (30*0.8 = 24) undercuts the height baseline (20*1.5 = 30) and the
	// jump-aware lower clamp keeps it.
	boxes := []geometry.Box{
		{X1: 0, Y1: 10, X2: 40, Y2: 30},
		{X1: 48, Y1: 10, X2: 88, Y2: 30},
		{X1: 96, Y1: 10, X2: 136, Y2: 30},
		{X1: 166, Y1: 10, X2: 206, Y2: 30},
	}
	if got := gapThreshold(boxes, DefaultOptions()); got != 24 {
		t.Fatalf("threshold = %v, want 24", got)
	}
}

func TestGapThresholdFallback(t *testing.T) {
	if got := gapThreshold(nil, DefaultOptions()); got != fallbackThreshold {
		t.Fatalf("threshold = %v, want fallback %v", got, fallbackThreshold)
	}
}
