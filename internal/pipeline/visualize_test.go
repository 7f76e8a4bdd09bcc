package pipeline

import (
	"image"
	"testing"

	"github.com/spinescan/spinescan/internal/geometry"
	"github.com/spinescan/spinescan/internal/layout"
)

func TestVisualizeLayoutPreservesBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 320, 120))
	boxes := []geometry.Box{
		{X1: 10, Y1: 10, X2: 100, Y2: 40},
		{X1: 200, Y1: 10, X2: 300, Y2: 40},
	}
	res := layout.Reconstruct(boxes, layout.DefaultOptions())

	out := VisualizeLayout(img, res, DefaultVisualizeOptions())
	if out == nil {
		t.Fatalf("overlay is nil")
	}
	if out.Bounds() != img.Bounds() {
		t.Fatalf("overlay bounds %v, want %v", out.Bounds(), img.Bounds())
	}
}

func TestVisualizeLayoutEmptyResult(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	out := VisualizeLayout(img, layout.Result{}, VisualizeOptions{})
	if out == nil || out.Bounds() != img.Bounds() {
		t.Fatalf("empty layout should still produce a copy of the image")
	}
}
