package recognizer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/spinescan/spinescan/internal/geometry"
)

// fakeEngine reports the size of each crop it receives.
type fakeEngine struct {
	calls int
	err   error
}

func (f *fakeEngine) Recognize(ctx context.Context, region image.Image) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	b := region.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), nil
}

func (f *fakeEngine) Close() error { return nil }

func TestRecognizeRegionsCropsInOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	order := []geometry.Box{
		{X1: 10, Y1: 10, X2: 60, Y2: 30},
		{X1: 100, Y1: 40, X2: 180, Y2: 80},
	}

	eng := &fakeEngine{}
	results, err := RecognizeRegions(context.Background(), eng, img, order)
	if err != nil {
		t.Fatalf("RecognizeRegions failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Index != 0 || results[1].Index != 1 {
		t.Fatalf("indices not in reading order: %+v", results)
	}
	if results[0].Text != "50x20" || results[1].Text != "80x40" {
		t.Fatalf("crops have wrong sizes: %+v", results)
	}
	if results[1].Box != order[1] {
		t.Fatalf("result box mismatch: %+v", results[1])
	}
}

func TestRecognizeRegionsOutsideImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	order := []geometry.Box{{X1: 100, Y1: 100, X2: 120, Y2: 120}}

	eng := &fakeEngine{}
	results, err := RecognizeRegions(context.Background(), eng, img, order)
	if err != nil {
		t.Fatalf("RecognizeRegions failed: %v", err)
	}
	if len(results) != 1 || results[0].Text != "" {
		t.Fatalf("out-of-image region should yield empty text, got %+v", results)
	}
	if eng.calls != 0 {
		t.Fatalf("engine should not be called for empty crops")
	}
}

func TestRecognizeRegionsPropagatesEngineError(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	order := []geometry.Box{{X1: 0, Y1: 0, X2: 10, Y2: 10}}

	boom := errors.New("engine down")
	_, err := RecognizeRegions(context.Background(), &fakeEngine{err: boom}, img, order)
	if !errors.Is(err, boom) {
		t.Fatalf("expected engine error, got %v", err)
	}
}

func TestRecognizeRegionsHonorsContext(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	order := []geometry.Box{{X1: 0, Y1: 0, X2: 10, Y2: 10}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RecognizeRegions(ctx, &fakeEngine{}, img, order); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
