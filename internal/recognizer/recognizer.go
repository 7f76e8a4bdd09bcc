// Package recognizer defines the boundary to the external OCR engine.
// The pipeline hands it an image and the reconstructed reading order of
// region boxes; the engine crops and recognizes each region and returns
// raw text per region, keyed by the region's position in the sequence.
package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/spinescan/spinescan/internal/geometry"
)

// RegionText is the raw recognition result for one region.
type RegionText struct {
	// Index is the region's 0-based position in the reading order. It
	// is the identifier the correction pipeline uses downstream.
	Index int          `json:"index"`
	Box   geometry.Box `json:"box"`
	Text  string       `json:"text"`
}

// Engine recognizes text in a single cropped region image.
type Engine interface {
	Recognize(ctx context.Context, region image.Image) (string, error)
	Close() error
}

// RecognizeRegions crops each box from the image in reading order and
// runs the engine on it. Region crops that fall outside the image yield
// empty text rather than an error.
func RecognizeRegions(ctx context.Context, eng Engine, img image.Image, order []geometry.Box) ([]RegionText, error) {
	results := make([]RegionText, 0, len(order))
	for i, box := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rect := box.ToRect().Intersect(img.Bounds())
		rt := RegionText{Index: i, Box: box}
		if !rect.Empty() {
			crop := imaging.Crop(img, rect)
			text, err := eng.Recognize(ctx, crop)
			if err != nil {
				return nil, fmt.Errorf("recognize region %d: %w", i, err)
			}
			rt.Text = text
		}
		results = append(results, rt)
	}
	return results, nil
}

// encodePNG renders an image to PNG bytes for engines that consume
// encoded images.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode region: %w", err)
	}
	return buf.Bytes(), nil
}
