// Package detector turns a text detector's raw score/geometry output
// into a clean set of axis-aligned text region boxes: decoding candidate
// boxes per grid cell, suppressing redundant overlaps, and merging
// fragmented detections of the same line.
package detector

import (
	"image"
	"log/slog"

	"github.com/spinescan/spinescan/internal/geometry"
)

// GridProducer is the boundary to the neural text detector. It runs
// inference on an image and returns the raw per-cell score and geometry
// grids. Implementations live outside this package; tests use synthetic
// grids.
type GridProducer interface {
	Infer(img image.Image) (ScoreMap, GeometryMap, error)
}

// Options bundles the tunables of the full detection post-process.
type Options struct {
	ScoreThreshold float64
	Suppress       SuppressOptions
	Merge          MergeOptions
}

// DefaultOptions returns the detection parameters the pipeline was tuned
// with.
func DefaultOptions() Options {
	return Options{
		ScoreThreshold: 0.5,
		Suppress:       DefaultSuppressOptions(),
		Merge:          DefaultMergeOptions(),
	}
}

// DetectRegions runs the full post-process over raw detector grids:
// decode candidates, suppress overlaps, and merge fragments into final
// region boxes for an image of the given size. Empty results at every
// stage are valid and propagate as empty slices.
func DetectRegions(score ScoreMap, geom GeometryMap, width, height int, opts Options) ([]geometry.Box, error) {
	candidates, err := Decode(score, geom, opts.ScoreThreshold)
	if err != nil {
		return nil, err
	}
	survivors := Suppress(candidates, opts.Suppress)
	boxes, err := MergeRegions(survivors, width, height, opts.Merge)
	if err != nil {
		return nil, err
	}
	slog.Debug("detection post-process complete",
		"candidates", len(candidates),
		"survivors", len(survivors),
		"regions", len(boxes))
	return boxes, nil
}
