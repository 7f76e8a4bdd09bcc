// Package pipeline orchestrates the per-spine OCR flow: detector grids
// in, suppressed and merged region boxes, reading-order reconstruction,
// recognition, text correction, and catalog lookup. The original image
// and its 180°-rotated variant are processed independently and the more
// plausible result wins.
package pipeline

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spinescan/spinescan/internal/catalog"
	"github.com/spinescan/spinescan/internal/detector"
	"github.com/spinescan/spinescan/internal/layout"
	"github.com/spinescan/spinescan/internal/recognizer"
	"github.com/spinescan/spinescan/internal/textproc"
)

// Options bundles the pipeline tunables.
type Options struct {
	Detector  detector.Options
	Layout    layout.Options
	Languages []string
}

// DefaultOptions returns the pipeline defaults.
func DefaultOptions() Options {
	return Options{
		Detector:  detector.DefaultOptions(),
		Layout:    layout.DefaultOptions(),
		Languages: []string{"de", "fr"},
	}
}

// Pipeline wires the external collaborators together. Grids and Engine
// are required; Words, Titles and Catalog are optional and skipped when
// nil.
type Pipeline struct {
	Grids   detector.GridProducer
	Engine  recognizer.Engine
	Words   *textproc.Dictionary
	Titles  *textproc.TitleMatcher
	Catalog *catalog.Client
	Opts    Options
}

// New builds a pipeline with default options.
func New(grids detector.GridProducer, engine recognizer.Engine) *Pipeline {
	return &Pipeline{Grids: grids, Engine: engine, Opts: DefaultOptions()}
}

// ProcessSpine runs the full flow for one spine image: both orientation
// variants concurrently, then a catalog lookup for the winning title.
func (p *Pipeline) ProcessSpine(ctx context.Context, img image.Image) (*SpineResult, error) {
	if p == nil || p.Grids == nil || p.Engine == nil {
		return nil, errors.New("pipeline not initialized")
	}

	variants := []struct {
		name string
		img  image.Image
	}{
		{"original", img},
		{"rotated-180", imaging.Rotate180(img)},
	}

	type variantOut struct {
		index  int
		result VariantResult
		err    error
	}
	out := make(chan variantOut, len(variants))
	for i, v := range variants {
		go func(index int, name string, vimg image.Image) {
			res, err := p.processVariant(ctx, name, vimg)
			out <- variantOut{index: index, result: res, err: err}
		}(i, v.name, v.img)
	}

	result := &SpineResult{Variants: make([]VariantResult, len(variants)), BestVariant: -1}
	var firstErr error
	for range variants {
		vo := <-out
		if vo.err != nil {
			if firstErr == nil {
				firstErr = vo.err
			}
			continue
		}
		result.Variants[vo.index] = vo.result
	}
	if firstErr != nil {
		return nil, firstErr
	}

	for i := range result.Variants {
		v := &result.Variants[i]
		if v.BestTitle == "" {
			continue
		}
		if result.BestVariant < 0 || v.Validity > result.Variants[result.BestVariant].Validity {
			result.BestVariant = i
		}
	}

	if best := result.Best(); best != nil {
		result.Title = best.BestTitle
		if p.Catalog != nil {
			source, book, err := p.Catalog.Lookup(ctx, result.Title)
			if err != nil {
				slog.Warn("catalog lookup failed", "title", result.Title, "error", err)
			} else if book != nil {
				result.Source = source
				result.Book = book
			}
		}
	}

	return result, nil
}

// processVariant runs detection, layout reconstruction, recognition and
// text correction for one orientation of the spine.
func (p *Pipeline) processVariant(ctx context.Context, name string, img image.Image) (VariantResult, error) {
	res := VariantResult{Name: name}

	score, geom, err := p.Grids.Infer(img)
	if err != nil {
		return res, err
	}

	b := img.Bounds()
	boxes, err := detector.DetectRegions(score, geom, b.Dx(), b.Dy(), p.Opts.Detector)
	if err != nil {
		return res, err
	}

	res.Layout = layout.Reconstruct(boxes, p.Opts.Layout)
	if len(res.Layout.ReadingOrder) == 0 {
		// No text found; a legitimate outcome, recognition is skipped.
		return res, nil
	}

	res.Regions, err = recognizer.RecognizeRegions(ctx, p.Engine, img, res.Layout.ReadingOrder)
	if err != nil {
		return res, err
	}

	parts := make([]string, 0, len(res.Regions))
	for _, region := range res.Regions {
		cleaned := textproc.CleanOCRText(region.Text, p.Opts.Languages...)
		if p.Words != nil {
			cleaned = p.Words.CorrectText(cleaned)
		}
		if cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	res.CorrectedText = strings.Join(parts, " ")
	res.Validity = textproc.ValidityScore(res.CorrectedText, p.Words)

	res.BestTitle = res.CorrectedText
	if p.Titles != nil {
		if matched, ok := p.Titles.Match(res.CorrectedText); ok {
			res.BestTitle = textproc.SelectBestTitle(res.CorrectedText, matched, ok)
		}
	}

	slog.Debug("variant processed",
		"variant", name,
		"regions", len(res.Regions),
		"columns", res.Layout.TotalColumns(),
		"validity", res.Validity)
	return res, nil
}
