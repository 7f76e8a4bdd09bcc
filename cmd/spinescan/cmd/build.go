package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spinescan/spinescan/internal/catalog"
	"github.com/spinescan/spinescan/internal/config"
	"github.com/spinescan/spinescan/internal/detector"
	"github.com/spinescan/spinescan/internal/pipeline"
	"github.com/spinescan/spinescan/internal/recognizer"
	"github.com/spinescan/spinescan/internal/textproc"
)

// buildPipeline assembles a pipeline from the configuration and a grid
// source. gridsFile and detectorURL are mutually exclusive; exactly one
// must be set.
func buildPipeline(cfg *config.Config, gridsFile, detectorURL string) (*pipeline.Pipeline, error) {
	var grids detector.GridProducer
	switch {
	case gridsFile != "" && detectorURL != "":
		return nil, errors.New("--grids and --detector-url are mutually exclusive")
	case gridsFile != "":
		static, err := detector.LoadGridsFile(gridsFile)
		if err != nil {
			return nil, err
		}
		grids = static
	case detectorURL != "":
		grids = detector.NewRemoteGrids(detectorURL)
	default:
		return nil, errors.New("either --grids or --detector-url is required")
	}

	engine, err := recognizer.NewTesseract(cfg.OCR.Language)
	if err != nil {
		return nil, fmt.Errorf("OCR engine: %w", err)
	}

	p := pipeline.New(grids, engine)
	p.Opts.Detector = cfg.DetectorOptions()
	p.Opts.Layout = cfg.LayoutOptions()
	p.Opts.Languages = cfg.Text.Languages

	if cfg.Text.DictDir != "" {
		words, err := textproc.LoadDictionaries(cfg.Text.DictDir, cfg.Text.Languages)
		if err != nil {
			slog.Warn("word correction disabled", "error", err)
		} else {
			p.Words = words
		}
	}

	if cfg.Text.TitleListPath != "" {
		titles, err := textproc.LoadTitles(cfg.Text.TitleListPath)
		if err != nil {
			slog.Warn("title matching disabled", "error", err)
		} else {
			p.Titles = titles
		}
	}

	if cfg.Catalog.Enabled {
		p.Catalog = catalog.NewClient(
			catalog.WithLanguage(cfg.Catalog.Language),
			catalog.WithTimeout(time.Duration(cfg.Catalog.TimeoutSec)*time.Second),
		)
	}

	return p, nil
}
