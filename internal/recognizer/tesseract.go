//go:build ocr

package recognizer

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an Engine backed by the Tesseract OCR engine via
// gosseract. It requires Tesseract to be installed on the system and the
// "ocr" build tag.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract engine for the given language
// (e.g. "deu", "deu+fra"). Regions on a spine are single text blocks,
// so the page segmentation mode is fixed to single-block.
func NewTesseract(language string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set OCR language: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return &Tesseract{client: client}, nil
}

// Recognize runs OCR on one region image.
func (t *Tesseract) Recognize(ctx context.Context, region image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := encodePNG(region)
	if err != nil {
		return "", err
	}
	if err := t.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set region image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the Tesseract client.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
