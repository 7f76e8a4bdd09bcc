//go:build !ocr

package recognizer

import (
	"context"
	"errors"
	"image"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr (Tesseract must be installed) to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Tesseract is the stub engine used when the "ocr" build tag is not set.
type Tesseract struct{}

// NewTesseract returns an error indicating OCR support is not enabled.
func NewTesseract(language string) (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

// Recognize returns an error indicating OCR support is not enabled.
func (t *Tesseract) Recognize(ctx context.Context, region image.Image) (string, error) {
	return "", ErrOCRNotEnabled
}

// Close is a no-op for the stub engine.
func (t *Tesseract) Close() error { return nil }
