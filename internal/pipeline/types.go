package pipeline

import (
	"github.com/spinescan/spinescan/internal/catalog"
	"github.com/spinescan/spinescan/internal/layout"
	"github.com/spinescan/spinescan/internal/recognizer"
)

// VariantResult holds everything the pipeline derived from one
// orientation of a spine image.
type VariantResult struct {
	// Name identifies the orientation, e.g. "original" or "rotated-180".
	Name string `json:"name"`

	// Layout is the reconstructed column/row structure and reading
	// order of the detected text regions.
	Layout layout.Result `json:"layout"`

	// Regions are the raw recognition results in reading order.
	Regions []recognizer.RegionText `json:"regions,omitempty"`

	// CorrectedText is the dictionary-corrected concatenation of all
	// region texts in reading order.
	CorrectedText string `json:"corrected_text,omitempty"`

	// BestTitle is the final title guess after title matching.
	BestTitle string `json:"best_title,omitempty"`

	// Validity rates how plausible CorrectedText is as real text.
	Validity float64 `json:"validity"`
}

// SpineResult is the pipeline output for one book spine.
type SpineResult struct {
	Variants []VariantResult `json:"variants"`

	// BestVariant indexes into Variants; -1 when no variant produced
	// usable text.
	BestVariant int `json:"best_variant"`

	// Title is the best title across variants, possibly empty.
	Title string `json:"title,omitempty"`

	// Source names the catalog that resolved the title, when any did.
	Source string        `json:"source,omitempty"`
	Book   *catalog.Book `json:"book,omitempty"`
}

// Best returns the winning variant, or nil when no text was found.
func (r *SpineResult) Best() *VariantResult {
	if r.BestVariant < 0 || r.BestVariant >= len(r.Variants) {
		return nil
	}
	return &r.Variants[r.BestVariant]
}
