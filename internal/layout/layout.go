// Package layout reconstructs the human reading order of text regions
// detected on a book spine. Given an unordered set of axis-aligned
// boxes, it derives an adaptive horizontal-gap threshold, partitions the
// boxes into left-to-right columns, groups each column into
// top-to-bottom rows, and emits the flattened reading order together
// with the column/row structure for diagnostics.
package layout

import "github.com/spinescan/spinescan/internal/geometry"

// Row is an ordered sequence of boxes on one text line, sorted ascending
// by horizontal center. All boxes in a row are mutually within the
// vertical tolerance used to form it.
type Row []geometry.Box

// Column is an ordered sequence of rows, top-to-bottom.
type Column struct {
	Rows []Row `json:"rows"`
}

// Result describes the reconstructed layout. ReadingOrder is the
// concatenation of columns left-to-right, each column's rows
// top-to-bottom, each row left-to-right; it is the sole output consumed
// by recognition. Columns, Boundaries and GapThreshold are exposed for
// visualization and carry no downstream contract.
type Result struct {
	Columns      []Column       `json:"columns"`
	Boundaries   []float64      `json:"boundaries,omitempty"`
	ReadingOrder []geometry.Box `json:"reading_order"`
	GapThreshold float64        `json:"gap_threshold"`
}

// TotalColumns returns the number of reconstructed columns.
func (r Result) TotalColumns() int { return len(r.Columns) }

// Options holds the empirically tuned layout parameters. They were
// validated against real book-spine photographs; changing them shifts
// where word spacing ends and column spacing begins.
type Options struct {
	// RowTolerance is the maximum vertical center distance, in pixels,
	// for two boxes to share a row.
	RowTolerance float64

	// HeightScale multiplies the typical box height to form the
	// baseline gap threshold candidate.
	HeightScale float64

	// JumpRatio is the minimum ratio between consecutive sorted gaps
	// that marks the break between word spacing and column spacing.
	JumpRatio float64

	// JumpScale scales the gap just above the detected break into a
	// threshold candidate sitting slightly below it.
	JumpScale float64

	// BoundaryMergeTol merges column boundaries closer than this many
	// pixels into one.
	BoundaryMergeTol float64

	// MinThreshold / MaxThreshold clamp the height-based candidate.
	MinThreshold float64
	MaxThreshold float64

	// MinThresholdWithJump is the lower clamp applied when a natural
	// gap break was detected; the break is trusted more aggressively.
	MinThresholdWithJump float64
}

// DefaultOptions returns the layout parameters the reconstruction was
// tuned with.
func DefaultOptions() Options {
	return Options{
		RowTolerance:         20,
		HeightScale:          1.5,
		JumpRatio:            2.0,
		JumpScale:            0.8,
		BoundaryMergeTol:     5,
		MinThreshold:         25,
		MaxThreshold:         150,
		MinThresholdWithJump: 10,
	}
}
