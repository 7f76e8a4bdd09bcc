package layout

import (
	"sort"

	"github.com/spinescan/spinescan/internal/geometry"
)

// centeredBox annotates a box with its precomputed center, used only
// during reconstruction.
type centeredBox struct {
	box     geometry.Box
	centerX float64
	centerY float64
}

// Reconstruct computes the reading-order layout for the given boxes.
// It is a pure function: the same box set produces the same Result
// regardless of input order, and no state survives the call. Degenerate
// boxes (non-positive width or height) are dropped silently.
func Reconstruct(boxes []geometry.Box, opts Options) Result {
	valid := make([]geometry.Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Valid() {
			valid = append(valid, b)
		}
	}
	if len(valid) == 0 {
		return Result{}
	}

	centered := make([]centeredBox, len(valid))
	for i, b := range valid {
		centered[i] = centeredBox{box: b, centerX: b.CenterX(), centerY: b.CenterY()}
	}

	threshold := gapThreshold(valid, opts)
	boundaries := columnBoundaries(valid, threshold, opts)
	columns := assignColumns(centered, boundaries)

	result := Result{
		Columns:      make([]Column, len(columns)),
		Boundaries:   boundaries,
		GapThreshold: threshold,
	}
	for i, col := range columns {
		rows := groupRows(col, opts.RowTolerance)
		result.Columns[i] = Column{Rows: rows}
		for _, row := range rows {
			result.ReadingOrder = append(result.ReadingOrder, row...)
		}
	}
	return result
}

// columnBoundaries derives the x-coordinates separating columns: the
// midpoint of every horizontal gap exceeding the threshold, with
// boundaries closer than BoundaryMergeTol collapsed into one.
func columnBoundaries(boxes []geometry.Box, threshold float64, opts Options) []float64 {
	byLeft := append([]geometry.Box(nil), boxes...)
	sortBoxesByLeftEdge(byLeft)

	var raw []float64
	for i := 1; i < len(byLeft); i++ {
		gap := float64(byLeft[i].X1 - byLeft[i-1].X2)
		if gap > threshold {
			raw = append(raw, float64(byLeft[i-1].X2)+gap/2)
		}
	}
	sort.Float64s(raw)

	var boundaries []float64
	for _, x := range raw {
		if len(boundaries) == 0 || x-boundaries[len(boundaries)-1] > opts.BoundaryMergeTol {
			boundaries = append(boundaries, x)
		}
	}
	return boundaries
}

// assignColumns buckets boxes by the number of boundaries strictly to
// the left of their horizontal center. The count is monotonic in
// centerX, so bucket order is left-to-right by construction.
func assignColumns(boxes []centeredBox, boundaries []float64) [][]centeredBox {
	columns := make([][]centeredBox, 0)
	for _, cb := range boxes {
		idx := 0
		for _, bx := range boundaries {
			if cb.centerX > bx {
				idx++
			} else {
				break
			}
		}
		for len(columns) <= idx {
			columns = append(columns, nil)
		}
		columns[idx] = append(columns[idx], cb)
	}
	return columns
}

// groupRows sorts a column's boxes by vertical center and walks the
// sequence, starting a new row whenever the center distance to the
// previous box exceeds the tolerance. Each completed row is sorted by
// horizontal center.
func groupRows(column []centeredBox, tolerance float64) []Row {
	if len(column) == 0 {
		return nil
	}

	byY := append([]centeredBox(nil), column...)
	sort.Slice(byY, func(i, j int) bool {
		if byY[i].centerY != byY[j].centerY {
			return byY[i].centerY < byY[j].centerY
		}
		return lessBox(byY[i].box, byY[j].box)
	})

	var rows []Row
	current := []centeredBox{byY[0]}
	for _, cb := range byY[1:] {
		prev := current[len(current)-1]
		// byY is sorted ascending, so the difference is non-negative.
		if cb.centerY-prev.centerY <= tolerance {
			current = append(current, cb)
		} else {
			rows = append(rows, finishRow(current))
			current = []centeredBox{cb}
		}
	}
	rows = append(rows, finishRow(current))
	return rows
}

// finishRow orders a completed row left-to-right.
func finishRow(row []centeredBox) Row {
	sort.Slice(row, func(i, j int) bool {
		if row[i].centerX != row[j].centerX {
			return row[i].centerX < row[j].centerX
		}
		return lessBox(row[i].box, row[j].box)
	})
	out := make(Row, len(row))
	for i, cb := range row {
		out[i] = cb.box
	}
	return out
}

// sortBoxesByLeftEdge orders boxes by left edge with a total tie-break
// so reconstruction stays deterministic for any input order.
func sortBoxesByLeftEdge(boxes []geometry.Box) {
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].X1 != boxes[j].X1 {
			return boxes[i].X1 < boxes[j].X1
		}
		return lessBox(boxes[i], boxes[j])
	})
}

// lessBox is a total order over boxes used for tie-breaking.
func lessBox(a, b geometry.Box) bool {
	if a.X1 != b.X1 {
		return a.X1 < b.X1
	}
	if a.Y1 != b.Y1 {
		return a.Y1 < b.Y1
	}
	if a.X2 != b.X2 {
		return a.X2 < b.X2
	}
	return a.Y2 < b.Y2
}
