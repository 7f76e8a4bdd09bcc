package detector

import (
	"errors"
	"fmt"
)

// GeometryChannels is the number of per-cell geometry values produced by
// the text detector: four edge distances plus one rotation angle.
const GeometryChannels = 5

// CellStride is the fixed pixel stride of the detector output grid
// relative to the input image.
const CellStride = 4

// Geometry channel indices.
const (
	geomTop = iota
	geomRight
	geomBottom
	geomLeft
	geomAngle
)

var errEmptyGrid = errors.New("detector: empty grid")

// ScoreMap holds the detector's per-cell text-likelihood scores in
// row-major order.
type ScoreMap struct {
	Rows int
	Cols int
	Data []float32
}

// GeometryMap holds the detector's per-cell geometry output. Each of the
// five channels is a row-major plane of Rows x Cols values: distances to
// the top, right, bottom and left edges of the implied box, and the
// rotation angle in radians.
type GeometryMap struct {
	Rows     int
	Cols     int
	Channels [GeometryChannels][]float32
}

// NewScoreMap allocates a zeroed score map.
func NewScoreMap(rows, cols int) ScoreMap {
	return ScoreMap{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// NewGeometryMap allocates a zeroed geometry map.
func NewGeometryMap(rows, cols int) GeometryMap {
	g := GeometryMap{Rows: rows, Cols: cols}
	for c := range g.Channels {
		g.Channels[c] = make([]float32, rows*cols)
	}
	return g
}

// At returns the score at grid cell (x, y).
func (s ScoreMap) At(x, y int) float32 { return s.Data[y*s.Cols+x] }

// Set stores a score at grid cell (x, y).
func (s *ScoreMap) Set(x, y int, v float32) { s.Data[y*s.Cols+x] = v }

// At returns the value of channel c at grid cell (x, y).
func (g GeometryMap) At(c, x, y int) float32 { return g.Channels[c][y*g.Cols+x] }

// Set stores a value in channel c at grid cell (x, y).
func (g *GeometryMap) Set(c, x, y int, v float32) { g.Channels[c][y*g.Cols+x] = v }

// validate checks that the score and geometry grids describe the same
// spatial layout. A mismatch is a programming-contract violation on the
// caller's side, so errors are descriptive and never coerced away.
func validateGrids(score ScoreMap, geom GeometryMap) error {
	if score.Rows <= 0 || score.Cols <= 0 {
		return fmt.Errorf("%w: score map is %dx%d", errEmptyGrid, score.Rows, score.Cols)
	}
	if len(score.Data) != score.Rows*score.Cols {
		return fmt.Errorf("detector: score map data length %d does not match %dx%d grid",
			len(score.Data), score.Rows, score.Cols)
	}
	if geom.Rows != score.Rows || geom.Cols != score.Cols {
		return fmt.Errorf("detector: geometry grid %dx%d does not match score grid %dx%d",
			geom.Rows, geom.Cols, score.Rows, score.Cols)
	}
	for c, plane := range geom.Channels {
		if len(plane) != geom.Rows*geom.Cols {
			return fmt.Errorf("detector: geometry channel %d has length %d, want %d",
				c, len(plane), geom.Rows*geom.Cols)
		}
	}
	return nil
}
