package detector

import (
	"fmt"
	"math"

	"github.com/spinescan/spinescan/internal/geometry"
)

// ScoredBox is a candidate text region paired with the detector's
// confidence for it.
type ScoredBox struct {
	Box        geometry.Box
	Confidence float64
}

// Decode converts the detector's raw score and geometry grids into
// candidate boxes in pixel space. For every cell at or above
// scoreThresh, the rotated rectangle implied by the cell's edge
// distances and angle is decoded, and its axis-aligned enclosing box is
// emitted. The rotation only sizes the box; downstream stages work on
// axis-aligned boxes exclusively.
//
// Output order is row-major over the grid; callers must not rely on it.
func Decode(score ScoreMap, geom GeometryMap, scoreThresh float64) ([]ScoredBox, error) {
	if err := validateGrids(score, geom); err != nil {
		return nil, err
	}
	if scoreThresh < 0 || scoreThresh > 1 {
		return nil, fmt.Errorf("detector: score threshold %v outside [0,1]", scoreThresh)
	}

	var boxes []ScoredBox
	for y := 0; y < score.Rows; y++ {
		for x := 0; x < score.Cols; x++ {
			s := float64(score.At(x, y))
			if s < scoreThresh {
				continue
			}

			offsetX := float64(x * CellStride)
			offsetY := float64(y * CellStride)

			angle := float64(geom.At(geomAngle, x, y))
			cos := math.Cos(angle)
			sin := math.Sin(angle)

			dTop := float64(geom.At(geomTop, x, y))
			dRight := float64(geom.At(geomRight, x, y))
			dBottom := float64(geom.At(geomBottom, x, y))
			dLeft := float64(geom.At(geomLeft, x, y))

			h := dTop + dBottom
			w := dRight + dLeft

			endX := int(offsetX + cos*dRight + sin*dBottom)
			endY := int(offsetY - sin*dRight + cos*dBottom)
			startX := int(float64(endX) - w)
			startY := int(float64(endY) - h)

			boxes = append(boxes, ScoredBox{
				Box:        geometry.Box{X1: startX, Y1: startY, X2: endX, Y2: endY},
				Confidence: s,
			})
		}
	}
	return boxes, nil
}
