package geometry

import "image"

// Box represents an axis-aligned rectangle in image pixel coordinates.
// A well-formed box satisfies X1 < X2 and Y1 < Y2.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// NewBox constructs a Box from two corner coordinates, normalizing their order.
func NewBox(x1, y1, x2, y2 int) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the box width in pixels.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Area returns the box area in square pixels.
func (b Box) Area() int { return b.Width() * b.Height() }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return float64(b.X1+b.X2) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return float64(b.Y1+b.Y2) / 2 }

// Valid reports whether the box has positive width and height.
func (b Box) Valid() bool { return b.X1 < b.X2 && b.Y1 < b.Y2 }

// ToRect converts the box to an image.Rectangle.
func (b Box) ToRect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Clamp restricts the box to [0,width) x [0,height) image bounds.
func (b Box) Clamp(width, height int) Box {
	return Box{
		X1: clampInt(b.X1, 0, width),
		Y1: clampInt(b.Y1, 0, height),
		X2: clampInt(b.X2, 0, width),
		Y2: clampInt(b.Y2, 0, height),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IoU computes the intersection-over-union of two boxes.
func IoU(a, b Box) float64 {
	ix1 := maxInt(a.X1, b.X1)
	iy1 := maxInt(a.Y1, b.Y1)
	ix2 := minInt(a.X2, b.X2)
	iy2 := minInt(a.Y2, b.Y2)

	if ix1 >= ix2 || iy1 >= iy2 {
		return 0.0
	}

	intersection := (ix2 - ix1) * (iy2 - iy1)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
