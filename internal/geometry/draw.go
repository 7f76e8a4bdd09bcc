package geometry

import (
	"image"
	"image/color"
)

// DrawRect draws an axis-aligned rectangle outline into dst.
func DrawRect(dst *image.RGBA, rect image.Rectangle, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	// Top and bottom edges
	for t := 0; t < thickness; t++ {
		yTop := rect.Min.Y + t
		yBot := rect.Max.Y - 1 - t
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, yTop, col)
			dst.Set(x, yBot, col)
		}
	}
	// Left and right edges
	for t := 0; t < thickness; t++ {
		xLeft := rect.Min.X + t
		xRight := rect.Max.X - 1 - t
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dst.Set(xLeft, y, col)
			dst.Set(xRight, y, col)
		}
	}
}

// DrawVerticalLine draws a vertical line spanning the full image height.
func DrawVerticalLine(dst *image.RGBA, x int, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	b := dst.Bounds()
	for t := 0; t < thickness; t++ {
		xx := x + t - thickness/2
		if xx < b.Min.X || xx >= b.Max.X {
			continue
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			dst.Set(xx, y, col)
		}
	}
}
