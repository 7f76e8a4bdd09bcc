package pipeline

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spinescan/spinescan/internal/geometry"
	"github.com/spinescan/spinescan/internal/layout"
)

// VisualizeOptions controls the diagnostic overlay.
type VisualizeOptions struct {
	DrawBoxes      bool
	DrawBoundaries bool
	DrawStructure  bool
	Thickness      int
}

// DefaultVisualizeOptions enables the full overlay.
func DefaultVisualizeOptions() VisualizeOptions {
	return VisualizeOptions{
		DrawBoxes:      true,
		DrawBoundaries: true,
		DrawStructure:  true,
		Thickness:      2,
	}
}

// columnColors cycles per column in the structure overlay.
var columnColors = []color.RGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
	{255, 255, 0, 255},
	{255, 0, 255, 255},
	{0, 255, 255, 255},
}

// VisualizeLayout draws the reconstructed layout onto a copy of img:
// reading-order boxes with their indices, column boundaries as vertical
// lines, and one labeled rectangle per row. The overlay is diagnostic
// only and carries no correctness contract.
func VisualizeLayout(img image.Image, res layout.Result, opt VisualizeOptions) *image.RGBA {
	if opt.Thickness <= 0 {
		opt.Thickness = 1
	}

	b := img.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, img.At(x, y))
		}
	}

	if opt.DrawBoxes {
		green := color.RGBA{0, 255, 0, 255}
		for i, box := range res.ReadingOrder {
			geometry.DrawRect(dst, box.ToRect(), green, opt.Thickness)
			drawLabel(dst, box.X1+4, box.Y1+14, fmt.Sprintf("%d", i), green)
		}
	}

	if opt.DrawBoundaries {
		white := color.RGBA{255, 255, 255, 255}
		for _, x := range res.Boundaries {
			geometry.DrawVerticalLine(dst, int(x), white, opt.Thickness)
		}
	}

	if opt.DrawStructure {
		for colIdx, column := range res.Columns {
			col := columnColors[colIdx%len(columnColors)]
			for rowIdx, row := range column.Rows {
				if len(row) == 0 {
					continue
				}
				rect := rowExtent(row).ToRect().Inset(-4)
				geometry.DrawRect(dst, rect, col, opt.Thickness)
				drawLabel(dst, rect.Min.X, rect.Min.Y-4,
					fmt.Sprintf("C%dR%d", colIdx+1, rowIdx+1), col)
			}
		}
	}

	return dst
}

// rowExtent returns the bounding box covering all boxes in a row.
func rowExtent(row layout.Row) geometry.Box {
	ext := row[0]
	for _, b := range row[1:] {
		if b.X1 < ext.X1 {
			ext.X1 = b.X1
		}
		if b.Y1 < ext.Y1 {
			ext.Y1 = b.Y1
		}
		if b.X2 > ext.X2 {
			ext.X2 = b.X2
		}
		if b.Y2 > ext.Y2 {
			ext.Y2 = b.Y2
		}
	}
	return ext
}

// drawLabel renders small text at (x, y) using the built-in bitmap font.
func drawLabel(dst *image.RGBA, x, y int, text string, col color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
