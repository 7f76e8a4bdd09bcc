package detector

import (
	"container/list"
	"fmt"

	"github.com/spinescan/spinescan/internal/geometry"
)

// MergeOptions holds tunable parameters for the mask-based box merger.
type MergeOptions struct {
	// KernelSize is the side length of the square structuring element
	// used to dilate the rasterized mask. Dilation bridges small gaps
	// between fragments of one physical text line.
	KernelSize int
}

// DefaultMergeOptions returns the merge parameters the text detector was
// tuned with.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{KernelSize: 10}
}

// MergeRegions rasterizes the surviving boxes onto a binary mask sized
// width x height, dilates the mask, and extracts one axis-aligned box
// per connected component. Fragmented detections of the same text line
// end up in a single component, so the result typically has fewer boxes
// than the input. Degenerate boxes are dropped silently; an empty input
// yields an empty result. All returned boxes lie within the image.
func MergeRegions(survivors []ScoredBox, width, height int, opts MergeOptions) ([]geometry.Box, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("detector: invalid mask dimensions %dx%d", width, height)
	}
	if len(survivors) == 0 {
		return nil, nil
	}

	mask := make([]bool, width*height)
	drawn := 0
	for _, s := range survivors {
		b := s.Box.Clamp(width, height)
		if !b.Valid() {
			continue
		}
		drawn++
		for y := b.Y1; y < b.Y2; y++ {
			row := y * width
			for x := b.X1; x < b.X2; x++ {
				mask[row+x] = true
			}
		}
	}
	if drawn == 0 {
		return nil, nil
	}

	mask = dilateMask(mask, width, height, opts.KernelSize)
	comps := connectedComponents(mask, width, height)

	boxes := make([]geometry.Box, 0, len(comps))
	for _, c := range comps {
		b := geometry.Box{X1: c.minX, Y1: c.minY, X2: c.maxX + 1, Y2: c.maxY + 1}
		b = b.Clamp(width, height)
		if !b.Valid() {
			continue
		}
		boxes = append(boxes, b)
	}
	return boxes, nil
}

// dilateMask grows set pixels by a square structuring element.
func dilateMask(mask []bool, width, height, kernelSize int) []bool {
	if kernelSize <= 1 {
		return mask
	}

	result := make([]bool, len(mask))
	half := kernelSize / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			set := false
			for ky := -half; ky <= half && !set; ky++ {
				ny := y + ky
				if ny < 0 || ny >= height {
					continue
				}
				for kx := -half; kx <= half; kx++ {
					nx := x + kx
					if nx >= 0 && nx < width && mask[ny*width+nx] {
						set = true
						break
					}
				}
			}
			result[y*width+x] = set
		}
	}

	return result
}

// compStats tracks the bounding extent of one connected component.
type compStats struct {
	minX int
	minY int
	maxX int
	maxY int
}

// connectedComponents finds 4-connected components in the mask and
// returns the pixel extent of each.
func connectedComponents(mask []bool, w, h int) []compStats {
	visited := make([]bool, w*h)
	var comps []compStats

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask[idx] && !visited[idx] {
				comps = append(comps, componentBFS(mask, visited, w, h, x, y))
			}
		}
	}

	return comps
}

// componentBFS performs BFS traversal for a connected component starting
// from a seed pixel.
func componentBFS(mask []bool, visited []bool, w, h, startX, startY int) compStats {
	st := compStats{minX: startX, minY: startY, maxX: startX, maxY: startY}

	q := list.New()
	q.PushBack(startY*w + startX)
	visited[startY*w+startX] = true

	dirs := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx >= 0 && nx < w && ny >= 0 && ny < h {
				ni := ny*w + nx
				if mask[ni] && !visited[ni] {
					visited[ni] = true
					q.PushBack(ni)
				}
			}
		}
	}
	return st
}
