package layout

import (
	"log/slog"
	"sort"

	"github.com/spinescan/spinescan/internal/geometry"
)

// fallbackThreshold is used when the input carries no usable height
// information at all.
const fallbackThreshold = 80

// gapThreshold computes the adaptive horizontal-gap threshold that
// separates inter-word spacing from inter-column spacing. Two candidates
// are combined:
//
//  1. A font-size baseline: the trimmed mean of box heights times
//     HeightScale, clamped to [MinThreshold, MaxThreshold].
//  2. A gap-distribution break: when the sorted positive gaps contain a
//     ratio jump above JumpRatio, the gap just above the jump times
//     JumpScale.
//
// The lower candidate wins. When a jump was found the final clamp uses
// the more aggressive MinThresholdWithJump lower bound.
func gapThreshold(boxes []geometry.Box, opts Options) float64 {
	if len(boxes) == 0 {
		return fallbackThreshold
	}

	heights := make([]float64, 0, len(boxes))
	for _, b := range boxes {
		if h := b.Height(); h > 0 {
			heights = append(heights, float64(h))
		}
	}
	if len(heights) == 0 {
		return fallbackThreshold
	}

	heightCandidate := trimmedMean(heights) * opts.HeightScale

	gaps := horizontalGaps(boxes)
	jumpCandidate, haveJump := gapJumpCandidate(gaps, opts)

	threshold := heightCandidate
	minClamp := opts.MinThreshold
	if haveJump {
		if jumpCandidate < threshold {
			threshold = jumpCandidate
		}
		minClamp = opts.MinThresholdWithJump
	}
	final := clamp(threshold, minClamp, opts.MaxThreshold)

	slog.Debug("adaptive gap threshold",
		"height_candidate", heightCandidate,
		"jump_candidate", jumpCandidate,
		"jump_found", haveJump,
		"final", final)
	return final
}

// trimmedMean averages the middle half of the sorted values, falling
// back to the full mean when the sample is too small to trim.
func trimmedMean(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo := len(sorted) / 4
	hi := 3 * len(sorted) / 4
	if len(sorted) < 4 {
		// Not enough samples to trim both quartiles.
		lo, hi = 0, len(sorted)
	}

	sum := 0.0
	for _, v := range sorted[lo:hi] {
		sum += v
	}
	return sum / float64(hi-lo)
}

// horizontalGaps returns the positive gaps between consecutive boxes
// sorted by left edge: next.X1 - current.X2.
func horizontalGaps(boxes []geometry.Box) []float64 {
	byLeft := append([]geometry.Box(nil), boxes...)
	sortBoxesByLeftEdge(byLeft)

	var gaps []float64
	for i := 1; i < len(byLeft); i++ {
		gap := float64(byLeft[i].X1 - byLeft[i-1].X2)
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// gapJumpCandidate looks for the natural break between word spacing and
// column spacing in the sorted gap distribution. It reports the
// candidate threshold and whether a break was found.
func gapJumpCandidate(gaps []float64, opts Options) (float64, bool) {
	if len(gaps) < 2 {
		return 0, false
	}

	sorted := append([]float64(nil), gaps...)
	sort.Float64s(sorted)

	maxRatio := 0.0
	largeGap := 0.0
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] <= 0 {
			continue
		}
		ratio := sorted[i] / sorted[i-1]
		if ratio > maxRatio {
			maxRatio = ratio
			largeGap = sorted[i]
		}
	}

	if maxRatio <= opts.JumpRatio {
		return 0, false
	}
	return largeGap * opts.JumpScale, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
