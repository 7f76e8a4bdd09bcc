package detector

import (
	"sort"

	"github.com/spinescan/spinescan/internal/geometry"
)

// SuppressOptions holds tunable parameters for non-max suppression.
type SuppressOptions struct {
	ScoreThreshold float64 // Candidates below this confidence are dropped
	IoUThreshold   float64 // Overlap above this suppresses the lower-confidence box
}

// DefaultSuppressOptions returns the suppression parameters the text
// detector was tuned with.
func DefaultSuppressOptions() SuppressOptions {
	return SuppressOptions{
		ScoreThreshold: 0.5,
		IoUThreshold:   0.8,
	}
}

// Suppress performs greedy non-max suppression over scored candidates.
// Candidates are visited in descending confidence order; equal
// confidences keep their input order. The highest remaining candidate is
// kept and every other candidate whose IoU with it exceeds the threshold
// is discarded. Candidates below the score threshold never survive.
func Suppress(candidates []ScoredBox, opts SuppressOptions) []ScoredBox {
	if len(candidates) == 0 {
		return nil
	}

	order := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if c.Confidence >= opts.ScoreThreshold {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return candidates[order[a]].Confidence > candidates[order[b]].Confidence
	})

	suppressed := make([]bool, len(candidates))
	kept := make([]ScoredBox, 0, len(order))

	for i, a := range order {
		if suppressed[a] {
			continue
		}
		kept = append(kept, candidates[a])

		for _, b := range order[i+1:] {
			if suppressed[b] {
				continue
			}
			if geometry.IoU(candidates[a].Box, candidates[b].Box) > opts.IoUThreshold {
				suppressed[b] = true
			}
		}
	}

	return kept
}
