package textproc

import (
	"strings"
	"unicode"
)

// ValidityScore rates how plausible a corrected OCR string is as real
// text, in [0,1]. When a dictionary is available the score is the
// length-weighted fraction of words it knows; otherwise it falls back to
// the fraction of letters in the string. Short fragments score low by
// construction.
func ValidityScore(text string, dict *Dictionary) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	if dict != nil && dict.Len() > 0 {
		total := 0
		known := 0
		for _, w := range words {
			total += len([]rune(w))
			if dict.Contains(w) {
				known += len([]rune(w))
			}
		}
		if total == 0 {
			return 0
		}
		return float64(known) / float64(total)
	}

	letters := 0
	runes := 0
	for _, r := range strings.Join(words, "") {
		runes++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if runes == 0 {
		return 0
	}
	return float64(letters) / float64(runes)
}
