package textproc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
)

// TitleMatcher corrects an OCR-assembled string against a list of known
// book titles.
type TitleMatcher struct {
	titles []string
}

// LoadTitles reads a title list file with one title per line.
func LoadTitles(path string) (*TitleMatcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open title list: %w", err)
	}
	defer f.Close()
	return ReadTitles(f)
}

// ReadTitles parses a title list from a reader.
func ReadTitles(r io.Reader) (*TitleMatcher, error) {
	m := &TitleMatcher{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		// Title lists may carry a trailing frequency column.
		line := strings.TrimSpace(scanner.Text())
		if i := strings.LastIndexByte(line, '\t'); i > 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line != "" {
			m.titles = append(m.titles, strings.ToLower(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read title list: %w", err)
	}
	return m, nil
}

// Len returns the number of known titles.
func (m *TitleMatcher) Len() int { return len(m.titles) }

// Match returns the known title closest to the text, or the text itself
// when no title is close enough. A match is accepted when its edit
// distance is at most a third of the text length; OCR of a spine title
// rarely garbles more than that.
func (m *TitleMatcher) Match(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" || len(m.titles) == 0 {
		return text, false
	}

	best := ""
	bestDist := -1
	for _, title := range m.titles {
		dist := levenshtein.ComputeDistance(t, title)
		if bestDist < 0 || dist < bestDist {
			best = title
			bestDist = dist
		}
	}

	maxDist := len([]rune(t)) / 3
	if bestDist < 0 || bestDist > maxDist {
		return text, false
	}
	return best, true
}

// SelectBestTitle picks between the word-corrected OCR text and a
// matched catalog title: the matched title wins only when the matcher
// actually accepted it.
func SelectBestTitle(corrected, matched string, matchedOK bool) string {
	if matchedOK && matched != "" {
		return matched
	}
	return strings.TrimSpace(corrected)
}
