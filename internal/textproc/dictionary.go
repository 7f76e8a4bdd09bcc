package textproc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MaxEditDistance is the default correction radius for single words.
const MaxEditDistance = 2

// Dictionary holds a frequency word list for one language and corrects
// words against it by edit distance, preferring the most frequent term
// among the closest matches.
type Dictionary struct {
	freq  map[string]int64
	terms []string
}

// LoadDictionary reads a frequency dictionary file with one
// "term count" pair per line.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return ReadDictionary(f)
}

// LoadDictionaries reads and merges the per-language frequency
// dictionaries <dir>/<lang>.txt. Languages without a dictionary file are
// skipped; at least one file must exist.
func LoadDictionaries(dir string, languages []string) (*Dictionary, error) {
	d := &Dictionary{freq: make(map[string]int64)}
	loaded := 0
	for _, lang := range languages {
		path := filepath.Join(dir, lang+".txt")
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("open dictionary: %w", err)
		}
		err = d.readFrom(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("dictionary %s: %w", path, err)
		}
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("no dictionary files found in %s for %v", dir, languages)
	}
	return d, nil
}

// ReadDictionary parses a frequency dictionary from a reader.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{freq: make(map[string]int64)}
	if err := d.readFrom(r); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dictionary) readFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		term := strings.ToLower(fields[0])
		var count int64 = 1
		if len(fields) > 1 {
			if n, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				count = n
			}
		}
		if _, seen := d.freq[term]; !seen {
			d.terms = append(d.terms, term)
		}
		d.freq[term] += count
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read dictionary: %w", err)
	}
	return nil
}

// Len returns the number of distinct terms.
func (d *Dictionary) Len() int { return len(d.terms) }

// Contains reports whether the word is a known term.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.freq[strings.ToLower(word)]
	return ok
}

// CorrectWord returns the closest dictionary term within MaxEditDistance
// of the word, breaking distance ties by term frequency. Words with no
// close match are returned unchanged.
func (d *Dictionary) CorrectWord(word string) string {
	w := strings.ToLower(word)
	if _, ok := d.freq[w]; ok {
		return w
	}

	best := w
	bestDist := MaxEditDistance + 1
	var bestFreq int64 = -1
	for _, term := range d.terms {
		// Length difference is a lower bound on edit distance.
		if diff := len(term) - len(w); diff > MaxEditDistance || diff < -MaxEditDistance {
			continue
		}
		dist := levenshtein.ComputeDistance(w, term)
		if dist < bestDist || (dist == bestDist && d.freq[term] > bestFreq) {
			best = term
			bestDist = dist
			bestFreq = d.freq[term]
		}
	}
	if bestDist > MaxEditDistance {
		return w
	}
	return best
}

// CorrectText corrects every whitespace-separated word independently.
func (d *Dictionary) CorrectText(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = d.CorrectWord(w)
	}
	return strings.Join(words, " ")
}
