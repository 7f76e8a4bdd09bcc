// Package textproc cleans and corrects raw OCR output from book spines:
// Unicode normalization, language-aware character filtering, dictionary
// word correction, and title matching.
package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// languageRanges lists the letters considered valid per language.
var languageRanges = map[string]string{
	"en": "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz",
	"de": "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyzÄÖÜäöüß",
	"fr": "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyzÀÂÇÉÈÊËÎÏÔÙÛÜŸàâçéèêëîïôùûüÿ",
	"it": "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyzÀÈÉÌÒÙàèéìòù",
}

// LanguageCharset returns the set of letters allowed for the given
// languages. Unknown languages are ignored.
func LanguageCharset(languages []string) map[rune]bool {
	allowed := make(map[rune]bool)
	for _, lang := range languages {
		for _, r := range languageRanges[lang] {
			allowed[r] = true
		}
	}
	return allowed
}

// CleanOCRText normalizes raw OCR output: NFKC normalization, language
// charset filtering, whitespace collapsing, and lowercasing. Digits
// survive unconditionally (years, shelf numbers, "2nd Edition"), and the
// marks . : / ; - survive when they join word characters ("8/9",
// "1914-1918", "Titel: Untertitel") but turn into spaces when standalone.
// Everything else becomes a space. Languages default to German and
// French when none are given.
func CleanOCRText(text string, languages ...string) string {
	if len(languages) == 0 {
		languages = []string{"de", "fr"}
	}
	allowed := LanguageCharset(languages)

	// Strip trademark signs before normalization; NFKC would fold them
	// into plain letters ("™" becomes "tm").
	text = strings.Map(func(r rune) rune {
		switch r {
		case '™', '®', '©':
			return ' '
		}
		return r
	}, text)

	runes := []rune(norm.NFKC.String(text))

	var sb strings.Builder
	for i, r := range runes {
		switch {
		case allowed[r] || unicode.IsSpace(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			sb.WriteRune(r)
		case isJoiningMark(r) && joinsWord(runes, i):
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}

	return strings.ToLower(strings.Join(strings.Fields(sb.String()), " "))
}

// isJoiningMark reports whether r is punctuation worth keeping inside a
// word.
func isJoiningMark(r rune) bool {
	switch r {
	case '.', ':', '/', ';', '-':
		return true
	}
	return false
}

// joinsWord reports whether the mark at position i sits in a word
// context: an alphanumeric rune or another mark directly before it, and
// a word character, mark, or space directly after it. A mark at the very
// end of the text never qualifies.
func joinsWord(runes []rune, i int) bool {
	if i == 0 || i == len(runes)-1 {
		return false
	}
	prev, next := runes[i-1], runes[i+1]
	if !isWordRune(prev) && !isJoiningMark(prev) {
		return false
	}
	return isWordRune(next) || isJoiningMark(next) || unicode.IsSpace(next)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
