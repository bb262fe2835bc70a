package textutil

import (
	"html"
	"regexp"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/microcosm-cc/bluemonday"
)

// brPattern matches line breaks so adjacent words are not glued once tags go away.
var brPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

// stripPolicy removes every tag and keeps only text content. Policies are safe
// for concurrent use once built.
var stripPolicy = bluemonday.StrictPolicy()

// StripTags removes markup from text and decodes the entities the sanitizer leaves.
func StripTags(text string) string {
	text = brPattern.ReplaceAllString(text, "\n")
	return html.UnescapeString(stripPolicy.Sanitize(text))
}

// CountWords returns the number of words in text after markup is stripped.
// Boundaries follow Unicode word segmentation (UAX #29); a segment counts as a
// word when it holds at least one letter or digit, so punctuation and spaces
// never do.
func CountWords(text string) int {
	if text == "" {
		return 0
	}
	count := 0
	tokens := words.FromString(StripTags(text))
	for tokens.Next() {
		if isWord(tokens.Value()) {
			count++
		}
	}
	return count
}

// SumWords returns the sum of per-string word counts over values.
func SumWords(values map[string]string) int {
	total := 0
	for _, v := range values {
		total += CountWords(v)
	}
	return total
}

func isWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
