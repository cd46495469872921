package search

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// Normalize lowercases the words of text, trims non-alphanumeric characters
// from their ends and optionally stems them, returning the words rejoined
// with single spaces. It is a preprocessing layer for callers that want
// case- and inflection-insensitive matching; the engine itself indexes
// tokens byte-exact, so the same normalization must be applied to documents
// and queries alike. A leading '-' on a query word is preserved.
func Normalize(text string, stem bool) string {
	words := splitIntoWords(text)
	normalized := make([]string, 0, len(words))
	for _, word := range words {
		minus := strings.HasPrefix(word, "-") && !strings.HasPrefix(word, "--")
		if minus {
			word = word[1:]
		}
		word = normalizeWord(word, stem)
		if word == "" {
			continue
		}
		if minus {
			word = "-" + word
		}
		normalized = append(normalized, word)
	}
	return strings.Join(normalized, " ")
}

func normalizeWord(word string, stem bool) string {
	word = strings.ToLower(word)
	// Remove non-alphanumeric characters from start and end
	word = strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if word == "" {
		return ""
	}
	if stem {
		word = snowballeng.Stem(word, false)
	}
	return word
}
