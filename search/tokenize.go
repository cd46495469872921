package search

import "strings"

// splitIntoWords splits text on single spaces and returns the words in input
// order. Runs of spaces yield no empty words. Each word is a substring of
// text, so no token bytes are copied.
func splitIntoWords(text string) []string {
	words := make([]string, 0, strings.Count(text, " ")+1)
	for len(text) > 0 {
		space := strings.IndexByte(text, ' ')
		if space < 0 {
			words = append(words, text)
			break
		}
		if space > 0 {
			words = append(words, text[:space])
		}
		text = text[space+1:]
	}
	return words
}

// isValidWord reports whether the word is free of control characters.
func isValidWord(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 0x20 {
			return false
		}
	}
	return true
}
