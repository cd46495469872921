package search

import "fmt"

// makeStopWordSet collapses the given words into a set, dropping empty
// strings. Every surviving word must be free of control characters.
func makeStopWordSet(words []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		if !isValidWord(word) {
			return nil, fmt.Errorf("%w: stop word %q contains control characters", ErrInvalidArgument, word)
		}
		set[word] = struct{}{}
	}
	return set, nil
}
