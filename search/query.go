package search

import (
	"fmt"
	"slices"
)

// queryWord is a single parsed query token.
type queryWord struct {
	data    string
	isMinus bool
	isStop  bool
}

// query holds the plus and minus words of a parsed raw query. Under the
// Sequenced policy both lists are sorted and deduplicated; under Parallel
// they are left as parsed, duplicates included, and the parallel ranker and
// matcher deduplicate the plus words themselves.
type query struct {
	plusWords  []string
	minusWords []string
}

// parseQueryWord classifies one raw query token. A single leading '-' marks
// a minus word; the remainder must be non-empty, must not start with another
// '-' and must not contain control characters.
func (s *SearchServer) parseQueryWord(text string) (queryWord, error) {
	if text == "" {
		return queryWord{}, fmt.Errorf("%w: query word is empty", ErrInvalidArgument)
	}
	word := text
	isMinus := false
	if word[0] == '-' {
		isMinus = true
		word = word[1:]
	}
	if word == "" || word[0] == '-' || !isValidWord(word) {
		return queryWord{}, fmt.Errorf("%w: query word %q is invalid", ErrInvalidArgument, text)
	}
	_, isStop := s.stopWords[word]
	return queryWord{data: word, isMinus: isMinus, isStop: isStop}, nil
}

// parseQuery splits the raw query and distributes its words into plus and
// minus lists, dropping stop words.
func (s *SearchServer) parseQuery(policy ExecutionPolicy, text string) (query, error) {
	words := splitIntoWords(text)

	result := query{plusWords: make([]string, 0, len(words))}
	for _, word := range words {
		qw, err := s.parseQueryWord(word)
		if err != nil {
			return query{}, err
		}
		if qw.isStop {
			continue
		}
		if qw.isMinus {
			result.minusWords = append(result.minusWords, qw.data)
		} else {
			result.plusWords = append(result.plusWords, qw.data)
		}
	}

	if policy != Parallel {
		result.sortUniq()
	}
	return result, nil
}

// sortUniq sorts both word lists and drops duplicates, leaving each strictly
// ascending.
func (q *query) sortUniq() {
	slices.Sort(q.plusWords)
	q.plusWords = slices.Compact(q.plusWords)
	slices.Sort(q.minusWords)
	q.minusWords = slices.Compact(q.minusWords)
}
