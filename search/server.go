package search

import (
	"fmt"
	"slices"
)

// SearchServer is an in-memory inverted index over space-tokenized documents
// with TF-IDF ranked retrieval. Reads (FindTopDocuments, MatchDocument,
// introspection) are safe to run concurrently with each other; AddDocument
// and RemoveDocument are not safe to run concurrently with anything and must
// be serialized by the caller.
type SearchServer struct {
	stopWords map[string]struct{}

	// wordToDocumentFreqs maps a word to the documents containing it and the
	// word's term frequency there. The mirror documentToWords holds exactly
	// the same (word, id) pairs keyed the other way round and accelerates
	// per-document operations. Both store substrings of the text retained in
	// documents, so removing a document scrubs its entries from each.
	wordToDocumentFreqs map[string]map[int]float64
	documentToWords     map[int]map[string]float64

	documents   map[int]documentData
	documentIDs []int
}

// NewSearchServer builds a server from a whitespace-delimited stop-word
// string.
func NewSearchServer(stopWordsText string) (*SearchServer, error) {
	return NewSearchServerFromWords(splitIntoWords(stopWordsText))
}

// NewSearchServerFromWords builds a server from a stop-word slice. Empty
// strings are dropped and duplicates collapse; a stop word with control
// characters fails with ErrInvalidArgument.
func NewSearchServerFromWords(stopWords []string) (*SearchServer, error) {
	set, err := makeStopWordSet(stopWords)
	if err != nil {
		return nil, err
	}
	return &SearchServer{
		stopWords:           set,
		wordToDocumentFreqs: make(map[string]map[int]float64),
		documentToWords:     make(map[int]map[string]float64),
		documents:           make(map[int]documentData),
	}, nil
}

// AddDocument indexes a document. The id must be non-negative and not yet
// present, and every non-stop word of the text must be free of control
// characters; violations fail with ErrInvalidArgument and leave the server
// untouched.
func (s *SearchServer) AddDocument(documentID int, text string, status DocumentStatus, ratings []int) error {
	if documentID < 0 {
		return fmt.Errorf("%w: document id %d is negative", ErrInvalidArgument, documentID)
	}
	if _, exists := s.documents[documentID]; exists {
		return fmt.Errorf("%w: document id %d already exists", ErrInvalidArgument, documentID)
	}

	// Validate every word before mutating anything.
	words, err := s.splitIntoWordsNoStop(text)
	if err != nil {
		return err
	}

	s.documents[documentID] = documentData{
		rating: computeAverageRating(ratings),
		status: status,
		text:   text,
	}

	if len(words) > 0 {
		invWordCount := 1.0 / float64(len(words))
		docWords := make(map[string]float64, len(words))
		for _, word := range words {
			freqs := s.wordToDocumentFreqs[word]
			if freqs == nil {
				freqs = make(map[int]float64)
				s.wordToDocumentFreqs[word] = freqs
			}
			freqs[documentID] += invWordCount
			docWords[word] = freqs[documentID]
		}
		s.documentToWords[documentID] = docWords
	}

	s.documentIDs = append(s.documentIDs, documentID)
	return nil
}

// splitIntoWordsNoStop tokenizes text, rejecting invalid words and dropping
// stop words.
func (s *SearchServer) splitIntoWordsNoStop(text string) ([]string, error) {
	all := splitIntoWords(text)
	words := make([]string, 0, len(all))
	for _, word := range all {
		if !isValidWord(word) {
			return nil, fmt.Errorf("%w: word %q contains control characters", ErrInvalidArgument, word)
		}
		if _, stop := s.stopWords[word]; !stop {
			words = append(words, word)
		}
	}
	return words, nil
}

// RemoveDocument removes the document from every container. Unknown ids are
// a silent no-op.
func (s *SearchServer) RemoveDocument(documentID int) {
	s.RemoveDocumentWith(Sequenced, documentID)
}

// RemoveDocumentWith is RemoveDocument under an explicit execution policy.
// The parallel variant clears the inverted-index entries concurrently; the
// words of one document are distinct, so each inner map is touched by
// exactly one worker. An inner map left empty stays in place.
func (s *SearchServer) RemoveDocumentWith(policy ExecutionPolicy, documentID int) {
	if _, exists := s.documents[documentID]; !exists {
		return
	}

	wordFreqs := s.documentToWords[documentID]
	words := make([]string, 0, len(wordFreqs))
	for word := range wordFreqs {
		words = append(words, word)
	}
	ForEach(policy, words, func(word string) {
		delete(s.wordToDocumentFreqs[word], documentID)
	})

	delete(s.documentToWords, documentID)
	delete(s.documents, documentID)
	if i := slices.Index(s.documentIDs, documentID); i >= 0 {
		s.documentIDs = slices.Delete(s.documentIDs, i, i+1)
	}
}

// MatchDocument parses the query against a single document. If any minus
// word occurs in the document the matched-word list is empty; otherwise it
// holds the deduplicated plus words present in the document, in ascending
// order. Unknown ids fail with ErrOutOfRange.
func (s *SearchServer) MatchDocument(rawQuery string, documentID int) ([]string, DocumentStatus, error) {
	return s.MatchDocumentWith(Sequenced, rawQuery, documentID)
}

// MatchDocumentWith is MatchDocument under an explicit execution policy.
func (s *SearchServer) MatchDocumentWith(policy ExecutionPolicy, rawQuery string, documentID int) ([]string, DocumentStatus, error) {
	data, exists := s.documents[documentID]
	if !exists {
		return nil, 0, fmt.Errorf("%w: unknown document id %d", ErrOutOfRange, documentID)
	}

	q, err := s.parseQuery(policy, rawQuery)
	if err != nil {
		return nil, 0, err
	}

	if policy == Parallel {
		return s.matchParallel(q, documentID, data.status)
	}

	for _, word := range q.minusWords {
		if freqs, ok := s.wordToDocumentFreqs[word]; ok {
			if _, ok := freqs[documentID]; ok {
				return []string{}, data.status, nil
			}
		}
	}

	matched := make([]string, 0, len(q.plusWords))
	for _, word := range q.plusWords {
		if freqs, ok := s.wordToDocumentFreqs[word]; ok {
			if _, ok := freqs[documentID]; ok {
				matched = append(matched, word)
			}
		}
	}
	return matched, data.status, nil
}

// matchParallel matches against the mirror index. The parallel query parse
// leaves duplicates in place, so the matched words are deduplicated here.
func (s *SearchServer) matchParallel(q query, documentID int, status DocumentStatus) ([]string, DocumentStatus, error) {
	docWords := s.documentToWords[documentID]

	for _, word := range q.minusWords {
		if _, ok := docWords[word]; ok {
			return []string{}, status, nil
		}
	}

	matched := make([]string, 0, len(q.plusWords))
	for _, word := range q.plusWords {
		if _, ok := docWords[word]; ok {
			matched = append(matched, word)
		}
	}
	slices.Sort(matched)
	return slices.Compact(matched), status, nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchServer) DocumentCount() int {
	return len(s.documents)
}

// DocumentID returns the id of the document at the given insertion-order
// position. Bad indices fail with ErrOutOfRange.
func (s *SearchServer) DocumentID(index int) (int, error) {
	if index < 0 || index >= len(s.documentIDs) {
		return 0, fmt.Errorf("%w: document index %d", ErrOutOfRange, index)
	}
	return s.documentIDs[index], nil
}

// DocumentIDs returns the document ids in insertion order. The slice is a
// copy and stays valid across later mutations.
func (s *SearchServer) DocumentIDs() []int {
	return slices.Clone(s.documentIDs)
}

// WordFrequencies returns the word → term-frequency mapping of a document.
// Unknown ids yield an empty map. The returned map is a live view owned by
// the server; callers must not modify it.
func (s *SearchServer) WordFrequencies(documentID int) map[string]float64 {
	if freqs, ok := s.documentToWords[documentID]; ok {
		return freqs
	}
	return map[string]float64{}
}
