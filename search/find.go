package search

import (
	"math"
	"slices"
	"sort"
)

const (
	// MaxResultDocumentCount caps the number of documents FindTopDocuments
	// returns.
	MaxResultDocumentCount = 5

	// Epsilon is the relevance comparison tolerance; scores closer than this
	// count as tied and fall back to the rating.
	Epsilon = 1e-6
)

// FindTopDocuments returns up to MaxResultDocumentCount ACTUAL documents
// ranked by TF-IDF relevance, rating breaking near ties.
func (s *SearchServer) FindTopDocuments(rawQuery string) ([]Document, error) {
	return s.FindTopDocumentsWith(Sequenced, rawQuery, nil)
}

// FindTopDocumentsByStatus ranks only documents with the given status.
func (s *SearchServer) FindTopDocumentsByStatus(rawQuery string, status DocumentStatus) ([]Document, error) {
	return s.FindTopDocumentsWith(Sequenced, rawQuery, StatusPredicate(status))
}

// FindTopDocumentsFiltered ranks documents the predicate accepts.
func (s *SearchServer) FindTopDocumentsFiltered(rawQuery string, predicate DocumentPredicate) ([]Document, error) {
	return s.FindTopDocumentsWith(Sequenced, rawQuery, predicate)
}

// FindTopDocumentsWith is the policy-parameterized form the convenience
// wrappers dispatch to. A nil predicate filters on StatusActual.
func (s *SearchServer) FindTopDocumentsWith(policy ExecutionPolicy, rawQuery string, predicate DocumentPredicate) ([]Document, error) {
	if predicate == nil {
		predicate = StatusPredicate(StatusActual)
	}

	q, err := s.parseQuery(policy, rawQuery)
	if err != nil {
		return nil, err
	}

	var matched []Document
	if policy == Parallel {
		matched = s.findAllDocumentsParallel(q, predicate)
	} else {
		matched = s.findAllDocuments(q, predicate)
	}

	sort.Slice(matched, func(i, j int) bool {
		lhs, rhs := matched[i], matched[j]
		if math.Abs(lhs.Relevance-rhs.Relevance) < Epsilon {
			if lhs.Rating != rhs.Rating {
				return lhs.Rating > rhs.Rating
			}
			return lhs.ID < rhs.ID
		}
		return lhs.Relevance > rhs.Relevance
	})
	if len(matched) > MaxResultDocumentCount {
		matched = matched[:MaxResultDocumentCount]
	}
	return matched, nil
}

// computeWordInverseDocumentFreq computes ln(N/df) for a word present in the
// index. A word whose documents have all been removed keeps an empty posting
// map, so df can be 0 and the result +Inf (or NaN on an empty server); the
// rankers then have no posting to multiply it with.
func (s *SearchServer) computeWordInverseDocumentFreq(word string) float64 {
	return math.Log(float64(s.DocumentCount()) / float64(len(s.wordToDocumentFreqs[word])))
}

// findAllDocuments accumulates tf·idf per document over the plus words,
// drops every document containing a minus word and materializes the rest.
func (s *SearchServer) findAllDocuments(q query, predicate DocumentPredicate) []Document {
	documentToRelevance := make(map[int]float64)

	for _, word := range q.plusWords {
		freqs, ok := s.wordToDocumentFreqs[word]
		if !ok {
			continue
		}
		inverseDocumentFreq := s.computeWordInverseDocumentFreq(word)
		for documentID, termFreq := range freqs {
			data := s.documents[documentID]
			if predicate(documentID, data.status, data.rating) {
				documentToRelevance[documentID] += termFreq * inverseDocumentFreq
			}
		}
	}

	// Minus words disqualify outright, regardless of the predicate.
	for _, word := range q.minusWords {
		for documentID := range s.wordToDocumentFreqs[word] {
			delete(documentToRelevance, documentID)
		}
	}

	matched := make([]Document, 0, len(documentToRelevance))
	for documentID, relevance := range documentToRelevance {
		matched = append(matched, Document{
			ID:        documentID,
			Relevance: relevance,
			Rating:    s.documents[documentID].rating,
		})
	}
	return matched
}

// findAllDocumentsParallel is findAllDocuments with the accumulation fanned
// out over the plus words and a sharded map absorbing concurrent updates.
// The Parallel parse leaves duplicates in the query lists. Plus words are
// deduplicated here, since a repeated word would add its contribution twice;
// repeated minus words are harmless, as erasing an already-erased key is a
// no-op.
func (s *SearchServer) findAllDocumentsParallel(q query, predicate DocumentPredicate) []Document {
	documentToRelevance := NewConcurrentMap[int, float64](DefaultBucketCount)

	plusWords := slices.Clone(q.plusWords)
	slices.Sort(plusWords)
	plusWords = slices.Compact(plusWords)

	ForEach(Parallel, plusWords, func(word string) {
		freqs, ok := s.wordToDocumentFreqs[word]
		if !ok {
			return
		}
		inverseDocumentFreq := s.computeWordInverseDocumentFreq(word)
		for documentID, termFreq := range freqs {
			data := s.documents[documentID]
			if predicate(documentID, data.status, data.rating) {
				contribution := termFreq * inverseDocumentFreq
				documentToRelevance.Update(documentID, func(relevance *float64) {
					*relevance += contribution
				})
			}
		}
	})

	ForEach(Parallel, q.minusWords, func(word string) {
		for documentID := range s.wordToDocumentFreqs[word] {
			documentToRelevance.Erase(documentID)
		}
	})

	ordinary := documentToRelevance.BuildOrdinaryMap()
	matched := make([]Document, 0, len(ordinary))
	for documentID, relevance := range ordinary {
		matched = append(matched, Document{
			ID:        documentID,
			Relevance: relevance,
			Rating:    s.documents[documentID].rating,
		})
	}
	return matched
}
