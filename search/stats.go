package search

// IndexStats contains statistics about the index.
type IndexStats struct {
	DocumentCount int     // Total number of documents
	TermCount     int     // Total number of unique indexed terms
	AvgDocLength  float64 // Average document length (in unique non-stop terms)
}

// Stats computes current index statistics.
func (s *SearchServer) Stats() IndexStats {
	stats := IndexStats{DocumentCount: len(s.documents)}
	// Words whose documents were all removed keep an empty posting map; they
	// are no longer indexed terms.
	for _, freqs := range s.wordToDocumentFreqs {
		if len(freqs) > 0 {
			stats.TermCount++
		}
	}
	if stats.DocumentCount > 0 {
		total := 0
		for _, words := range s.documentToWords {
			total += len(words)
		}
		stats.AvgDocLength = float64(total) / float64(stats.DocumentCount)
	}
	return stats
}
