package search

import "errors"

// ProcessQueries runs the queries against the server in parallel and returns
// one result list per query, positionally matched to the input. Each query
// runs the parallel ranker with the default ACTUAL filter. A malformed query
// fails the whole batch; the joined error carries every offender.
func ProcessQueries(s *SearchServer, queries []string) ([][]Document, error) {
	type outcome struct {
		documents []Document
		err       error
	}

	outcomes := Transform(Parallel, queries, func(rawQuery string) outcome {
		documents, err := s.FindTopDocumentsWith(Parallel, rawQuery, nil)
		return outcome{documents: documents, err: err}
	})

	results := make([][]Document, len(outcomes))
	var errs []error
	for i, o := range outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
			continue
		}
		results[i] = o.documents
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return results, nil
}

// ProcessQueriesJoined flattens ProcessQueries output into one list, query
// order outermost, ranker order within each query.
func ProcessQueriesJoined(s *SearchServer, queries []string) ([]Document, error) {
	lists, err := ProcessQueries(s, queries)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, list := range lists {
		total += len(list)
	}
	joined := make([]Document, 0, total)
	for _, list := range lists {
		joined = append(joined, list...)
	}
	return joined, nil
}
