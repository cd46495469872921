package search

// minutesInDay is the rolling-window length of the request queue: one slot
// per minute, one request per minute.
const minutesInDay = 1440

// RequestQueue wraps a SearchServer and tracks, over a rolling window of the
// last minutesInDay requests, how many returned no results.
type RequestQueue struct {
	server       *SearchServer
	requests     []queryResult
	emptyResults int
	currentTime  uint64
}

type queryResult struct {
	timestamp uint64
	results   int
}

// NewRequestQueue creates a queue observing the given server.
func NewRequestQueue(s *SearchServer) *RequestQueue {
	return &RequestQueue{server: s}
}

// AddFindRequest runs FindTopDocuments with the default ACTUAL filter and
// records the outcome.
func (q *RequestQueue) AddFindRequest(rawQuery string) ([]Document, error) {
	return q.AddFindRequestByStatus(rawQuery, StatusActual)
}

// AddFindRequestByStatus runs FindTopDocumentsByStatus and records the
// outcome.
func (q *RequestQueue) AddFindRequestByStatus(rawQuery string, status DocumentStatus) ([]Document, error) {
	return q.AddFindRequestFiltered(rawQuery, StatusPredicate(status))
}

// AddFindRequestFiltered runs FindTopDocumentsFiltered and records the
// outcome. A failed query is not recorded in the window.
func (q *RequestQueue) AddFindRequestFiltered(rawQuery string, predicate DocumentPredicate) ([]Document, error) {
	result, err := q.server.FindTopDocumentsFiltered(rawQuery, predicate)
	if err != nil {
		return nil, err
	}
	q.addRequest(len(result))
	return result, nil
}

// NoResultRequests returns how many requests in the current window produced
// no results.
func (q *RequestQueue) NoResultRequests() int {
	return q.emptyResults
}

func (q *RequestQueue) addRequest(resultCount int) {
	q.currentTime++
	for len(q.requests) > 0 && q.currentTime-q.requests[0].timestamp >= minutesInDay {
		if q.requests[0].results == 0 {
			q.emptyResults--
		}
		q.requests = q.requests[1:]
	}
	q.requests = append(q.requests, queryResult{timestamp: q.currentTime, results: resultCount})
	if resultCount == 0 {
		q.emptyResults++
	}
}
