package main

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	search "github.com/devancy/ranked-search-engine/search"
)

// corpusRecord is one line of a JSON-lines corpus file.
type corpusRecord struct {
	ID      *int   `json:"id"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Status  string `json:"status"`
	Ratings []int  `json:"ratings"`
}

var statusNames = map[string]search.DocumentStatus{
	"":           search.StatusActual,
	"ACTUAL":     search.StatusActual,
	"IRRELEVANT": search.StatusIrrelevant,
	"BANNED":     search.StatusBanned,
	"REMOVED":    search.StatusRemoved,
}

func (r corpusRecord) status() (search.DocumentStatus, error) {
	status, ok := statusNames[strings.ToUpper(r.Status)]
	if !ok {
		return 0, fmt.Errorf("unknown document status %q", r.Status)
	}
	return status, nil
}

// loadCorpus parses a JSON-lines corpus (optionally gzip-compressed) into
// records. Records without an explicit id get line-order ids assigned in a
// backfill pass over worker chunks.
func loadCorpus(path string) ([]corpusRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	var records []corpusRecord
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var record corpusRecord
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			return nil, fmt.Errorf("corpus line %d: %w", line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	backfillIDs(records)
	return records, nil
}

// backfillIDs assigns line-order ids to records that carry none, splitting
// the slice across workers.
func backfillIDs(records []corpusRecord) {
	numWorkers := runtime.NumCPU()
	if numWorkers > len(records) {
		numWorkers = len(records)
	}
	if numWorkers == 0 {
		return
	}

	chunkSize := len(records) / numWorkers
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == numWorkers-1 {
			end = len(records)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				if records[j].ID == nil {
					id := j
					records[j].ID = &id
				}
			}
		}(start, end)
	}
	wg.Wait()
}
