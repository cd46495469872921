package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildQueryTestServer(t testing.TB) *SearchServer {
	t.Helper()
	s, err := NewSearchServer("and with in the")
	require.NoError(t, err)
	texts := []string{
		"white cat and fancy collar",
		"fluffy cat fluffy tail",
		"groomed dog expressive eyes",
		"jet cat from a port",
		"one dog two dog",
		"grey town dog with collar",
		"sparrow on a branch",
	}
	for i, text := range texts {
		require.NoError(t, s.AddDocument(i, text, StatusActual, []int{i % 5, i % 3}))
	}
	return s
}

func TestProcessQueriesMatchesSequentialLoop(t *testing.T) {
	s := buildQueryTestServer(t)
	queries := []string{"cat", "fluffy -collar", "dog", "sparrow branch", "port"}

	batch, err := ProcessQueries(s, queries)
	require.NoError(t, err)
	require.Len(t, batch, len(queries))

	for i, raw := range queries {
		expected, err := s.FindTopDocuments(raw)
		require.NoError(t, err)
		require.Len(t, batch[i], len(expected), "query %q", raw)
		for j := range expected {
			assert.Equal(t, expected[j].ID, batch[i][j].ID, "query %q position %d", raw, j)
			assert.InDelta(t, expected[j].Relevance, batch[i][j].Relevance, Epsilon)
		}
	}
}

func TestProcessQueriesEmptyResults(t *testing.T) {
	s := buildQueryTestServer(t)

	batch, err := ProcessQueries(s, []string{"zebra", "cat"})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Empty(t, batch[0])
	assert.NotEmpty(t, batch[1])

	batch, err = ProcessQueries(s, nil)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestProcessQueriesPropagatesErrors(t *testing.T) {
	s := buildQueryTestServer(t)

	_, err := ProcessQueries(s, []string{"cat", "--bad"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestProcessQueriesJoinedFlattensInOrder(t *testing.T) {
	s := buildQueryTestServer(t)
	queries := []string{"cat", "dog -expressive", "sparrow"}

	lists, err := ProcessQueries(s, queries)
	require.NoError(t, err)
	joined, err := ProcessQueriesJoined(s, queries)
	require.NoError(t, err)

	var flattened []Document
	for _, list := range lists {
		flattened = append(flattened, list...)
	}
	assert.Equal(t, flattened, joined)
}

func generateBenchmarkQueries(n int) []string {
	base := []string{"cat", "dog collar", "fluffy -tail", "town dog", "sparrow branch", "port jet"}
	queries := make([]string, n)
	for i := range queries {
		queries[i] = base[i%len(base)]
	}
	return queries
}

func BenchmarkProcessQueries(b *testing.B) {
	s := buildQueryTestServer(b)
	queries := generateBenchmarkQueries(1000)

	b.Run("Sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			for _, raw := range queries {
				if _, err := s.FindTopDocuments(raw); err != nil {
					b.Fatal(err)
				}
			}
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := ProcessQueries(s, queries); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func ExampleProcessQueriesJoined() {
	s, _ := NewSearchServer("and in on")
	_ = s.AddDocument(1, "curly cat curly tail", StatusActual, []int{7, 2, 7})
	_ = s.AddDocument(2, "curly dog and fancy collar", StatusActual, []int{1, 2, 3})

	joined, _ := ProcessQueriesJoined(s, []string{"curly", "collar"})
	for _, doc := range joined {
		fmt.Println(doc.ID)
	}
	// Output:
	// 1
	// 2
	// 2
}
