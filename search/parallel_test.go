package search

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEachSequencedPreservesOrder(t *testing.T) {
	items := []int{5, 3, 8, 1}
	var visited []int
	ForEach(Sequenced, items, func(n int) {
		visited = append(visited, n)
	})
	assert.Equal(t, items, visited)
}

func TestForEachParallelVisitsEverything(t *testing.T) {
	const n = 10000
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	var sum atomic.Int64
	ForEach(Parallel, items, func(v int) {
		sum.Add(int64(v))
	})
	assert.Equal(t, int64(n*(n-1)/2), sum.Load())
}

func TestForEachEmptyAndSingle(t *testing.T) {
	calls := 0
	ForEach(Parallel, []int{}, func(int) { calls++ })
	assert.Zero(t, calls)

	ForEach(Parallel, []int{7}, func(int) { calls++ })
	assert.Equal(t, 1, calls)
}

func TestTransformPreservesPositions(t *testing.T) {
	items := []int{3, 1, 4, 1, 5, 9, 2, 6}
	double := func(n int) int { return n * 2 }

	seq := Transform(Sequenced, items, double)
	par := Transform(Parallel, items, double)

	expected := []int{6, 2, 8, 2, 10, 18, 4, 12}
	assert.Equal(t, expected, seq)
	assert.Equal(t, expected, par)
}

func TestTransformLargeParallel(t *testing.T) {
	const n = 5000
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	out := Transform(Parallel, items, func(v int) int { return v + 1 })
	for i, v := range out {
		if v != i+1 {
			t.Fatalf("position %d: got %d, want %d", i, v, i+1)
		}
	}
}

func TestChunkBoundsCoverRange(t *testing.T) {
	for _, n := range []int{1, 2, 7, 16, 100, 1001} {
		bounds := chunkBounds(n)
		covered := 0
		prev := 0
		for _, b := range bounds {
			assert.Equal(t, prev, b[0], "n=%d", n)
			assert.LessOrEqual(t, b[0], b[1], "n=%d", n)
			covered += b[1] - b[0]
			prev = b[1]
		}
		assert.Equal(t, n, covered, "n=%d", n)
		assert.Equal(t, n, bounds[len(bounds)-1][1], "n=%d", n)
	}
}
