package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcurrentMapUpdateAndBuild(t *testing.T) {
	m := NewConcurrentMap[int, float64](DefaultBucketCount)

	m.Update(3, func(v *float64) { *v += 1.5 })
	m.Update(11, func(v *float64) { *v += 2.0 })
	m.Update(3, func(v *float64) { *v += 0.5 })

	assert.Equal(t, map[int]float64{3: 2.0, 11: 2.0}, m.BuildOrdinaryMap())
	assert.Equal(t, []int{3, 11}, m.Keys())
}

func TestConcurrentMapErase(t *testing.T) {
	m := NewConcurrentMap[int, float64](4)
	m.Update(1, func(v *float64) { *v = 1 })
	m.Update(2, func(v *float64) { *v = 2 })

	m.Erase(1)
	m.Erase(99) // absent key, no effect

	assert.Equal(t, map[int]float64{2: 2}, m.BuildOrdinaryMap())
}

func TestConcurrentMapParallelAccumulation(t *testing.T) {
	const (
		workers    = 8
		increments = 1000
		keys       = 37
	)
	m := NewConcurrentMap[int, float64](DefaultBucketCount)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				m.Update(i%keys, func(v *float64) { *v++ })
			}
		}()
	}
	wg.Wait()

	total := 0.0
	for _, v := range m.BuildOrdinaryMap() {
		total += v
	}
	assert.Equal(t, float64(workers*increments), total)
}

func TestConcurrentMapZeroBucketCountFallsBack(t *testing.T) {
	m := NewConcurrentMap[int, float64](0)
	m.Update(5, func(v *float64) { *v = 1 })
	assert.Len(t, m.buckets, DefaultBucketCount)
	assert.Equal(t, map[int]float64{5: 1}, m.BuildOrdinaryMap())
}
