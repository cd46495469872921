package search

import (
	"slices"
	"sync"

	"golang.org/x/exp/constraints"
)

// DefaultBucketCount is the bucket count a ConcurrentMap is built with when
// the caller does not choose one.
const DefaultBucketCount = 8

// ConcurrentMap is a map partitioned into a fixed number of buckets, each
// guarded by its own mutex. Updates to keys landing in different buckets
// proceed in parallel; updates to the same key are serialized. The parallel
// ranker uses it as a relevance accumulator.
type ConcurrentMap[K constraints.Integer, V any] struct {
	buckets []bucket[K, V]
}

type bucket[K constraints.Integer, V any] struct {
	mu    sync.Mutex
	items map[K]V
}

// NewConcurrentMap creates a map with the given bucket count; counts below 1
// fall back to DefaultBucketCount. The bucket count is fixed for the map's
// lifetime.
func NewConcurrentMap[K constraints.Integer, V any](bucketCount int) *ConcurrentMap[K, V] {
	if bucketCount < 1 {
		bucketCount = DefaultBucketCount
	}
	m := &ConcurrentMap[K, V]{buckets: make([]bucket[K, V], bucketCount)}
	for i := range m.buckets {
		m.buckets[i].items = make(map[K]V)
	}
	return m
}

func (m *ConcurrentMap[K, V]) bucketFor(key K) *bucket[K, V] {
	return &m.buckets[uint64(key)%uint64(len(m.buckets))]
}

// Update runs fn on the value stored under key while holding the key's
// bucket lock, inserting a zero value first if the key is absent.
func (m *ConcurrentMap[K, V]) Update(key K, fn func(*V)) {
	b := m.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	value := b.items[key]
	fn(&value)
	b.items[key] = value
}

// Erase removes key if present, locking only the key's bucket.
func (m *ConcurrentMap[K, V]) Erase(key K) {
	b := m.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.items, key)
}

// BuildOrdinaryMap collects all buckets into a plain map. Buckets are locked
// in index order, so the call cannot deadlock against single-bucket
// operations, which hold at most one lock.
func (m *ConcurrentMap[K, V]) BuildOrdinaryMap() map[K]V {
	total := 0
	for i := range m.buckets {
		m.buckets[i].mu.Lock()
		total += len(m.buckets[i].items)
	}
	result := make(map[K]V, total)
	for i := range m.buckets {
		for key, value := range m.buckets[i].items {
			result[key] = value
		}
	}
	for i := range m.buckets {
		m.buckets[i].mu.Unlock()
	}
	return result
}

// Keys returns every key in ascending order. Like BuildOrdinaryMap it locks
// all buckets in index order for a consistent snapshot.
func (m *ConcurrentMap[K, V]) Keys() []K {
	snapshot := m.BuildOrdinaryMap()
	keys := make([]K, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
