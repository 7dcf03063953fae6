package repository

import "sync"

// orderedIndex is a concurrency-safe map that remembers insertion order.
// Iteration always follows the order in which keys were first stored.
type orderedIndex[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	order []K
}

func newOrderedIndex[K comparable, V any]() *orderedIndex[K, V] {
	return &orderedIndex[K, V]{items: make(map[K]V)}
}

// put stores v under k. It returns false, leaving the index unchanged,
// if k is already present.
func (ix *orderedIndex[K, V]) put(k K, v V) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.items[k]; exists {
		return false
	}
	ix.items[k] = v
	ix.order = append(ix.order, k)
	return true
}

func (ix *orderedIndex[K, V]) get(k K) (V, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	v, ok := ix.items[k]
	return v, ok
}

func (ix *orderedIndex[K, V]) len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.order)
}

// filter returns, in insertion order, every value for which keep is true.
// A nil keep returns all values.
func (ix *orderedIndex[K, V]) filter(keep func(V) bool) []V {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]V, 0, len(ix.order))
	for _, k := range ix.order {
		v := ix.items[k]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// find returns the first value, in insertion order, for which match is true.
func (ix *orderedIndex[K, V]) find(match func(V) bool) (V, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, k := range ix.order {
		if v := ix.items[k]; match(v) {
			return v, true
		}
	}
	var zero V
	return zero, false
}
