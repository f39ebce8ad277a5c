package graph

import (
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/qec-tools/mobiusdec/color"
)

// AtomicErrorMap maps canonical atomic error keys to observable masks. It
// is backed by a red-black tree so that iteration is always in ascending
// key order; every construction pass downstream (charge graph, RGB reps,
// drag graph) depends on that order being deterministic.
type AtomicErrorMap struct {
	t *treemap.Map
}

func compareAtomicErrorKeys(a, b interface{}) int {
	ka := a.(color.AtomicErrorKey)
	kb := b.(color.AtomicErrorKey)
	for i := 0; i < 3; i++ {
		if ka.Dets[i] != kb.Dets[i] {
			if ka.Dets[i] < kb.Dets[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// NewAtomicErrorMap returns an empty map.
func NewAtomicErrorMap() *AtomicErrorMap {
	return &AtomicErrorMap{t: treemap.NewWith(compareAtomicErrorKeys)}
}

// Put inserts or overwrites the mask for key.
func (m *AtomicErrorMap) Put(key color.AtomicErrorKey, mask color.ObsMask) {
	m.t.Put(key, mask)
}

// Get returns the mask for key and whether it is present.
func (m *AtomicErrorMap) Get(key color.AtomicErrorKey) (color.ObsMask, bool) {
	v, ok := m.t.Get(key)
	if !ok {
		return 0, false
	}
	return v.(color.ObsMask), true
}

// Contains reports whether key is present.
func (m *AtomicErrorMap) Contains(key color.AtomicErrorKey) bool {
	_, ok := m.t.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *AtomicErrorMap) Len() int {
	return m.t.Size()
}

// Each calls fn for every entry in ascending key order.
func (m *AtomicErrorMap) Each(fn func(key color.AtomicErrorKey, mask color.ObsMask)) {
	m.t.Each(func(k, v interface{}) {
		fn(k.(color.AtomicErrorKey), v.(color.ObsMask))
	})
}
