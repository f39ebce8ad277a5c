package color

import "sort"

// InplaceSort2 swaps a and b if needed so that *a <= *b, branch-free.
func InplaceSort2(a, b *NodeOffset) {
	var cmp NodeOffset
	if *a > *b {
		cmp = *a ^ *b
	}
	*a ^= cmp
	*b ^= cmp
}

// Sort3 returns the three inputs in non-decreasing order using a fixed
// three-comparator sorting network.
func Sort3(a, b, c NodeOffset) [3]NodeOffset {
	InplaceSort2(&b, &c)
	InplaceSort2(&a, &b)
	InplaceSort2(&b, &c)
	return [3]NodeOffset{a, b, c}
}

// InplaceXorSort sorts items and cancels out values that appear an even
// number of times, returning the surviving prefix. It is the set-XOR of the
// multiset: each value survives iff it occurred an odd number of times.
// Applying it to an already sorted duplicate-free slice is the identity.
func InplaceXorSort(items []NodeOffset) []NodeOffset {
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	newSize := 0
	for k := 0; k < len(items); k++ {
		if newSize > 0 && items[k] == items[newSize-1] {
			newSize--
		} else {
			items[newSize] = items[k]
			newSize++
		}
	}
	return items[:newSize]
}

// XorVec is a sorted duplicate-cancelling set of detector indices: inserting
// a value already present removes it instead. Keeping the representation
// sorted makes downstream iteration deterministic, which the decomposition
// search relies on.
type XorVec struct {
	sorted []NodeOffset
}

// Clear empties the set while keeping its backing storage.
func (v *XorVec) Clear() {
	v.sorted = v.sorted[:0]
}

// XorItem toggles membership of x.
func (v *XorVec) XorItem(x NodeOffset) {
	i := sort.Search(len(v.sorted), func(k int) bool { return v.sorted[k] >= x })
	if i < len(v.sorted) && v.sorted[i] == x {
		v.sorted = append(v.sorted[:i], v.sorted[i+1:]...)
		return
	}
	v.sorted = append(v.sorted, 0)
	copy(v.sorted[i+1:], v.sorted[i:])
	v.sorted[i] = x
}

// Sorted returns the surviving items in ascending order. The slice aliases
// internal storage and is invalidated by the next mutation.
func (v *XorVec) Sorted() []NodeOffset {
	return v.sorted
}
