// Package slab provides a dense, u32-indexed arena for filesystem nodes.
// Nodes reference each other by small integer indices instead of pointers,
// which halves per-link memory on 64-bit platforms and keeps the whole tree
// in a handful of contiguous allocations.
package slab

import (
	"fmt"
	"math"
)

// Index addresses one slot in a Slab.
type Index uint32

// Invalid is the reserved sentinel value. No live slot ever has this index.
const Invalid Index = math.MaxUint32

// IsValid reports whether i addresses a real slot.
func (i Index) IsValid() bool {
	return i != Invalid
}

// OptionIndex is an Index that may be absent, packed into the same 4 bytes
// by reusing the Invalid sentinel. Functionally equivalent to a nullable
// integer; the packing is a density optimization only.
type OptionIndex struct {
	raw Index
}

// NoIndex is the absent OptionIndex.
var NoIndex = OptionIndex{raw: Invalid}

// SomeIndex wraps a valid Index. Panics on the sentinel value, which would
// silently alias "absent".
func SomeIndex(i Index) OptionIndex {
	if i == Invalid {
		panic("slab: SomeIndex called with the invalid sentinel")
	}
	return OptionIndex{raw: i}
}

// Get returns the wrapped index and whether it is present.
func (o OptionIndex) Get() (Index, bool) {
	return o.raw, o.raw != Invalid
}

// IsSome reports whether an index is present.
func (o OptionIndex) IsSome() bool {
	return o.raw != Invalid
}

// String implements fmt.Stringer for debug output.
func (o OptionIndex) String() string {
	if o.raw == Invalid {
		return "none"
	}
	return fmt.Sprintf("%d", o.raw)
}

type entry[T any] struct {
	value    T
	occupied bool
}

// Slab is an index-addressed arena with O(1) insert, access, and remove.
// Removed slots are recycled through a free list, so indices of live slots
// stay stable across unrelated removals.
//
// Slab is not synchronized; the index-owner goroutine is the only writer.
type Slab[T any] struct {
	entries []entry[T]
	free    []Index
	live    int
}

// Insert stores v and returns its index. Panics if the slab would exceed
// the u32 index space.
func (s *Slab[T]) Insert(v T) Index {
	s.live++
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.entries[idx] = entry[T]{value: v, occupied: true}
		return idx
	}
	if len(s.entries) >= int(Invalid) {
		panic("slab: index space exhausted")
	}
	s.entries = append(s.entries, entry[T]{value: v, occupied: true})
	return Index(len(s.entries) - 1)
}

// Get returns a pointer to the value at i, or nil if the slot is vacant or
// out of range.
func (s *Slab[T]) Get(i Index) *T {
	if int(i) >= len(s.entries) || !s.entries[i].occupied {
		return nil
	}
	return &s.entries[i].value
}

// Contains reports whether i addresses a live slot.
func (s *Slab[T]) Contains(i Index) bool {
	return int(i) < len(s.entries) && s.entries[i].occupied
}

// Remove vacates slot i and recycles it for a later Insert. Removing a
// vacant slot is a no-op.
func (s *Slab[T]) Remove(i Index) {
	if int(i) >= len(s.entries) || !s.entries[i].occupied {
		return
	}
	var zero T
	s.entries[i] = entry[T]{value: zero}
	s.free = append(s.free, i)
	s.live--
}

// Len returns the number of live slots.
func (s *Slab[T]) Len() int {
	return s.live
}

// Range calls fn for every live slot until fn returns false. Iteration
// order is slot order, not insertion order.
func (s *Slab[T]) Range(fn func(i Index, v *T) bool) {
	for idx := range s.entries {
		if !s.entries[idx].occupied {
			continue
		}
		if !fn(Index(idx), &s.entries[idx].value) {
			return
		}
	}
}
