package slab

import "sort"

// SortedIndices is one name-index bucket: the indices of every node sharing
// a filename, ordered by full path. Ordering is by path, not by name; all
// members already share the name.
type SortedIndices struct {
	indices []Index
}

// Len returns the number of indices in the bucket.
func (s *SortedIndices) Len() int {
	return len(s.indices)
}

// All returns the underlying ordered slice. Callers must not mutate it.
func (s *SortedIndices) All() []Index {
	return s.indices
}

// InsertSorted inserts idx at its ordered position, where less reports
// whether the node at index a sorts before the node at index b by full
// path. This is the checked path used for single incremental updates.
func (s *SortedIndices) InsertSorted(idx Index, less func(a, b Index) bool) {
	pos := sort.Search(len(s.indices), func(i int) bool {
		return !less(s.indices[i], idx)
	})
	s.indices = append(s.indices, 0)
	copy(s.indices[pos+1:], s.indices[pos:])
	s.indices[pos] = idx
}

// AppendOrdered appends idx without checking order. Valid only when the
// caller guarantees ascending-path insertion order; bulk construction
// visits nodes in preorder over name-sorted children, which is exactly
// lexicographic path order. All other call sites must use InsertSorted.
func (s *SortedIndices) AppendOrdered(idx Index) {
	s.indices = append(s.indices, idx)
}

// Remove deletes idx from the bucket, preserving order. Returns true if
// the bucket is now empty.
func (s *SortedIndices) Remove(idx Index) bool {
	for i, v := range s.indices {
		if v == idx {
			s.indices = append(s.indices[:i], s.indices[i+1:]...)
			break
		}
	}
	return len(s.indices) == 0
}
