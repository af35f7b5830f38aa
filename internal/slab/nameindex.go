package slab

// NameIndex maps an interned filename to the bucket of node indices sharing
// that name. It is the prefilter for name-based query terms: a literal name
// lookup touches only the matching bucket instead of the whole slab.
type NameIndex struct {
	buckets map[string]*SortedIndices
}

// NewNameIndex returns an empty name index.
func NewNameIndex() *NameIndex {
	return &NameIndex{buckets: make(map[string]*SortedIndices)}
}

// InsertSorted adds idx under name at its path-ordered position.
func (n *NameIndex) InsertSorted(name string, idx Index, less func(a, b Index) bool) {
	bucket, ok := n.buckets[name]
	if !ok {
		bucket = &SortedIndices{}
		n.buckets[name] = bucket
	}
	bucket.InsertSorted(idx, less)
}

// AppendOrdered adds idx under name assuming ascending-path insertion
// order. Bulk construction only; see SortedIndices.AppendOrdered.
func (n *NameIndex) AppendOrdered(name string, idx Index) {
	bucket, ok := n.buckets[name]
	if !ok {
		bucket = &SortedIndices{}
		n.buckets[name] = bucket
	}
	bucket.AppendOrdered(idx)
}

// Remove deletes (name, idx). The bucket is dropped once it empties so the
// map never accumulates dead keys.
func (n *NameIndex) Remove(name string, idx Index) {
	bucket, ok := n.buckets[name]
	if !ok {
		return
	}
	if bucket.Remove(idx) {
		delete(n.buckets, name)
	}
}

// Lookup returns the bucket for name, or nil if no node has that name.
func (n *NameIndex) Lookup(name string) *SortedIndices {
	return n.buckets[name]
}

// Names returns the number of distinct names in the index.
func (n *NameIndex) Names() int {
	return len(n.buckets)
}

// Range calls fn for each (name, bucket) pair until fn returns false.
// Iteration order is unspecified.
func (n *NameIndex) Range(fn func(name string, bucket *SortedIndices) bool) {
	for name, bucket := range n.buckets {
		if !fn(name, bucket) {
			return
		}
	}
}
