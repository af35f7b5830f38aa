package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlab_InsertGet(t *testing.T) {
	var s Slab[string]

	a := s.Insert("alpha")
	b := s.Insert("beta")

	require.NotEqual(t, a, b)
	assert.Equal(t, "alpha", *s.Get(a))
	assert.Equal(t, "beta", *s.Get(b))
	assert.Equal(t, 2, s.Len())
}

func TestSlab_GetVacantSlot(t *testing.T) {
	var s Slab[int]

	assert.Nil(t, s.Get(0))
	assert.Nil(t, s.Get(Invalid))
}

func TestSlab_RemoveRecyclesSlot(t *testing.T) {
	var s Slab[int]

	a := s.Insert(1)
	b := s.Insert(2)
	s.Remove(a)

	require.Nil(t, s.Get(a))
	assert.Equal(t, 1, s.Len())

	// The freed slot is reused before the slab grows.
	c := s.Insert(3)
	assert.Equal(t, a, c)
	assert.Equal(t, 3, *s.Get(c))
	assert.Equal(t, 2, *s.Get(b))
}

func TestSlab_RemoveVacantIsNoop(t *testing.T) {
	var s Slab[int]
	a := s.Insert(1)

	s.Remove(a)
	s.Remove(a)

	assert.Equal(t, 0, s.Len())
}

func TestSlab_RangeSkipsVacant(t *testing.T) {
	var s Slab[int]
	a := s.Insert(10)
	s.Insert(20)
	s.Insert(30)
	s.Remove(a)

	var seen []int
	s.Range(func(_ Index, v *int) bool {
		seen = append(seen, *v)
		return true
	})

	assert.ElementsMatch(t, []int{20, 30}, seen)
}

func TestOptionIndex_Packing(t *testing.T) {
	some := SomeIndex(42)
	idx, ok := some.Get()
	require.True(t, ok)
	assert.Equal(t, Index(42), idx)
	assert.True(t, some.IsSome())

	_, ok = NoIndex.Get()
	assert.False(t, ok)
	assert.False(t, NoIndex.IsSome())
}

func TestOptionIndex_SentinelPanics(t *testing.T) {
	assert.Panics(t, func() {
		SomeIndex(Invalid)
	})
}

func TestSortedIndices_InsertSortedKeepsOrder(t *testing.T) {
	// Order nodes by their index value descending to prove the comparator
	// is what drives ordering, not the raw index.
	less := func(a, b Index) bool { return a > b }

	var s SortedIndices
	s.InsertSorted(2, less)
	s.InsertSorted(5, less)
	s.InsertSorted(1, less)
	s.InsertSorted(4, less)

	assert.Equal(t, []Index{5, 4, 2, 1}, s.All())
}

func TestSortedIndices_RemoveReportsEmpty(t *testing.T) {
	less := func(a, b Index) bool { return a < b }

	var s SortedIndices
	s.InsertSorted(1, less)
	s.InsertSorted(2, less)

	assert.False(t, s.Remove(1))
	assert.True(t, s.Remove(2))
}

func TestNameIndex_DuplicateNamesShareBucket(t *testing.T) {
	n := NewNameIndex()
	less := func(a, b Index) bool { return a < b }

	n.InsertSorted("main.go", 3, less)
	n.InsertSorted("main.go", 1, less)
	n.InsertSorted("util.go", 2, less)

	require.Equal(t, 2, n.Names())
	assert.Equal(t, []Index{1, 3}, n.Lookup("main.go").All())
	assert.Equal(t, []Index{2}, n.Lookup("util.go").All())
}

func TestNameIndex_BucketDroppedWhenEmpty(t *testing.T) {
	n := NewNameIndex()
	n.AppendOrdered("a.txt", 1)

	n.Remove("a.txt", 1)

	assert.Nil(t, n.Lookup("a.txt"))
	assert.Equal(t, 0, n.Names())
}

func TestNameIndex_RemoveUnknownNameIsNoop(t *testing.T) {
	n := NewNameIndex()
	n.Remove("ghost.go", 9)
	assert.Equal(t, 0, n.Names())
}
