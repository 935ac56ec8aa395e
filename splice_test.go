package thinvec

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplice(t *testing.T) {
	v := Of(1, 2, 3, 4, 5, 6)
	defer v.Free()

	var drained []int
	for x := range v.Splice(1, 4, slices.Values([]int{7, 8})).All() {
		drained = append(drained, x)
	}
	assert.Equal(t, []int{2, 3, 4}, drained)
	assert.Equal(t, []int{1, 7, 8, 5, 6}, ints(&v))
}

func TestSplice_ReplacementLengths(t *testing.T) {
	tests := []struct {
		name        string
		start, end  int
		replacement []int
		want        []int
	}{
		{"shorter", 1, 4, []int{9}, []int{1, 9, 5, 6}},
		{"equal", 1, 3, []int{7, 8}, []int{1, 7, 8, 4, 5, 6}},
		{"longer", 1, 2, []int{7, 8, 9, 10}, []int{1, 7, 8, 9, 10, 3, 4, 5, 6}},
		{"empty replacement", 0, 6, nil, []int{}},
		{"insert at front", 0, 0, []int{0}, []int{0, 1, 2, 3, 4, 5, 6}},
		{"append at end", 6, 6, []int{7, 8}, []int{1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Of(1, 2, 3, 4, 5, 6)
			defer v.Free()

			v.Splice(tt.start, tt.end, slices.Values(tt.replacement)).Close()
			assert.Equal(t, tt.want, ints(&v))
			assert.GreaterOrEqual(t, v.Cap(), v.Len())
		})
	}
}

func TestSplice_GrowsExactly(t *testing.T) {
	v := Of(1, 2, 3, 4, 5, 6)
	defer v.Free()
	before := liveBlocks()

	v.Splice(1, 2, slices.Values([]int{7, 8, 9, 10})).Close()
	assert.Equal(t, 9, v.Cap())
	assert.Equal(t, before, liveBlocks())
}

func TestSplice_NilReplacement(t *testing.T) {
	v := Of(1, 2, 3, 4, 5, 6)
	defer v.Free()

	v.Splice(1, 3, nil).Close()
	assert.Equal(t, []int{1, 4, 5, 6}, ints(&v))
}

func TestSplice_IntoEmpty(t *testing.T) {
	var v Vec[int]
	defer v.Free()

	v.Splice(0, 0, slices.Values([]int{1, 2, 3})).Close()
	assert.Equal(t, []int{1, 2, 3}, ints(&v))
	assert.Equal(t, 3, v.Cap())
}

func TestSplice_Backward(t *testing.T) {
	v := Of(1, 2, 3, 4, 5)
	defer v.Free()

	var drained []int
	for x := range v.Splice(1, 4, slices.Values([]int{0})).Backward() {
		drained = append(drained, x)
	}
	assert.Equal(t, []int{4, 3, 2}, drained)
	assert.Equal(t, []int{1, 0, 5}, ints(&v))
}

func TestSplice_Drops(t *testing.T) {
	counts := make([]int, 7)
	v := New[counted]()
	for i := range 3 {
		v.Push(counted{id: i, counts: counts})
	}
	fill := func(yield func(counted) bool) {
		for i := 3; i < 7; i++ {
			if !yield(counted{id: i, counts: counts}) {
				return
			}
		}
	}

	sp := v.Splice(1, 2, fill)
	require.Equal(t, 1, sp.Len())
	sp.Close()

	assert.Equal(t, []int{0, 1, 0, 0, 0, 0, 0}, counts)
	assert.Equal(t, []int{0, 3, 4, 5, 6, 2}, countedIDs(&v))

	v.Free()
	requireDroppedOnce(t, counts)
}

func TestSplice_ReplacementPanics(t *testing.T) {
	v := Of(1, 2, 3, 4, 5, 6)
	defer v.Free()

	var fill iter.Seq[int] = func(yield func(int) bool) {
		if !yield(7) {
			return
		}
		panic("fill")
	}

	sp := v.Splice(1, 4, fill)
	assert.Panics(t, func() { sp.Close() })
	assert.Equal(t, []int{1, 7, 5, 6}, ints(&v))
	for _, x := range v.SpareCapacity() {
		assert.Zero(t, x)
	}
}

func TestSplice_RangePanics(t *testing.T) {
	v := Of(1, 2, 3)
	defer v.Free()

	assert.Panics(t, func() { v.Splice(2, 1, nil) })
	assert.Panics(t, func() { v.Splice(0, 5, nil) })
	assert.Equal(t, []int{1, 2, 3}, ints(&v))
}
