package thinvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrain(t *testing.T) {
	v := Of(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	defer v.Free()
	capBefore := v.Cap()

	var got []int
	for x := range v.Drain(1, 7).All() {
		got = append(got, x+2)
	}
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9}, got)
	assert.Equal(t, []int{1, 8, 9, 10}, ints(&v))
	assert.Equal(t, capBefore, v.Cap())
}

func TestDrain_Backward(t *testing.T) {
	v := Of(1, 2, 3, 4, 5)
	defer v.Free()

	var got []int
	for x := range v.Drain(1, 4).Backward() {
		got = append(got, x)
	}
	assert.Equal(t, []int{4, 3, 2}, got)
	assert.Equal(t, []int{1, 5}, ints(&v))
}

func TestDrain_BothEnds(t *testing.T) {
	v := Of(1, 2, 3, 4, 5, 6)
	defer v.Free()

	d := v.Drain(0, 6)
	assert.Equal(t, 6, d.Len())
	x, _ := d.Next()
	y, _ := d.NextBack()
	assert.Equal(t, 1, x)
	assert.Equal(t, 6, y)
	assert.Equal(t, []int{2, 3, 4, 5}, d.Remaining())
	assert.Equal(t, 0, v.Len())

	d.Close()
	d.Close()
	assert.Equal(t, 0, v.Len())
}

func TestDrain_Empty(t *testing.T) {
	v := Of(1, 2, 3)
	defer v.Free()

	d := v.Drain(2, 2)
	_, ok := d.Next()
	assert.False(t, ok)
	d.Close()
	assert.Equal(t, []int{1, 2, 3}, ints(&v))

	var e Vec[int]
	e.Drain(0, 0).Close()
	assert.Equal(t, 0, e.Len())
}

func TestDrain_DropsUnconsumed(t *testing.T) {
	v, counts := makeCounted(8)

	d := v.Drain(2, 6)
	x, _ := d.Next()
	assert.Equal(t, 2, x.id)
	d.Close()

	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 0, 0}, counts)
	ids := make([]int, 0, v.Len())
	for _, c := range v.Slice() {
		ids = append(ids, c.id)
	}
	assert.Equal(t, []int{0, 1, 6, 7}, ids)
	for _, s := range v.SpareCapacity() {
		assert.Nil(t, s.counts)
	}

	x.Drop()
	v.Free()
	requireDroppedOnce(t, counts)
}

func TestDrain_DropPanics(t *testing.T) {
	counts := make([]int, 6)
	v := New[exploding]()
	for i := range 6 {
		v.Push(exploding{id: i, counts: counts, boom: i == 2})
	}

	d := v.Drain(1, 4)
	assert.PanicsWithValue(t, "boom", func() { d.Close() })

	ids := make([]int, 0, v.Len())
	for _, e := range v.Slice() {
		ids = append(ids, e.id)
	}
	assert.Equal(t, []int{0, 4, 5}, ids)
	assert.Equal(t, []int{0, 1, 1, 1, 0, 0}, counts)

	v.Free()
	requireDroppedOnce(t, counts)
}

func TestDrain_RangePanics(t *testing.T) {
	v := Of(1, 2, 3)
	defer v.Free()

	assert.PanicsWithValue(t, "thinvec: slice index starts at 2 but ends at 1", func() { v.Drain(2, 1) })
	assert.PanicsWithValue(t, "thinvec: range end index 4 out of range for slice of length 3", func() { v.Drain(0, 4) })
	assert.Equal(t, []int{1, 2, 3}, ints(&v))
}

func TestDrain_Leaked(t *testing.T) {
	v, counts := makeCounted(5)

	d := v.Drain(1, 3)
	_, _ = d.Next()
	require.Equal(t, 1, v.Len())

	// Without Close the range and tail are unreachable, never dropped twice.
	v.Free()
	assert.Equal(t, []int{1, 0, 0, 0, 0}, counts)
}
