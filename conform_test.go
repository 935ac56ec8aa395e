package thinvec

import (
	"encoding/json"
	"hash/maphash"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/thinvec/alloc"
	"github.com/wippyai/thinvec/errors"
)

func TestEqual(t *testing.T) {
	a := Of(1, 2, 3)
	defer a.Free()
	b := Of(1, 2, 3)
	defer b.Free()
	b.Reserve(100)
	var empty Vec[int]

	assert.True(t, Equal(&a, &b))
	assert.True(t, EqualSlice(&a, []int{1, 2, 3}))
	assert.False(t, EqualSlice(&a, []int{1, 2}))
	assert.False(t, Equal(&a, &empty))
	assert.True(t, EqualSlice(&empty, nil))
}

func TestCompare(t *testing.T) {
	a := Of(1, 2, 3)
	defer a.Free()
	b := Of(1, 2, 4)
	defer b.Free()
	c := Of(1, 2)
	defer c.Free()

	assert.Equal(t, -1, Compare(&a, &b))
	assert.Equal(t, 1, Compare(&b, &a))
	assert.Equal(t, 1, Compare(&a, &c))
	assert.Equal(t, 0, Compare(&a, &a))
}

func TestHash(t *testing.T) {
	seed := maphash.MakeSeed()
	sum := func(v *Vec[string]) uint64 {
		var h maphash.Hash
		h.SetSeed(seed)
		Hash(&h, v)
		return h.Sum64()
	}

	a := Of("x", "y")
	defer a.Free()
	b := WithCapacity[string](16)
	defer b.Free()
	b.Push("x")
	b.Push("y")
	c := Of("xy")
	defer c.Free()

	assert.Equal(t, sum(&a), sum(&b))
	assert.NotEqual(t, sum(&a), sum(&c))
}

func TestString(t *testing.T) {
	v := Of(1, 2, 3)
	defer v.Free()
	var e Vec[int]

	assert.Equal(t, "[1 2 3]", v.String())
	assert.Equal(t, "[]", e.String())
}

func TestJSON(t *testing.T) {
	var e Vec[int]
	out, err := json.Marshal(&e)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	v := Of("a", "b")
	defer v.Free()
	out, err = json.Marshal(&v)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(out))

	var doc struct {
		Items Vec[int] `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"items":[3,1,2]}`), &doc))
	defer doc.Items.Free()
	assert.Equal(t, []int{3, 1, 2}, ints(&doc.Items))

	require.Error(t, json.Unmarshal([]byte(`{"items":["x"]}`), &doc))
	assert.Equal(t, []int{3, 1, 2}, ints(&doc.Items))
}

func TestJSON_AllocationFailureLeavesVector(t *testing.T) {
	v := Of(1, 2, 3)
	defer v.Free()

	heap := alloc.Default()
	heap.SetLimit(heap.Stats().Bytes + 1024)
	t.Cleanup(func() { heap.SetLimit(0) })

	data := "[" + strings.TrimSuffix(strings.Repeat("7,", 1000), ",") + "]"
	err := v.UnmarshalJSON([]byte(data))
	assert.ErrorIs(t, err, errors.ErrAllocation)
	assert.Equal(t, []int{1, 2, 3}, ints(&v))

	heap.SetLimit(0)
	require.NoError(t, v.UnmarshalJSON([]byte(data)))
	assert.Equal(t, 1000, v.Len())
}

func TestSeq(t *testing.T) {
	v := Of(10, 20, 30)
	defer v.Free()

	var idx, vals []int
	for i, x := range v.All() {
		idx = append(idx, i)
		vals = append(vals, x)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []int{10, 20, 30}, vals)

	var back []int
	for _, x := range v.Backward() {
		back = append(back, x)
	}
	assert.Equal(t, []int{30, 20, 10}, back)

	w := Collect(v.Values())
	defer w.Free()
	assert.True(t, Equal(&v, &w))
}
