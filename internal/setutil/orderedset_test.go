package setutil_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/setutil"
)

type idElem struct {
	id evtype.UUID
}

func idN(n int) evtype.UUID {
	return evtype.MustParseUUID(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func elems(ns ...int) []idElem {
	out := make([]idElem, len(ns))
	for i, n := range ns {
		out[i] = idElem{id: idN(n)}
	}
	return out
}

func keyOf(e idElem) evtype.UUID { return e.id }

func ids(es []idElem) []int {
	out := make([]int, len(es))
	for i, e := range es {
		for n := 0; n < 100; n++ {
			if e.id.Equal(idN(n)) {
				out[i] = n
				break
			}
		}
	}
	return out
}

func TestUnionMergesDisjointSortedSlices(t *testing.T) {
	a := elems(1, 3, 5)
	b := elems(2, 4, 6)
	got := setutil.Union(a, b, keyOf)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(got))
}

func TestUnionCollapsesDuplicateKeysKeepingFirstSlice(t *testing.T) {
	a := elems(1, 2, 3)
	b := elems(2, 3, 4)
	got := setutil.Union(a, b, keyOf)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(got))
}

func TestUnionWithEmptySliceReturnsOther(t *testing.T) {
	a := elems(1, 2)
	got := setutil.Union(a, nil, keyOf)
	assert.Equal(t, []int{1, 2}, ids(got))
}

func TestIntersectKeepsOnlySharedKeys(t *testing.T) {
	a := elems(1, 2, 3, 4)
	b := elems(2, 4, 6)
	got := setutil.Intersect(a, b, keyOf)
	assert.Equal(t, []int{2, 4}, ids(got))
}

func TestIntersectWithNoOverlapIsEmpty(t *testing.T) {
	a := elems(1, 3)
	b := elems(2, 4)
	got := setutil.Intersect(a, b, keyOf)
	assert.Empty(t, got)
}

func TestIntersectWithEmptySliceIsEmpty(t *testing.T) {
	a := elems(1, 2, 3)
	got := setutil.Intersect(a, nil, keyOf)
	assert.Empty(t, got)
}
