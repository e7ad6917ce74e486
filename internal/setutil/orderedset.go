package setutil

import "github.com/basalt-db/evcat/internal/evtype"

// Union merges two slices, each already sorted ascending by key(), into a
// single slice sorted ascending by key() with duplicate keys collapsed
// (the first slice's element wins on a tie). This is the in-place-union
// primitive §4.1's disjunction evaluation needs; every intermediate
// candidate set in lookup_impl must stay sorted by uuid (§8 property 3),
// which this preserves by construction.
func Union[T any](a, b []T, key func(T) evtype.UUID) []T {
	out := make([]T, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ai, bj := key(a[i]), key(b[j])
		switch {
		case ai.Less(bj):
			out = append(out, a[i])
			i++
		case bj.Less(ai):
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Intersect merges two slices, each already sorted ascending by key(),
// keeping only elements whose key is present in both — the in-place
// intersection primitive a conjunction's short-circuit evaluation needs.
func Intersect[T any](a, b []T, key func(T) evtype.UUID) []T {
	out := make([]T, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ai, bj := key(a[i]), key(b[j])
		switch {
		case ai.Less(bj):
			i++
		case bj.Less(ai):
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
