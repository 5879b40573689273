package mergeinsertion

import "slices"

// upperBound returns the first index in chain[:hi] whose element compares
// strictly greater than v, and the number of comparisons spent finding it.
// At most ceil(log2(hi+1)) comparisons are made.
func upperBound[E any](chain []E, v E, hi int, cmp func(a, b E) (int, error)) (int, int, error) {
	lo, used := 0, 0
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c, err := cmp(v, chain[mid])
		used++
		if err != nil {
			return 0, used, err
		}
		if c < 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, used, nil
}

// binaryInsert inserts v into the sorted chain, searching only chain[:bound].
// A bound outside [0, len(chain)] searches the whole chain.
func binaryInsert[E any](chain []E, v E, bound int, cmp func(a, b E) (int, error)) ([]E, int, int, error) {
	if bound < 0 || bound > len(chain) {
		bound = len(chain)
	}
	pos, used, err := upperBound(chain, v, bound, cmp)
	if err != nil {
		return chain, 0, used, err
	}
	return slices.Insert(chain, pos, v), pos, used, nil
}

// InsertSorted inserts v into sorted after any elements equal to it and
// returns the grown slice, the insertion position and the number of
// comparisons made. When 0 <= bound <= len(sorted), v is known to be less
// than sorted[bound] and only sorted[:bound] is searched; any other bound
// searches the whole slice.
func InsertSorted[T any](sorted []T, v T, bound int, cmp func(a, b T) int) ([]T, int, int) {
	out, pos, used, _ := binaryInsert(sorted, v, bound, infallible(cmp))
	return out, pos, used
}

// UpperBound returns the index of the first element of sorted that compares
// strictly greater than v, and the comparisons spent.
func UpperBound[T any](sorted []T, v T, cmp func(a, b T) int) (int, int) {
	pos, used, _ := upperBound(sorted, v, len(sorted), infallible(cmp))
	return pos, used
}

func infallible[T any](cmp func(a, b T) int) func(a, b T) (int, error) {
	return func(a, b T) (int, error) {
		return cmp(a, b), nil
	}
}
