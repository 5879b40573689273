package mergeinsertion

import (
	"math"
	"math/bits"
)

// OptimalComparisons is the worst-case number of comparisons merge-insertion
// sort spends on n elements: the sum over k = 1..n of ceil(log2(3k/4)).
func OptimalComparisons(n int) int {
	total := 0
	for k := 1; k <= n; k++ {
		// ceil(log2(3k/4)) = ceil(log2(3k)) - 2, never negative for k >= 1
		total += bits.Len(uint(3*k-1)) - 2
	}
	return total
}

// InformationBound is ceil(log2(n!)), the minimum worst-case comparisons any
// comparison sort needs for n elements.
func InformationBound(n int) int {
	if n <= 1 {
		return 0
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	v := lg / math.Ln2
	// n! is a power of two only for n <= 2, so a tiny slack never rounds a
	// non-integer down.
	return int(math.Ceil(v - 1e-9))
}
