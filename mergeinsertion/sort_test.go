package mergeinsertion

import (
	"cmp"
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"
)

// permutations calls fn with every permutation of 0..n-1 (Heap's algorithm).
// fn must not retain the slice.
func permutations(n int, fn func([]int)) {
	a := make([]int, n)
	for i := range a {
		a[i] = i
	}
	c := make([]int, n)
	fn(a)
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			fn(a)
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}

func isSorted[T cmp.Ordered](data []T) bool {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return false
		}
	}
	return true
}

func sameMultiset[T cmp.Ordered](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func TestSortScenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     []int
		expected  []int
		maxCompar int
	}{
		{name: "empty", input: []int{}, expected: []int{}, maxCompar: 0},
		{name: "single", input: []int{42}, expected: []int{42}, maxCompar: 0},
		{name: "four elements", input: []int{5, 3, 8, 1}, expected: []int{1, 3, 5, 8}, maxCompar: 5},
		{name: "odd length", input: []int{7, 2, 9}, expected: []int{2, 7, 9}, maxCompar: 3},
		{name: "two reversed", input: []int{2, 1}, expected: []int{1, 2}, maxCompar: 1},
		{
			name:      "narrated demo input",
			input:     []int{64, 34, 25, 12, 22, 11, 90, 88, 45, 50, 33, 17, 78, 55, 29, 71, 42, 19, 83, 66},
			expected:  []int{11, 12, 17, 19, 22, 25, 29, 33, 34, 42, 45, 50, 55, 64, 66, 71, 78, 83, 88, 90},
			maxCompar: OptimalComparisons(20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, comparisons := Count(tt.input)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if comparisons > tt.maxCompar {
				t.Errorf("expected at most %d comparisons, got %d", tt.maxCompar, comparisons)
			}
		})
	}
}

func TestSortSingleUsesNoComparisons(t *testing.T) {
	got, comparisons := Count([]int{42})
	if comparisons != 0 {
		t.Errorf("expected 0 comparisons, got %d", comparisons)
	}
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("expected [42], got %v", got)
	}
}

func TestSortFourElementsExactCount(t *testing.T) {
	// 2 pairing + 1 recursive + 0 for pend[0] + 2 for pend[1]
	_, comparisons := Count([]int{5, 3, 8, 1})
	if comparisons != 5 {
		t.Errorf("expected 5 comparisons, got %d", comparisons)
	}
}

func TestOptimalComparisonsKnownValues(t *testing.T) {
	expected := []int{0, 0, 1, 3, 5, 7, 10, 13, 16, 19, 22, 26, 30}
	for n, want := range expected {
		if got := OptimalComparisons(n); got != want {
			t.Errorf("OptimalComparisons(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestInformationBoundKnownValues(t *testing.T) {
	expected := map[int]int{0: 0, 1: 0, 2: 1, 3: 3, 4: 5, 5: 7, 6: 10, 7: 13, 8: 16, 12: 29}
	for n, want := range expected {
		if got := InformationBound(n); got != want {
			t.Errorf("InformationBound(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestSortAllPermutationsWithinBound(t *testing.T) {
	for n := 0; n <= 8; n++ {
		bound := OptimalComparisons(n)
		worst := 0
		permutations(n, func(p []int) {
			got, comparisons := Count(p)
			if !isSorted(got) || !sameMultiset(got, p) {
				t.Fatalf("n=%d: input %v sorted to %v", n, p, got)
			}
			if comparisons > worst {
				worst = comparisons
			}
		})
		if worst > bound {
			t.Errorf("n=%d: worst case %d comparisons exceeds %d", n, worst, bound)
		}
	}
}

func TestSortRandomWithinBound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 9; n <= 12; n++ {
		bound := OptimalComparisons(n)
		for trial := 0; trial < 3000; trial++ {
			data := rng.Perm(n)
			got, comparisons := Count(data)
			if !isSorted(got) {
				t.Fatalf("n=%d: not sorted: %v", n, got)
			}
			if comparisons > bound {
				t.Fatalf("n=%d: %d comparisons for %v, bound is %d", n, comparisons, data, bound)
			}
		}
	}
}

func TestSortLargeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sizes := []int{13, 21, 43, 100, 257, 1000}
	for _, n := range sizes {
		data := make([]int, n)
		for i := range data {
			data[i] = rng.Intn(n / 2)
		}
		got, comparisons := Count(data)
		if !isSorted(got) {
			t.Errorf("n=%d: result not sorted", n)
		}
		if !sameMultiset(got, data) {
			t.Errorf("n=%d: result is not a permutation of the input", n)
		}
		if comparisons > OptimalComparisons(n) {
			t.Errorf("n=%d: %d comparisons exceeds %d", n, comparisons, OptimalComparisons(n))
		}
	}
}

func TestSortDuplicates(t *testing.T) {
	tests := [][]int{
		{7, 7, 7, 7, 7},
		{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5},
		{1, 1, 0, 0},
		{2, 2, 1},
	}
	for _, input := range tests {
		got := Sort(input)
		if !isSorted(got) || !sameMultiset(got, input) {
			t.Errorf("input %v sorted to %v", input, got)
		}
	}
}

func TestSortAlreadySorted(t *testing.T) {
	for n := 0; n <= 64; n++ {
		data := make([]int, n)
		for i := range data {
			data[i] = i
		}
		got, comparisons := Count(data)
		if !slices.Equal(got, data) {
			t.Fatalf("n=%d: sorted input changed: %v", n, got)
		}
		if comparisons < n/2 {
			t.Errorf("n=%d: %d comparisons is below the pairing cost", n, comparisons)
		}
		if comparisons > OptimalComparisons(n) {
			t.Errorf("n=%d: %d comparisons exceeds %d", n, comparisons, OptimalComparisons(n))
		}
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	input := []int{9, 8, 7, 6, 5, 4, 3, 2, 1}
	orig := slices.Clone(input)
	Sort(input)
	if !slices.Equal(input, orig) {
		t.Errorf("input modified: %v", input)
	}
}

func TestSortFuncDescending(t *testing.T) {
	got := SortFunc([]string{"pear", "apple", "fig", "kiwi"}, func(a, b string) int {
		return cmp.Compare(b, a)
	})
	expected := []string{"pear", "kiwi", "fig", "apple"}
	if !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestSortStructsByKey(t *testing.T) {
	type item struct {
		key  int
		name string
	}
	items := []item{{3, "c"}, {1, "a"}, {2, "b"}, {0, "z"}, {5, "e"}}
	got := SortFunc(items, func(a, b item) int { return cmp.Compare(a.key, b.key) })
	for i := 1; i < len(got); i++ {
		if got[i].key < got[i-1].key {
			t.Fatalf("not sorted by key: %v", got)
		}
	}
}

func TestSorterNilComparator(t *testing.T) {
	_, err := NewSorter[int](nil).Sort([]int{2, 1})
	if !errors.Is(err, ErrNilComparator) {
		t.Errorf("expected ErrNilComparator, got %v", err)
	}
}

func TestFallibleComparatorErrorPropagates(t *testing.T) {
	errBoom := errors.New("boom")
	calls := 0
	s := NewFallibleSorter(func(a, b int) (int, error) {
		calls++
		if calls == 4 {
			return 0, errBoom
		}
		return cmp.Compare(a, b), nil
	})
	res, err := s.Sort([]int{6, 5, 4, 3, 2, 1})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if res.Sorted != nil {
		t.Errorf("expected no partial result, got %v", res.Sorted)
	}
	if res.Comparisons != 4 {
		t.Errorf("expected 4 comparisons before failure, got %d", res.Comparisons)
	}
}

func TestComparatorPanicPropagates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic to propagate")
		}
	}()
	SortFunc([]int{3, 2, 1}, func(a, b int) int { panic("comparator failure") })
}

func TestSortContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSorter(cmp.Compare[int]).SortContext(ctx, []int{4, 3, 2, 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSortContextCancelledBetweenInsertions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inserted := 0
	obs := ObserverFunc[int](func(e Event[int]) {
		if e.Kind == EventElementInserted && e.Depth == 0 {
			inserted++
			if inserted == 2 {
				cancel()
			}
		}
	})
	_, err := NewSorter(cmp.Compare[int]).WithObserver(obs).SortContext(ctx, []int{8, 7, 6, 5, 4, 3, 2, 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if inserted != 2 {
		t.Errorf("expected sort to stop after 2 insertions, got %d", inserted)
	}
}

func TestSortContextNotCancelledCompletes(t *testing.T) {
	res, err := NewSorter(cmp.Compare[int]).SortContext(context.Background(), []int{3, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(res.Sorted, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", res.Sorted)
	}
}
