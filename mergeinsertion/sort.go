// Package mergeinsertion implements the Ford-Johnson merge-insertion sort, a
// comparison sort that spends close to the information-theoretic minimum
// number of comparisons for small and moderate inputs.
//
// Elements are paired and ordered, the larger element of every pair is
// sorted recursively, and the smaller elements are binary-inserted back in
// an order driven by the Jacobsthal numbers so that each search runs over a
// range of size 2^k-1.
//
// The comparator must define a strict weak order. If it does not, the
// result is still a permutation of the input but its order is unspecified.
// The sort is not stable.
package mergeinsertion

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrNilComparator is returned when a Sorter has no comparison function.
var ErrNilComparator = errors.New("mergeinsertion: nil comparator")

// Result holds a sorted copy of the input and the comparisons it cost.
type Result[T any] struct {
	Sorted      []T
	Comparisons int
}

// Sorter runs merge-insertion sorts with a fixed comparator and an optional
// observer. A Sorter holds no per-sort state and may be reused, including
// from several goroutines as long as the observer tolerates that.
type Sorter[T any] struct {
	cmp func(a, b T) (int, error)
	obs Observer[T]
}

// NewSorter returns a Sorter ordering elements with cmp, which returns a
// negative number when a < b, zero when a == b and a positive number when
// a > b. A panic raised by cmp propagates to the caller of Sort.
func NewSorter[T any](cmp func(a, b T) int) *Sorter[T] {
	if cmp == nil {
		return &Sorter[T]{}
	}
	return &Sorter[T]{cmp: infallible(cmp)}
}

// NewFallibleSorter returns a Sorter whose comparator may fail. The first
// error aborts the sort.
func NewFallibleSorter[T any](cmp func(a, b T) (int, error)) *Sorter[T] {
	return &Sorter[T]{cmp: cmp}
}

// WithObserver attaches o to the sorter and returns the sorter.
func (s *Sorter[T]) WithObserver(o Observer[T]) *Sorter[T] {
	s.obs = o
	return s
}

// Sort returns a sorted copy of data. data itself is not modified.
func (s *Sorter[T]) Sort(data []T) (Result[T], error) {
	return s.SortContext(context.Background(), data)
}

// SortContext is Sort with cooperative cancellation. ctx is checked before
// the main chain is sorted and between insertions of the outermost level;
// an insertion that has started always completes.
func (s *Sorter[T]) SortContext(ctx context.Context, data []T) (Result[T], error) {
	if s.cmp == nil {
		return Result[T]{}, ErrNilComparator
	}
	r := &run[T]{
		ctx:    ctx,
		values: data,
		cmp:    s.cmp,
		obs:    s.obs,
	}
	ids := make([]int, len(data))
	for i := range ids {
		ids[i] = i
	}

	sorted, err := r.sort(ids, 0)
	if err != nil {
		return Result[T]{Comparisons: r.comparisons}, err
	}

	out := r.snapshot(sorted)
	if r.obs != nil {
		r.emit(Event[T]{Kind: EventSortCompleted, Main: slices.Clone(out)})
	}
	return Result[T]{Sorted: out, Comparisons: r.comparisons}, nil
}

// Sort returns a sorted copy of data.
func Sort[T cmp.Ordered](data []T) []T {
	res, _ := NewSorter(cmp.Compare[T]).Sort(data)
	return res.Sorted
}

// SortFunc returns a copy of data sorted by cmp. It panics if cmp is nil.
func SortFunc[T any](data []T, cmp func(a, b T) int) []T {
	res, err := NewSorter(cmp).Sort(data)
	if err != nil {
		panic(err)
	}
	return res.Sorted
}

// Count returns a sorted copy of data and the number of comparisons spent.
func Count[T cmp.Ordered](data []T) ([]T, int) {
	res, _ := NewSorter(cmp.Compare[T]).Sort(data)
	return res.Sorted, res.Comparisons
}

// run is the state of one invocation. values is the arena: every chain
// holds indices into it.
type run[T any] struct {
	ctx         context.Context
	values      []T
	cmp         func(a, b T) (int, error)
	obs         Observer[T]
	comparisons int
}

func (r *run[T]) compare(a, b int) (int, error) {
	r.comparisons++
	c, err := r.cmp(r.values[a], r.values[b])
	if err != nil {
		return 0, fmt.Errorf("compare: %w", err)
	}
	return c, nil
}

func (r *run[T]) emit(e Event[T]) {
	e.Comparisons = r.comparisons
	r.obs.Observe(e)
}

func (r *run[T]) snapshot(ids []int) []T {
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = r.values[id]
	}
	return out
}

func (r *run[T]) pendSnapshot(pend []pendEntry) []T {
	out := make([]T, len(pend))
	for i, e := range pend {
		out[i] = r.values[e.id]
	}
	return out
}

// checkpoint reports cancellation. Only the outermost level is interruptible.
func (r *run[T]) checkpoint(depth int) error {
	if depth > 0 {
		return nil
	}
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("sort interrupted: %w", err)
	}
	return nil
}

// sort orders ids by the values they address and returns the sorted ids.
func (r *run[T]) sort(ids []int, depth int) ([]int, error) {
	if len(ids) <= 1 {
		return slices.Clone(ids), nil
	}

	// PAIRING
	pairs, straggler, err := r.pairUp(ids, depth)
	if err != nil {
		return nil, err
	}
	main, pend := separate(pairs, straggler)
	if r.obs != nil {
		e := Event[T]{
			Kind:  EventChainsSeparated,
			Depth: depth,
			Input: r.snapshot(ids),
			Pairs: make([]Pair[T], len(pairs)),
			Main:  r.snapshot(main),
			Pend:  r.pendSnapshot(pend),
		}
		for i, p := range pairs {
			e.Pairs[i] = Pair[T]{Min: r.values[p.min], Max: r.values[p.max]}
		}
		if straggler != noPartner {
			e.Straggler, e.HasStraggler = r.values[straggler], true
		}
		r.emit(e)
	}

	// RECURSING
	if err := r.checkpoint(depth); err != nil {
		return nil, err
	}
	if r.obs != nil {
		r.emit(Event[T]{Kind: EventRecursionEntered, Depth: depth, Main: r.snapshot(main)})
	}
	sortedMain, err := r.sort(main, depth+1)
	if err != nil {
		return nil, err
	}
	pend = reindexPend(sortedMain, pend)
	if r.obs != nil {
		r.emit(Event[T]{
			Kind:  EventRecursionExited,
			Depth: depth,
			Main:  r.snapshot(sortedMain),
			Pend:  r.pendSnapshot(pend),
		})
	}

	// INSERTING
	return r.insertPend(sortedMain, pend, depth)
}

// insertPend merges the pend chain into the sorted main chain: pend[0]
// first, then Jacobsthal blocks from their high index down to their low one.
func (r *run[T]) insertPend(chain []int, pend []pendEntry, depth int) ([]int, error) {
	chain = slices.Grow(chain, len(pend))
	inserted := make([]bool, len(pend))
	remaining := len(pend)

	insert := func(i int) error {
		if err := r.checkpoint(depth); err != nil {
			return err
		}
		e := pend[i]
		bound := len(chain)
		if e.partner != noPartner {
			bound = slices.Index(chain, e.partner)
		}
		var pos, used int
		var err error
		chain, pos, used, err = binaryInsert(chain, e.id, bound, r.compare)
		if err != nil {
			return err
		}
		inserted[i] = true
		remaining--
		if r.obs != nil {
			r.emit(Event[T]{
				Kind:      EventElementInserted,
				Depth:     depth,
				PendIndex: i,
				Value:     r.values[e.id],
				Position:  pos,
				Used:      used,
				Bounded:   e.partner != noPartner,
				Main:      r.snapshot(chain),
				Pend:      r.pendSnapshot(pend),
			})
		}
		return nil
	}

	if len(pend) > 0 {
		if err := insert(0); err != nil {
			return nil, err
		}
	}

	blocks := newBlockIterator(len(pend))
	for remaining > 0 {
		b, ok := blocks.next()
		if !ok {
			break
		}
		if r.obs != nil {
			r.emit(Event[T]{
				Kind:  EventBlockStarted,
				Depth: depth,
				Block: b,
				Main:  r.snapshot(chain),
				Pend:  r.pendSnapshot(pend),
			})
		}
		for i := b.High; i >= b.Low; i-- {
			if inserted[i] {
				continue
			}
			if err := insert(i); err != nil {
				return nil, err
			}
		}
	}
	return chain, nil
}
