package analysis

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ChristianF88/fjsort/mergeinsertion"
	"github.com/ChristianF88/fjsort/output"
	"github.com/ChristianF88/fjsort/steps"
)

// SortOptions controls what SortNumbers records besides the result.
type SortOptions struct {
	Trace      bool // record narrated steps
	TraceDepth int  // deepest recursion level narrated in detail
}

// insertionCollector records the cost of every insertion together with the
// limit of the Jacobsthal block it belongs to.
type insertionCollector struct {
	block map[int]int // current block index per depth
	stats []output.InsertionStat
}

func newInsertionCollector() *insertionCollector {
	return &insertionCollector{block: make(map[int]int)}
}

func (c *insertionCollector) Observe(e mergeinsertion.Event[float64]) {
	switch e.Kind {
	case mergeinsertion.EventChainsSeparated:
		c.block[e.Depth] = 0
	case mergeinsertion.EventBlockStarted:
		c.block[e.Depth] = e.Block.Index
	case mergeinsertion.EventElementInserted:
		stat := output.InsertionStat{
			Depth:       e.Depth,
			PendIndex:   e.PendIndex,
			Value:       e.Value,
			Position:    e.Position,
			Comparisons: e.Used,
			Bounded:     e.Bounded,
		}
		// pend[0] is inserted before any block and is free
		if e.PendIndex > 0 {
			stat.Block = c.block[e.Depth]
			stat.Limit = stat.Block - 1
		}
		c.stats = append(c.stats, stat)
	}
}

// fanOut forwards every event to each observer in order.
func fanOut(observers ...mergeinsertion.Observer[float64]) mergeinsertion.Observer[float64] {
	return mergeinsertion.ObserverFunc[float64](func(e mergeinsertion.Event[float64]) {
		for _, o := range observers {
			o.Observe(e)
		}
	})
}

// SortNumbers sorts values with merge-insertion and reports the comparison
// count against F(n) and the information-theoretic bound.
func SortNumbers(ctx context.Context, values []float64, opts SortOptions) (*output.SortResult, error) {
	collector := newInsertionCollector()
	observers := []mergeinsertion.Observer[float64]{collector}

	var recorder *steps.Recorder[float64]
	if opts.Trace {
		recorder = steps.NewRecorder[float64](opts.TraceDepth)
		observers = append(observers, recorder)
	}

	sorter := mergeinsertion.NewSorter(cmp.Compare[float64]).WithObserver(fanOut(observers...))

	sortStart := time.Now()
	res, err := sorter.SortContext(ctx, values)
	if err != nil {
		return nil, fmt.Errorf("sorting %d numbers: %w", len(values), err)
	}
	duration := time.Since(sortStart)

	n := len(values)
	result := &output.SortResult{
		Input:              slices.Clone(values),
		Sorted:             res.Sorted,
		Comparisons:        res.Comparisons,
		OptimalComparisons: mergeinsertion.OptimalComparisons(n),
		InformationBound:   mergeinsertion.InformationBound(n),
		DurationUS:         duration.Microseconds(),
		Insertions:         collector.stats,
	}
	result.WithinBound = result.Comparisons <= result.OptimalComparisons
	if recorder != nil {
		result.Steps = recorder.Steps()
	}
	return result, nil
}
