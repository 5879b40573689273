package mergeinsertion

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"
)

type eventLog struct {
	events []Event[int]
}

func (l *eventLog) Observe(e Event[int]) {
	l.events = append(l.events, e)
}

func (l *eventLog) atDepth(depth int) []Event[int] {
	var out []Event[int]
	for _, e := range l.events {
		if e.Depth == depth {
			out = append(out, e)
		}
	}
	return out
}

func TestObserverScenarioEvents(t *testing.T) {
	log := &eventLog{}
	res, err := NewSorter(cmp.Compare[int]).WithObserver(log).Sort([]int{5, 3, 8, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := []EventKind{}
	for _, e := range log.atDepth(0) {
		kinds = append(kinds, e.Kind)
	}
	expected := []EventKind{
		EventPairFormed,
		EventPairFormed,
		EventChainsSeparated,
		EventRecursionEntered,
		EventRecursionExited,
		EventElementInserted,
		EventBlockStarted,
		EventElementInserted,
		EventSortCompleted,
	}
	if !slices.Equal(kinds, expected) {
		t.Fatalf("expected kinds %v, got %v", expected, kinds)
	}

	top := log.atDepth(0)
	if p := top[0].Pair; p.Min != 3 || p.Max != 5 {
		t.Errorf("expected first pair (3,5), got (%d,%d)", p.Min, p.Max)
	}
	if p := top[1].Pair; p.Min != 1 || p.Max != 8 {
		t.Errorf("expected second pair (1,8), got (%d,%d)", p.Min, p.Max)
	}

	sep := top[2]
	if !slices.Equal(sep.Main, []int{5, 8}) || !slices.Equal(sep.Pend, []int{3, 1}) {
		t.Errorf("expected main [5 8] pend [3 1], got main %v pend %v", sep.Main, sep.Pend)
	}
	if sep.HasStraggler {
		t.Errorf("expected no straggler")
	}

	first := top[5]
	if first.PendIndex != 0 || first.Value != 3 || first.Position != 0 || first.Used != 0 {
		t.Errorf("unexpected first insertion %+v", first)
	}
	if !slices.Equal(first.Main, []int{3, 5, 8}) {
		t.Errorf("expected main [3 5 8], got %v", first.Main)
	}

	block := top[6].Block
	if block.Index != 3 || block.Current != 3 || block.Previous != 1 || block.High != 1 || block.Low != 1 {
		t.Errorf("unexpected block %+v", block)
	}

	second := top[7]
	if second.PendIndex != 1 || second.Value != 1 || second.Position != 0 || second.Used != 2 {
		t.Errorf("unexpected second insertion %+v", second)
	}
	if !slices.Equal(second.Main, []int{1, 3, 5, 8}) {
		t.Errorf("expected main [1 3 5 8], got %v", second.Main)
	}

	done := top[8]
	if !slices.Equal(done.Main, res.Sorted) || done.Comparisons != res.Comparisons {
		t.Errorf("completion event %v/%d does not match result %v/%d", done.Main, done.Comparisons, res.Sorted, res.Comparisons)
	}
}

func TestObserverStragglerIsUnbounded(t *testing.T) {
	log := &eventLog{}
	if _, err := NewSorter(cmp.Compare[int]).WithObserver(log).Sort([]int{7, 2, 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var inserts []Event[int]
	for _, e := range log.atDepth(0) {
		if e.Kind == EventChainsSeparated {
			if !e.HasStraggler || e.Straggler != 9 {
				t.Errorf("expected straggler 9, got %d (%v)", e.Straggler, e.HasStraggler)
			}
		}
		if e.Kind == EventElementInserted {
			inserts = append(inserts, e)
		}
	}
	if len(inserts) != 2 {
		t.Fatalf("expected 2 insertions, got %d", len(inserts))
	}
	if !inserts[0].Bounded || inserts[1].Bounded {
		t.Errorf("expected pend[0] bounded and straggler unbounded, got %v %v", inserts[0].Bounded, inserts[1].Bounded)
	}
	if inserts[1].Value != 9 || inserts[1].Position != 2 {
		t.Errorf("expected 9 at position 2, got %d at %d", inserts[1].Value, inserts[1].Position)
	}
}

func TestObserverDoesNotChangeResult(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(60)
		data := make([]int, n)
		for i := range data {
			data[i] = rng.Intn(40)
		}
		plain, err := NewSorter(cmp.Compare[int]).Sort(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		observed, err := NewSorter(cmp.Compare[int]).WithObserver(&eventLog{}).Sort(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(plain.Sorted, observed.Sorted) || plain.Comparisons != observed.Comparisons {
			t.Fatalf("observer changed the result for %v", data)
		}
	}
}

func TestObserverRecursionDepthsNest(t *testing.T) {
	log := &eventLog{}
	if _, err := NewSorter(cmp.Compare[int]).WithObserver(log).Sort([]int{8, 7, 6, 5, 4, 3, 2, 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	open := 0
	maxDepth := 0
	for _, e := range log.events {
		switch e.Kind {
		case EventRecursionEntered:
			open++
		case EventRecursionExited:
			open--
		}
		if e.Depth > maxDepth {
			maxDepth = e.Depth
		}
		if open < 0 {
			t.Fatalf("recursion exited more often than entered")
		}
	}
	if open != 0 {
		t.Errorf("unbalanced recursion events: %d still open", open)
	}
	// 8 -> 4 -> 2 -> 1
	if maxDepth != 2 {
		t.Errorf("expected deepest narrated level 2, got %d", maxDepth)
	}
}

func TestEventKindString(t *testing.T) {
	if EventElementInserted.String() != "element-inserted" {
		t.Errorf("unexpected name %q", EventElementInserted.String())
	}
	if EventKind(200).String() != "unknown" {
		t.Errorf("unexpected name for unknown kind")
	}
}
