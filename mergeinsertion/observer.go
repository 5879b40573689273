package mergeinsertion

// EventKind identifies the point of the algorithm an Event was emitted from.
type EventKind uint8

const (
	EventPairFormed EventKind = iota
	EventChainsSeparated
	EventRecursionEntered
	EventRecursionExited
	EventBlockStarted
	EventElementInserted
	EventSortCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventPairFormed:
		return "pair-formed"
	case EventChainsSeparated:
		return "chains-separated"
	case EventRecursionEntered:
		return "recursion-entered"
	case EventRecursionExited:
		return "recursion-exited"
	case EventBlockStarted:
		return "block-started"
	case EventElementInserted:
		return "element-inserted"
	case EventSortCompleted:
		return "sort-completed"
	default:
		return "unknown"
	}
}

// Pair is two adjacent input elements ordered so that Min <= Max.
type Pair[T any] struct {
	Min T
	Max T
}

// Block describes one Jacobsthal insertion block. Pend indices High down to
// Low (inclusive) are inserted while the block is active.
type Block struct {
	Index    int // k
	Current  int // J(k)
	Previous int // J(k-1)
	High     int
	Low      int
}

// Event is a snapshot of the sort at a well defined point. Which fields are
// populated depends on Kind:
//
//   - EventPairFormed: Pair, PairIndex
//   - EventChainsSeparated: Input, Pairs, Straggler/HasStraggler, Main, Pend
//   - EventRecursionEntered: Main (the chain about to be sorted)
//   - EventRecursionExited: Main (sorted), Pend (re-indexed by partner)
//   - EventBlockStarted: Block, Main, Pend
//   - EventElementInserted: PendIndex, Value, Position, Used, Bounded, Main, Pend
//   - EventSortCompleted: Main (the sorted output)
//
// Depth is 0 for the outermost call. Comparisons is the running total for
// the whole invocation at the moment the event is emitted.
type Event[T any] struct {
	Kind        EventKind
	Depth       int
	Comparisons int

	Input        []T
	Pair         Pair[T]
	PairIndex    int
	Pairs        []Pair[T]
	Straggler    T
	HasStraggler bool
	Main         []T
	Pend         []T

	Block Block

	PendIndex int
	Value     T
	Position  int
	Used      int
	Bounded   bool
}

// Observer receives events from a running sort. Observers cannot influence
// the sort; slices in an Event are copies owned by the observer.
type Observer[T any] interface {
	Observe(Event[T])
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc[T any] func(Event[T])

func (f ObserverFunc[T]) Observe(e Event[T]) { f(e) }
