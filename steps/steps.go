package steps

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ChristianF88/fjsort/mergeinsertion"
)

// Stage names the phase a Step narrates.
type Stage string

const (
	StageInitial        Stage = "initial"
	StagePairing        Stage = "pairing"
	StageSeparation     Stage = "separation"
	StageRecursiveStart Stage = "recursive-start"
	StageRecursiveDone  Stage = "recursive-done"
	StageInsertionStart Stage = "insertion-start"
	StageJacobsthalInfo Stage = "jacobsthal-info"
	StageInsertion      Stage = "insertion"
	StageComplete       Stage = "complete"
)

// JacobsthalInfo describes the insertion block a jacobsthal-info step opens.
type JacobsthalInfo struct {
	Index    int `json:"index"`
	Current  int `json:"current"`
	Previous int `json:"previous"`
	High     int `json:"high"`
	Low      int `json:"low"`
}

// Step is one narrated frame of a sort.
type Step[T any] struct {
	Description        string          `json:"description"`
	Stage              Stage           `json:"stage"`
	Depth              int             `json:"depth"`
	Array              []T             `json:"array"`
	Pairs              [][2]T          `json:"pairs,omitempty"`
	Extra              *T              `json:"extra,omitempty"`
	MainChain          []T             `json:"main_chain"`
	PendChain          []T             `json:"pend_chain"`
	Highlight          []int           `json:"highlight,omitempty"`
	Inserted           []bool          `json:"inserted,omitempty"`
	InsertPosition     *int            `json:"insert_position,omitempty"`
	InsertValue        *T              `json:"insert_value,omitempty"`
	Comparisons        int             `json:"comparisons"`
	Jacobsthal         *JacobsthalInfo `json:"jacobsthal,omitempty"`
	Sorted             bool            `json:"sorted,omitempty"`
	JacobsthalSequence []int           `json:"jacobsthal_sequence,omitempty"`
}

// level is the narration state of one recursion depth.
type level[T any] struct {
	array      []T
	pend       []T
	mainBefore []T
	inserted   []bool
	sequence   []int
}

// Recorder is a mergeinsertion.Observer that turns sort events into Steps.
// Levels deeper than MaxDepth are not narrated; their cost still shows up
// in the running comparison counts.
type Recorder[T any] struct {
	MaxDepth int

	steps  []Step[T]
	levels map[int]*level[T]
}

// NewRecorder returns a Recorder narrating recursion depths 0..maxDepth.
func NewRecorder[T any](maxDepth int) *Recorder[T] {
	return &Recorder[T]{
		MaxDepth: maxDepth,
		levels:   make(map[int]*level[T]),
	}
}

// Steps returns the frames recorded so far.
func (r *Recorder[T]) Steps() []Step[T] {
	return r.steps
}

// Observe implements mergeinsertion.Observer.
func (r *Recorder[T]) Observe(e mergeinsertion.Event[T]) {
	if e.Depth > r.MaxDepth {
		return
	}
	switch e.Kind {
	case mergeinsertion.EventChainsSeparated:
		r.separated(e)
	case mergeinsertion.EventRecursionEntered:
		lv := r.level(e.Depth)
		lv.mainBefore = slices.Clone(e.Main)
		r.add(e.Depth, Step[T]{
			Description: "Now recursively sorting the Main Chain using the same algorithm...",
			Stage:       StageRecursiveStart,
			Array:       lv.array,
			MainChain:   e.Main,
			PendChain:   lv.pend,
			Comparisons: e.Comparisons,
		})
	case mergeinsertion.EventRecursionExited:
		r.recursionDone(e)
	case mergeinsertion.EventBlockStarted:
		lv := r.level(e.Depth)
		b := e.Block
		lv.sequence = append(lv.sequence, b.Current)
		r.add(e.Depth, Step[T]{
			Description: fmt.Sprintf("Using Jacobsthal J(%d) = %d. Inserting from index %d down to %d", b.Index, b.Current, b.High, b.Low),
			Stage:       StageJacobsthalInfo,
			Array:       lv.array,
			MainChain:   e.Main,
			PendChain:   e.Pend,
			Inserted:    slices.Clone(lv.inserted),
			Comparisons: e.Comparisons,
			Jacobsthal: &JacobsthalInfo{
				Index:    b.Index,
				Current:  b.Current,
				Previous: b.Previous,
				High:     b.High,
				Low:      b.Low,
			},
		})
	case mergeinsertion.EventElementInserted:
		r.inserted(e)
	case mergeinsertion.EventSortCompleted:
		r.completed(e)
	}
}

func (r *Recorder[T]) level(depth int) *level[T] {
	lv, ok := r.levels[depth]
	if !ok {
		lv = &level[T]{}
		r.levels[depth] = lv
	}
	return lv
}

func (r *Recorder[T]) add(depth int, s Step[T]) {
	s.Depth = depth
	if depth > 0 {
		s.Description = fmt.Sprintf("[depth %d] %s", depth, s.Description)
	}
	r.steps = append(r.steps, s)
}

func (r *Recorder[T]) separated(e mergeinsertion.Event[T]) {
	lv := &level[T]{
		array:    e.Input,
		pend:     e.Pend,
		inserted: make([]bool, len(e.Pend)),
	}
	r.levels[e.Depth] = lv
	pairs := make([][2]T, len(e.Pairs))
	for i, p := range e.Pairs {
		pairs[i] = [2]T{p.Min, p.Max}
	}

	if e.Depth == 0 {
		r.add(0, Step[T]{
			Description: "Starting with unsorted array",
			Stage:       StageInitial,
			Array:       e.Input,
		})
	}

	pairing := Step[T]{
		Description: fmt.Sprintf("Created %d pairs. Each pair ordered as (min, max). Used %d comparisons.", len(pairs), len(pairs)),
		Stage:       StagePairing,
		Array:       e.Input,
		Pairs:       pairs,
		Comparisons: e.Comparisons,
	}
	if e.HasStraggler {
		extra := e.Straggler
		pairing.Extra = &extra
	}
	r.add(e.Depth, pairing)

	r.add(e.Depth, Step[T]{
		Description: fmt.Sprintf("Separated into Main Chain (%d larger elements) and Pend Chain (%d smaller elements)", len(e.Main), len(e.Pend)),
		Stage:       StageSeparation,
		Array:       e.Input,
		Pairs:       pairs,
		MainChain:   e.Main,
		PendChain:   e.Pend,
		Comparisons: e.Comparisons,
	})
}

func (r *Recorder[T]) recursionDone(e mergeinsertion.Event[T]) {
	lv := r.level(e.Depth)
	desc := fmt.Sprintf("Main Chain sorted: %s → %s", join(lv.mainBefore), join(e.Main))
	if len(e.Pend) > 1 {
		desc += fmt.Sprintf(". Pend Chain follows its partners: %s", join(e.Pend))
	}
	lv.pend = e.Pend
	lv.inserted = make([]bool, len(e.Pend))

	r.add(e.Depth, Step[T]{
		Description: desc,
		Stage:       StageRecursiveDone,
		Array:       lv.array,
		MainChain:   e.Main,
		PendChain:   e.Pend,
		Comparisons: e.Comparisons,
	})
	r.add(e.Depth, Step[T]{
		Description: "Starting insertion phase using Jacobsthal sequence to minimize comparisons",
		Stage:       StageInsertionStart,
		Array:       lv.array,
		MainChain:   e.Main,
		PendChain:   e.Pend,
		Inserted:    slices.Clone(lv.inserted),
		Comparisons: e.Comparisons,
	})
}

func (r *Recorder[T]) inserted(e mergeinsertion.Event[T]) {
	lv := r.level(e.Depth)
	if e.PendIndex < len(lv.inserted) {
		lv.inserted[e.PendIndex] = true
	}
	pos, value := e.Position, e.Value

	var desc string
	switch {
	case e.PendIndex == 0:
		desc = fmt.Sprintf("Insert pend[0]=%v at position %d. Used %d binary search comparisons.", value, pos, e.Used)
	case !e.Bounded:
		desc = fmt.Sprintf("Insert unpaired pend[%d]=%v at position %d, searching the whole main chain. Binary search used %d comparisons.", e.PendIndex, value, pos, e.Used)
	default:
		desc = fmt.Sprintf("Insert pend[%d]=%v at position %d in main chain. Binary search used %d comparisons.", e.PendIndex, value, pos, e.Used)
	}

	r.add(e.Depth, Step[T]{
		Description:    desc,
		Stage:          StageInsertion,
		Array:          lv.array,
		MainChain:      e.Main,
		PendChain:      e.Pend,
		Highlight:      []int{e.PendIndex},
		Inserted:       slices.Clone(lv.inserted),
		InsertPosition: &pos,
		InsertValue:    &value,
		Comparisons:    e.Comparisons,
	})
}

func (r *Recorder[T]) completed(e mergeinsertion.Event[T]) {
	if len(r.steps) == 0 {
		r.add(0, Step[T]{
			Description: "Starting with unsorted array",
			Stage:       StageInitial,
			Array:       e.Main,
		})
	}
	seq := r.level(0).sequence
	desc := fmt.Sprintf("✓ Sorting complete! Total comparisons: %d.", e.Comparisons)
	if len(seq) > 0 {
		desc += fmt.Sprintf(" Jacobsthal sequence used: %s", join(seq))
	}
	r.add(0, Step[T]{
		Description:        desc,
		Stage:              StageComplete,
		Array:              e.Main,
		MainChain:          e.Main,
		Comparisons:        e.Comparisons,
		Sorted:             true,
		JacobsthalSequence: seq,
	})
}

func join[T any](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
