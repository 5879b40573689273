package sliding

import (
	"slices"
	"time"

	"github.com/alphadose/haxmap"
)

// --- Sliding Window over sort runs ---

// TimedRun is one finished sort: its input size and what it cost.
type TimedRun struct {
	Time        time.Time
	N           int
	Comparisons int
}

// RunStat aggregates the runs of one input size that are still in the
// window. Comparisons is kept in arrival order so the oldest can be dropped.
type RunStat struct {
	Last        time.Time
	Comparisons []int
	Total       int
	Count       int
}

// Summary is the read-only view of a RunStat.
type Summary struct {
	N     int
	Runs  int
	Worst int
	Best  int
	Mean  float64
	Last  time.Time
}

type SlidingWindow struct {
	RunQueue   []TimedRun
	RunStats   *haxmap.Map[uint32, RunStat] // keyed by input size
	timeLimit  time.Duration
	maxEntries int
}

func NewSlidingWindow(window time.Duration, maxEntries int) *SlidingWindow {
	return &SlidingWindow{
		RunQueue:   make([]TimedRun, 0),
		RunStats:   haxmap.New[uint32, RunStat](1 << 10),
		timeLimit:  window,
		maxEntries: maxEntries,
	}
}

func insertIntoHaxmap(m *haxmap.Map[uint32, RunStat], run TimedRun) {
	key := uint32(run.N)
	stat, exists := m.Get(key)
	if !exists {
		stat = RunStat{Comparisons: make([]int, 0, 4)}
	}
	stat.Comparisons = append(stat.Comparisons, run.Comparisons)
	stat.Total += run.Comparisons
	stat.Last = run.Time
	stat.Count++
	m.Set(key, stat)
}

func deleteFromHaxmap(m *haxmap.Map[uint32, RunStat], run TimedRun) {
	key := uint32(run.N)
	stat, exists := m.Get(key)
	if !exists {
		return
	}
	stat.Count--
	if stat.Count <= 0 {
		m.Del(key)
		return
	}
	if len(stat.Comparisons) > 0 {
		stat.Total -= stat.Comparisons[0]
		stat.Comparisons = stat.Comparisons[1:]
	}
	m.Set(key, stat)
}

func (s *SlidingWindow) InsertNew(runs []TimedRun) {
	s.RunQueue = append(s.RunQueue, runs...)
	for _, run := range runs {
		insertIntoHaxmap(s.RunStats, run)
	}
}

func (s *SlidingWindow) DropOld() {
	// enforce time limit
	cutoff := time.Now().Add(-s.timeLimit)
	idxTime := 0
	for idxTime < len(s.RunQueue) && s.RunQueue[idxTime].Time.Before(cutoff) {
		deleteFromHaxmap(s.RunStats, s.RunQueue[idxTime])
		idxTime++
	}
	// enforce max entries
	remainingLen := len(s.RunQueue) - idxTime
	if remainingLen > s.maxEntries {
		toDelete := remainingLen - s.maxEntries
		for idxLen := 0; idxLen < toDelete; idxLen++ {
			deleteFromHaxmap(s.RunStats, s.RunQueue[idxTime+idxLen])
		}
		idxTime += toDelete
	}

	if idxTime > 0 {
		s.RunQueue = append([]TimedRun(nil), s.RunQueue[idxTime:]...)
	}
}

func (s *SlidingWindow) Update(runs []TimedRun) {
	s.InsertNew(runs)
	s.DropOld()
}

// Len is the number of runs in the window.
func (s *SlidingWindow) Len() int {
	return len(s.RunQueue)
}

// Stats summarises the window per input size, smallest size first.
func (s *SlidingWindow) Stats() []Summary {
	out := make([]Summary, 0, int(s.RunStats.Len()))
	s.RunStats.ForEach(func(n uint32, stat RunStat) bool {
		if stat.Count == 0 || len(stat.Comparisons) == 0 {
			return true
		}
		out = append(out, Summary{
			N:     int(n),
			Runs:  stat.Count,
			Worst: slices.Max(stat.Comparisons),
			Best:  slices.Min(stat.Comparisons),
			Mean:  float64(stat.Total) / float64(stat.Count),
			Last:  stat.Last,
		})
		return true
	})
	slices.SortFunc(out, func(a, b Summary) int { return a.N - b.N })
	return out
}
