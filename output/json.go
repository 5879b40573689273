package output

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ChristianF88/fjsort/steps"
	"github.com/ChristianF88/fjsort/version"
)

// JSONOutput is the document every command prints.
type JSONOutput struct {
	Metadata   Metadata          `json:"metadata"`
	Input      *InputSummary     `json:"input,omitempty"`
	Sort       *SortResult       `json:"sort,omitempty"`
	Bench      *BenchResult      `json:"bench,omitempty"`
	Jacobsthal *JacobsthalResult `json:"jacobsthal,omitempty"`
	LiveStats  *LiveStats        `json:"live_stats,omitempty"`
	Warnings   []Warning         `json:"warnings"`
	Errors     []Error           `json:"errors"`

	// Mutex for thread-safe warning/error appending
	mu sync.Mutex `json:"-"`
}

// Metadata contains information about the run
type Metadata struct {
	GeneratedAt  time.Time `json:"generated_at"`
	AnalysisType string    `json:"analysis_type"`
	Version      string    `json:"version"`
	DurationMS   int64     `json:"duration_ms"`
}

// InputSummary describes where the numbers came from
type InputSummary struct {
	Source   string `json:"source"`
	Count    int    `json:"count"`
	Rejected int    `json:"rejected,omitempty"`
}

// SortResult is the outcome of sorting one list
type SortResult struct {
	Input              []float64             `json:"input"`
	Sorted             []float64             `json:"sorted"`
	Comparisons        int                   `json:"comparisons"`
	OptimalComparisons int                   `json:"optimal_comparisons"`
	InformationBound   int                   `json:"information_bound"`
	WithinBound        bool                  `json:"within_bound"`
	DurationUS         int64                 `json:"duration_us"`
	Insertions         []InsertionStat       `json:"insertions,omitempty"`
	Steps              []steps.Step[float64] `json:"steps,omitempty"`
}

// InsertionStat is one binary insertion of a pend element. Limit is the
// most comparisons the insertion may cost in its Jacobsthal block.
type InsertionStat struct {
	Depth       int     `json:"depth"`
	Block       int     `json:"block"`
	PendIndex   int     `json:"pend_index"`
	Value       float64 `json:"value"`
	Position    int     `json:"position"`
	Comparisons int     `json:"comparisons"`
	Limit       int     `json:"limit"`
	Bounded     bool    `json:"bounded"`
}

// BenchResult holds the comparison counts measured per input size
type BenchResult struct {
	Parameters     BenchParameters `json:"parameters"`
	Rows           []BenchRow      `json:"rows"`
	TotalTrials    int             `json:"total_trials"`
	AllWithinBound bool            `json:"all_within_bound"`
}

// BenchParameters echoes the benchmark configuration
type BenchParameters struct {
	MinSize int   `json:"min_size"`
	MaxSize int   `json:"max_size"`
	Trials  int   `json:"trials"`
	Seed    int64 `json:"seed"`
	Workers int   `json:"workers"`
}

// BenchRow summarises all trials of one input size
type BenchRow struct {
	N                int     `json:"n"`
	Trials           int     `json:"trials"`
	Worst            int     `json:"worst"`
	Mean             float64 `json:"mean"`
	Best             int     `json:"best"`
	Optimal          int     `json:"optimal"`
	InformationBound int     `json:"information_bound"`
	WithinBound      bool    `json:"within_bound"`
}

// JacobsthalResult lists the sequence and the insertion order it induces
type JacobsthalResult struct {
	Sequence   []int             `json:"sequence"`
	PendLength int               `json:"pend_length,omitempty"`
	Blocks     []JacobsthalBlock `json:"blocks,omitempty"`
	Order      []int             `json:"order,omitempty"`
}

// JacobsthalBlock is one group of pend indices inserted together
type JacobsthalBlock struct {
	Index    int `json:"index"`
	Current  int `json:"current"`
	Previous int `json:"previous"`
	High     int `json:"high"`
	Low      int `json:"low"`
	MaxCost  int `json:"max_comparisons"`
}

// Warning represents a warning message
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Error represents an error message
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// NewJSONOutput creates a new JSONOutput with default metadata
func NewJSONOutput(analysisType string, startTime time.Time) *JSONOutput {
	return &JSONOutput{
		Metadata: Metadata{
			GeneratedAt:  time.Now().UTC(),
			AnalysisType: analysisType,
			Version:      version.Version,
			DurationMS:   time.Since(startTime).Milliseconds(),
		},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// ToJSON converts the output to pretty-printed JSON
func (j *JSONOutput) ToJSON() ([]byte, error) {
	return json.MarshalIndent(j, "", "  ")
}

// ToCompactJSON converts the output to compact JSON
func (j *JSONOutput) ToCompactJSON() ([]byte, error) {
	return json.Marshal(j)
}

// AddWarning adds a warning to the output (thread-safe)
func (j *JSONOutput) AddWarning(warningType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Warnings = append(j.Warnings, Warning{
		Type:    warningType,
		Message: message,
		Count:   count,
	})
}

// AddError adds an error to the output (thread-safe)
func (j *JSONOutput) AddError(errorType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, Error{
		Type:    errorType,
		Message: message,
		Count:   count,
	})
}

// HasErrors reports whether any error was recorded (thread-safe)
func (j *JSONOutput) HasErrors() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.Errors) > 0
}

// LiveStats contains statistics for live mode
type LiveStats struct {
	ProcessedBatch int           `json:"processed_batch"`
	SortedJobs     int           `json:"sorted_jobs"`
	Comparisons    int           `json:"comparisons"`
	RejectedTokens int           `json:"rejected_tokens"`
	LoopDuration   int64         `json:"loop_duration_ms"`
	SortDuration   int64         `json:"sort_duration_us"`
	Windows        []WindowStats `json:"windows"`
}

// WindowStats is the content of one sliding window
type WindowStats struct {
	Name  string     `json:"name"`
	Size  int        `json:"size"`
	Sizes []SizeStat `json:"sizes"`
}

// SizeStat aggregates the sorts of one input size inside a window
type SizeStat struct {
	N           int       `json:"n"`
	Runs        int       `json:"runs"`
	Worst       int       `json:"worst"`
	Best        int       `json:"best"`
	Mean        float64   `json:"mean"`
	Optimal     int       `json:"optimal"`
	WithinBound bool      `json:"within_bound"`
	LastSeen    time.Time `json:"last_seen"`
}

// UpdateDuration updates the duration in metadata
func (j *JSONOutput) UpdateDuration(startTime time.Time) {
	j.Metadata.DurationMS = time.Since(startTime).Milliseconds()
}
