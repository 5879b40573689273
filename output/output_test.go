package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ChristianF88/fjsort/steps"
	"github.com/ChristianF88/fjsort/testutil"
)

func TestJSONOutput_ToJSON_RoundTrip(t *testing.T) {
	startTime := time.Now()
	out := NewJSONOutput("sort", startTime)

	out.Metadata.Version = "2.0.0"
	out.Input = &InputSummary{Source: "flag", Count: 4, Rejected: 1}

	pos := 0
	out.Sort = &SortResult{
		Input:              []float64{5, 3, 8, 1},
		Sorted:             []float64{1, 3, 5, 8},
		Comparisons:        5,
		OptimalComparisons: 5,
		InformationBound:   5,
		WithinBound:        true,
		Insertions: []InsertionStat{
			{Depth: 0, Block: 0, PendIndex: 0, Value: 3, Position: 0, Comparisons: 0, Limit: 0, Bounded: true},
			{Depth: 0, Block: 3, PendIndex: 1, Value: 1, Position: 0, Comparisons: 2, Limit: 2, Bounded: true},
		},
		Steps: []steps.Step[float64]{
			{Description: "Starting with unsorted array", Stage: steps.StageInitial, Array: []float64{5, 3, 8, 1}},
			{Description: "Insert", Stage: steps.StageInsertion, InsertPosition: &pos},
		},
	}

	out.AddWarning("rejected_input", "ignored token \"x\"", 1)

	data, err := out.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	var restored JSONOutput
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if restored.Metadata.AnalysisType != "sort" {
		t.Errorf("AnalysisType = %q, want %q", restored.Metadata.AnalysisType, "sort")
	}
	if restored.Metadata.Version != "2.0.0" {
		t.Errorf("Version = %q, want %q", restored.Metadata.Version, "2.0.0")
	}
	if restored.Input == nil || restored.Input.Count != 4 || restored.Input.Rejected != 1 {
		t.Errorf("Input = %+v, want count 4 rejected 1", restored.Input)
	}
	if restored.Sort == nil {
		t.Fatal("Sort section missing after round trip")
	}
	if restored.Sort.Comparisons != 5 || !restored.Sort.WithinBound {
		t.Errorf("Sort = %+v", restored.Sort)
	}
	if len(restored.Sort.Insertions) != 2 || restored.Sort.Insertions[1].Limit != 2 {
		t.Errorf("Insertions = %+v", restored.Sort.Insertions)
	}
	if len(restored.Sort.Steps) != 2 || restored.Sort.Steps[1].InsertPosition == nil {
		t.Fatalf("Steps = %+v", restored.Sort.Steps)
	}
	if restored.Sort.Steps[0].Stage != steps.StageInitial {
		t.Errorf("Steps[0].Stage = %q", restored.Sort.Steps[0].Stage)
	}
	if len(restored.Warnings) != 1 || restored.Warnings[0].Count != 1 {
		t.Errorf("Warnings = %+v", restored.Warnings)
	}

	compact, err := out.ToCompactJSON()
	if err != nil {
		t.Fatalf("ToCompactJSON() error: %v", err)
	}
	if bytes.Contains(compact, []byte("\n")) {
		t.Errorf("compact JSON contains newlines")
	}
	var restoredCompact JSONOutput
	if err := json.Unmarshal(compact, &restoredCompact); err != nil {
		t.Fatalf("Unmarshal compact error: %v", err)
	}
	if restoredCompact.Sort == nil || restoredCompact.Sort.Comparisons != 5 {
		t.Errorf("compact round-trip lost the sort section")
	}
}

func TestJSONOutput_EmptySectionsOmitted(t *testing.T) {
	out := NewJSONOutput("jacobsthal", time.Now())
	out.Jacobsthal = &JacobsthalResult{Sequence: []int{0, 1, 1, 3}}
	data, err := out.ToCompactJSON()
	if err != nil {
		t.Fatalf("ToCompactJSON() error: %v", err)
	}
	s := string(data)
	for _, absent := range []string{`"sort"`, `"bench"`, `"live_stats"`, `"input"`} {
		if strings.Contains(s, absent) {
			t.Errorf("expected %s to be omitted from %s", absent, s)
		}
	}
	for _, present := range []string{`"warnings":[]`, `"errors":[]`, `"sequence":[0,1,1,3]`} {
		if !strings.Contains(s, present) {
			t.Errorf("expected %s in %s", present, s)
		}
	}
}

func TestJSONOutput_AddWarning_Concurrent(t *testing.T) {
	out := NewJSONOutput("bench", time.Now())

	const goroutines = 10
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			out.AddWarning("concurrent", fmt.Sprintf("warning from goroutine %d", id), id)
		}(i)
	}
	wg.Wait()

	if len(out.Warnings) != goroutines {
		t.Errorf("len(Warnings) = %d, want %d", len(out.Warnings), goroutines)
	}

	seen := make(map[int]bool)
	for _, w := range out.Warnings {
		seen[w.Count] = true
	}
	for i := 0; i < goroutines; i++ {
		if !seen[i] {
			t.Errorf("missing warning from goroutine %d", i)
		}
	}
}

func TestJSONOutput_AddError_Concurrent(t *testing.T) {
	out := NewJSONOutput("bench", time.Now())
	if out.HasErrors() {
		t.Fatal("new output should not have errors")
	}

	const goroutines = 10
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			out.AddError("concurrent", fmt.Sprintf("error from goroutine %d", id), id)
		}(i)
	}
	wg.Wait()

	if len(out.Errors) != goroutines {
		t.Errorf("len(Errors) = %d, want %d", len(out.Errors), goroutines)
	}
	if !out.HasErrors() {
		t.Error("HasErrors() = false after adding errors")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{-12, "-12"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.input), func(t *testing.T) {
			got := FormatNumber(tt.input)
			if got != tt.want {
				t.Errorf("FormatNumber(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderBench(t *testing.T) {
	rows := []BenchRow{
		{N: 1, Trials: 1, Worst: 0, Mean: 0, Best: 0, Optimal: 0, InformationBound: 0, WithinBound: true},
		{N: 4, Trials: 24, Worst: 5, Mean: 4.67, Best: 4, Optimal: 5, InformationBound: 5, WithinBound: true},
	}
	var buf bytes.Buffer
	if err := RenderBench(rows, &buf); err != nil {
		t.Fatalf("RenderBench() error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Comparisons per input size", "worst", "F(n)"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in rendered chart", want)
		}
	}
}

func TestPlotInsertionsWritesFile(t *testing.T) {
	stats := []InsertionStat{
		{Depth: 0, PendIndex: 0, Value: 3, Comparisons: 0, Limit: 0},
		{Depth: 1, PendIndex: 0, Value: 5, Comparisons: 0, Limit: 0},
		{Depth: 0, Block: 3, PendIndex: 1, Value: 1, Comparisons: 2, Limit: 2},
	}
	path := testutil.TempFilePath(t, "insertions_*.html")
	defer os.Remove(path)
	if err := PlotInsertions(stats, path); err != nil {
		t.Fatalf("PlotInsertions() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "pend[1]=1") {
		t.Errorf("expected outermost insertion label in chart")
	}
	if strings.Contains(html, "pend[0]=5") {
		t.Errorf("nested insertion should not be plotted")
	}
}

func TestPlotBenchBadPath(t *testing.T) {
	err := PlotBench(nil, filepath.Join(t.TempDir(), "missing", "bench.html"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}

func BenchmarkFormatNumber(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		FormatNumber(1234567)
	}
}

func benchOutput() *JSONOutput {
	out := NewJSONOutput("bench", time.Now())
	rows := make([]BenchRow, 64)
	for i := range rows {
		rows[i] = BenchRow{N: i + 1, Trials: 50, Worst: 4 * i, Mean: 3.5 * float64(i), Best: 3 * i, Optimal: 4 * i, InformationBound: 4 * i, WithinBound: true}
	}
	out.Bench = &BenchResult{Rows: rows, TotalTrials: 64 * 50, AllWithinBound: true}
	return out
}

func BenchmarkToJSON(b *testing.B) {
	out := benchOutput()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		out.ToJSON()
	}
}

func BenchmarkToCompactJSON(b *testing.B) {
	out := benchOutput()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		out.ToCompactJSON()
	}
}

func BenchmarkAddWarning(b *testing.B) {
	out := NewJSONOutput("bench", time.Now())
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		out.AddWarning("bench", "benchmark warning", 1)
	}
}
