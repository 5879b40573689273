package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/ChristianF88/fjsort/analysis"
	"github.com/ChristianF88/fjsort/ingestor"
	"github.com/ChristianF88/fjsort/testutil"
)

// BenchmarkEndToEnd measures a file of numbers going through parsing and
// sorting, plain and with step recording, and split into live-mode jobs.
func BenchmarkEndToEnd(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		path := testutil.GenerateNumberFile(b, size)

		b.Run(fmt.Sprintf("Sort_%d_Lines", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				values, _, err := ingestor.ParseNumberFile(path)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := analysis.SortNumbers(context.Background(), values, analysis.SortOptions{}); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("SortTraced_%d_Lines", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				values, _, err := ingestor.ParseNumberFile(path)
				if err != nil {
					b.Fatal(err)
				}
				opts := analysis.SortOptions{Trace: true, TraceDepth: 1}
				if _, err := analysis.SortNumbers(context.Background(), values, opts); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("LiveJobs_%d_Lines", size), func(b *testing.B) {
			values, _, err := ingestor.ParseNumberFile(path)
			if err != nil {
				b.Fatal(err)
			}
			// jobs of 32 numbers, as a lumberjack client would ship them
			var jobs []ingestor.Job
			for start := 0; start < len(values); start += 32 {
				jobs = append(jobs, ingestor.Job{Values: values[start:min(start+32, len(values))]})
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				result := analysis.SortBatch(context.Background(), jobs, 0)
				if len(result.Failed) > 0 {
					b.Fatal(result.Failed[0])
				}
			}
		})
	}
}
