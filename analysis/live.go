package analysis

import (
	"cmp"
	"context"
	"runtime"
	"sync"

	"github.com/ChristianF88/fjsort/ingestor"
	"github.com/ChristianF88/fjsort/mergeinsertion"
	"github.com/ChristianF88/fjsort/sliding"
)

// BatchResult is the outcome of sorting one batch of live jobs.
type BatchResult struct {
	Runs        []sliding.TimedRun
	Comparisons int
	Rejected    int
	Failed      []error
}

// SortBatch sorts every job of a batch on a pool of workers. Runs are
// returned in job order. A job whose sort fails is reported in Failed and
// has no run.
func SortBatch(ctx context.Context, jobs []ingestor.Job, workers int) BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(jobs) < workers {
		workers = len(jobs)
	}

	type jobResult struct {
		run sliding.TimedRun
		err error
	}
	results := make([]jobResult, len(jobs))

	var wg sync.WaitGroup
	workChan := make(chan int, len(jobs))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sorter := mergeinsertion.NewSorter(cmp.Compare[float64])
			for idx := range workChan {
				job := jobs[idx]
				res, err := sorter.SortContext(ctx, job.Values)
				results[idx] = jobResult{
					run: sliding.TimedRun{
						Time:        job.Received,
						N:           len(job.Values),
						Comparisons: res.Comparisons,
					},
					err: err,
				}
			}
		}()
	}
	for i := range jobs {
		workChan <- i
	}
	close(workChan)
	wg.Wait()

	var out BatchResult
	for i, r := range results {
		out.Rejected += len(jobs[i].Rejected)
		if r.err != nil {
			out.Failed = append(out.Failed, r.err)
			continue
		}
		out.Runs = append(out.Runs, r.run)
		out.Comparisons += r.run.Comparisons
	}
	return out
}
