package analysis

import (
	"cmp"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ChristianF88/fjsort/config"
	"github.com/ChristianF88/fjsort/mergeinsertion"
	"github.com/ChristianF88/fjsort/output"
)

// RunBench sorts cfg.Trials random permutations of every size in
// [cfg.MinSize, cfg.MaxSize] and reports the comparison counts per size.
// Sizes are spread over a pool of workers; every size draws from its own
// seeded source so the result does not depend on scheduling.
func RunBench(cfg *config.BenchConfig) (*output.JSONOutput, error) {
	benchStart := time.Now()
	jsonOutput := output.NewJSONOutput("bench", benchStart)

	if cfg == nil {
		jsonOutput.AddError("config_error", "bench configuration is nil", 1)
		return jsonOutput, fmt.Errorf("bench configuration is nil")
	}
	if err := cfg.Validate(); err != nil {
		jsonOutput.AddError("config_error", err.Error(), 1)
		return jsonOutput, fmt.Errorf("invalid bench configuration: %w", err)
	}

	sizes := cfg.MaxSize - cfg.MinSize + 1
	numWorkers := cfg.Workers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	if sizes < numWorkers {
		numWorkers = sizes
	}

	var wg sync.WaitGroup
	var rowsMutex sync.Mutex
	rows := make([]output.BenchRow, 0, sizes)

	workChan := make(chan int, sizes)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for n := range workChan {
				row := benchSize(n, cfg.Trials, cfg.Seed, jsonOutput)

				rowsMutex.Lock()
				rows = append(rows, row)
				rowsMutex.Unlock()
			}
		}()
	}

	for n := cfg.MinSize; n <= cfg.MaxSize; n++ {
		workChan <- n
	}
	close(workChan)

	wg.Wait()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].N < rows[j].N
	})

	allWithin := true
	for _, r := range rows {
		if !r.WithinBound {
			allWithin = false
		}
	}

	jsonOutput.Bench = &output.BenchResult{
		Parameters: output.BenchParameters{
			MinSize: cfg.MinSize,
			MaxSize: cfg.MaxSize,
			Trials:  cfg.Trials,
			Seed:    cfg.Seed,
			Workers: numWorkers,
		},
		Rows:           rows,
		TotalTrials:    sizes * cfg.Trials,
		AllWithinBound: allWithin,
	}
	jsonOutput.UpdateDuration(benchStart)
	return jsonOutput, nil
}

// benchSize runs all trials of one input size. A permutation of 0..n-1 is
// correctly sorted exactly when the i-th output equals i.
func benchSize(n, trials int, seed int64, jsonOutput *output.JSONOutput) output.BenchRow {
	rng := rand.New(rand.NewSource(seed + int64(n)))
	sorter := mergeinsertion.NewSorter(cmp.Compare[int])

	row := output.BenchRow{
		N:                n,
		Trials:           trials,
		Best:             -1,
		Optimal:          mergeinsertion.OptimalComparisons(n),
		InformationBound: mergeinsertion.InformationBound(n),
	}

	total := 0
	unsorted := 0
	for t := 0; t < trials; t++ {
		data := rng.Perm(n)
		res, err := sorter.Sort(data)
		if err != nil {
			jsonOutput.AddError("sort_error", fmt.Sprintf("n=%d: %v", n, err), 1)
			continue
		}
		for i, v := range res.Sorted {
			if v != i {
				unsorted++
				break
			}
		}
		total += res.Comparisons
		row.Worst = max(row.Worst, res.Comparisons)
		if row.Best < 0 || res.Comparisons < row.Best {
			row.Best = res.Comparisons
		}
	}
	if row.Best < 0 {
		row.Best = 0
	}
	row.Mean = float64(total) / float64(trials)
	row.WithinBound = row.Worst <= row.Optimal

	if unsorted > 0 {
		jsonOutput.AddError("unsorted_output", fmt.Sprintf("n=%d: %d trials produced unsorted output", n, unsorted), unsorted)
	}
	if !row.WithinBound {
		jsonOutput.AddError("bound_exceeded", fmt.Sprintf("n=%d: worst case %d exceeds F(n)=%d", n, row.Worst, row.Optimal), 1)
	}
	return row
}
