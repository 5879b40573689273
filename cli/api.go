package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ChristianF88/fjsort/analysis"
	"github.com/ChristianF88/fjsort/config"
	"github.com/ChristianF88/fjsort/ingestor"
	"github.com/ChristianF88/fjsort/mergeinsertion"
	"github.com/ChristianF88/fjsort/output"
	"github.com/ChristianF88/fjsort/sliding"
	"github.com/ChristianF88/fjsort/tui"
)

// ============================================================================
// PUBLIC API - Entry points for the commands
// ============================================================================

// OutputConfig holds output formatting options
type OutputConfig struct {
	Compact bool
	Plain   bool
	TUI     bool
}

// Sort sorts numbers given on the command line or in a file
func Sort(input, inputFile string, trace bool, traceDepth int, plotPath string, outputConfig OutputConfig) error {
	cfg := createSortConfigFromCLI(input, inputFile, trace, traceDepth, plotPath)
	return executeSort(cfg, outputConfig)
}

// SortFromConfig sorts the numbers named by the [sort] section
func SortFromConfig(cfg *config.Config, outputConfig OutputConfig) error {
	return executeSort(cfg, outputConfig)
}

// Bench runs the comparison benchmark
func Bench(benchCfg *config.BenchConfig, outputConfig OutputConfig) {
	result, err := analysis.RunBench(benchCfg)
	if err != nil {
		outputResult(result, outputConfig) // Output with errors
		return
	}

	if benchCfg.PlotPath != "" {
		plotStart := time.Now()
		if err := output.PlotBench(result.Bench.Rows, benchCfg.PlotPath); err != nil {
			result.AddError("plot_error", err.Error(), 1)
		} else {
			result.AddWarning("info", fmt.Sprintf("Chart generated in %v at %s", time.Since(plotStart), benchCfg.PlotPath), 0)
		}
	}

	outputResult(result, outputConfig)
}

// Jacobsthal prints the sequence and the insertion blocks for a pend chain
func Jacobsthal(count, pendLen int, outputConfig OutputConfig) {
	start := time.Now()
	jsonOutput := output.NewJSONOutput("jacobsthal", start)
	jsonOutput.Jacobsthal = analysis.JacobsthalTable(count, pendLen)
	jsonOutput.UpdateDuration(start)
	outputResult(jsonOutput, outputConfig)
}

// LiveFromConfig runs live mode until the ingestor is closed
func LiveFromConfig(cfg *config.Config, outputConfig OutputConfig) {
	executeLive(cfg, outputConfig)
}

// ============================================================================
// SORT
// ============================================================================

func createSortConfigFromCLI(input, inputFile string, trace bool, traceDepth int, plotPath string) *config.Config {
	return &config.Config{
		Global: &config.GlobalConfig{},
		Sort: &config.SortConfig{
			Input:      input,
			InputFile:  inputFile,
			Trace:      trace,
			TraceDepth: traceDepth,
			PlotPath:   plotPath,
		},
		Windows: make(map[string]*config.WindowConfig),
	}
}

// loadNumbers reads the numbers a sort config points at and says where they
// came from.
func loadNumbers(sc *config.SortConfig) ([]float64, []string, string, error) {
	if sc.InputFile != "" {
		values, rejected, err := ingestor.ParseNumberFile(sc.InputFile)
		return values, rejected, sc.InputFile, err
	}
	values, rejected := ingestor.ParseNumbers(sc.Input)
	return values, rejected, "argument", nil
}

func executeSort(cfg *config.Config, outputConfig OutputConfig) error {
	sortStart := time.Now()
	jsonOutput := output.NewJSONOutput("sort", sortStart)

	values, rejected, source, err := loadNumbers(cfg.Sort)
	if err != nil {
		return fmt.Errorf("loading numbers: %w", err)
	}

	if outputConfig.TUI {
		return executeTUI(values, cfg.Sort.TraceDepth)
	}

	jsonOutput.Input = &output.InputSummary{
		Source:   source,
		Count:    len(values),
		Rejected: len(rejected),
	}
	if len(rejected) > 0 {
		jsonOutput.AddWarning("rejected_tokens", fmt.Sprintf("ignored tokens that are not numbers: %s", summarizeTokens(rejected, 5)), len(rejected))
	}
	if len(values) == 0 {
		jsonOutput.AddWarning("empty_input", "no numbers to sort", 0)
	}

	result, err := analysis.SortNumbers(context.Background(), values, analysis.SortOptions{
		Trace:      cfg.Sort.Trace,
		TraceDepth: cfg.Sort.TraceDepth,
	})
	if err != nil {
		jsonOutput.AddError("sort_error", err.Error(), 1)
		outputResult(jsonOutput, outputConfig)
		return nil
	}
	jsonOutput.Sort = result
	if !result.WithinBound {
		jsonOutput.AddError("bound_exceeded", fmt.Sprintf("%d comparisons exceed F(%d)=%d", result.Comparisons, len(values), result.OptimalComparisons), 1)
	}

	if cfg.Sort.PlotPath != "" {
		plotStart := time.Now()
		if err := output.PlotInsertions(result.Insertions, cfg.Sort.PlotPath); err != nil {
			jsonOutput.AddError("plot_error", err.Error(), 1)
		} else {
			jsonOutput.AddWarning("info", fmt.Sprintf("Chart generated in %v at %s", time.Since(plotStart), cfg.Sort.PlotPath), 0)
		}
	}

	jsonOutput.UpdateDuration(sortStart)
	outputResult(jsonOutput, outputConfig)
	return nil
}

// executeTUI records every step of the sort and opens the step viewer on it.
func executeTUI(values []float64, traceDepth int) error {
	result, err := analysis.SortNumbers(context.Background(), values, analysis.SortOptions{
		Trace:      true,
		TraceDepth: traceDepth,
	})
	if err != nil {
		return fmt.Errorf("sorting for TUI: %w", err)
	}

	app := tui.NewApp(result.Steps)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func summarizeTokens(tokens []string, limit int) string {
	if len(tokens) <= limit {
		return strings.Join(tokens, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(tokens[:limit], ", "), len(tokens)-limit)
}

// ============================================================================
// LIVE
// ============================================================================

func createLiveConfigFromCLI(port int, readTimeout, slidingWindowMaxTime time.Duration, slidingWindowMaxSize, sleepBetweenIterations int) *config.Config {
	cfg := &config.Config{
		Global: &config.GlobalConfig{},
		Live: &config.LiveConfig{
			Port:        strconv.Itoa(port),
			ReadTimeout: readTimeout,
		},
		Windows: make(map[string]*config.WindowConfig),
	}

	cfg.Windows["cli_default"] = &config.WindowConfig{
		SlidingWindowMaxTime:   slidingWindowMaxTime,
		SlidingWindowMaxSize:   slidingWindowMaxSize,
		SleepBetweenIterations: sleepBetweenIterations,
	}

	return cfg
}

type slidingWindowInstance struct {
	name   string
	window *sliding.SlidingWindow
	config *config.WindowConfig
}

// newWindows builds one sliding window per configured name, ordered by name.
func newWindows(cfg *config.Config) []slidingWindowInstance {
	windows := make([]slidingWindowInstance, 0, len(cfg.Windows))
	for name, windowConfig := range cfg.Windows {
		windows = append(windows, slidingWindowInstance{
			name:   name,
			window: sliding.NewSlidingWindow(windowConfig.SlidingWindowMaxTime, windowConfig.SlidingWindowMaxSize),
			config: windowConfig,
		})
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].name < windows[j].name
	})
	return windows
}

// processBatch sorts a batch of jobs, feeds every window and reports the
// result in jsonOutput.
func processBatch(ctx context.Context, batch []ingestor.Job, windows []slidingWindowInstance, jsonOutput *output.JSONOutput) *output.LiveStats {
	sortStart := time.Now()
	result := analysis.SortBatch(ctx, batch, 0)
	sortDuration := time.Since(sortStart)

	for _, err := range result.Failed {
		jsonOutput.AddError("sort_error", err.Error(), 1)
	}
	if result.Rejected > 0 {
		jsonOutput.AddWarning("rejected_tokens", fmt.Sprintf("%d tokens were not numbers", result.Rejected), result.Rejected)
	}

	stats := &output.LiveStats{
		ProcessedBatch: len(batch),
		SortedJobs:     len(result.Runs),
		Comparisons:    result.Comparisons,
		RejectedTokens: result.Rejected,
		SortDuration:   sortDuration.Microseconds(),
	}

	for _, winInst := range windows {
		winInst.window.Update(result.Runs)

		windowStats := output.WindowStats{
			Name: winInst.name,
			Size: winInst.window.Len(),
		}
		for _, s := range winInst.window.Stats() {
			optimal := mergeinsertion.OptimalComparisons(s.N)
			windowStats.Sizes = append(windowStats.Sizes, output.SizeStat{
				N:           s.N,
				Runs:        s.Runs,
				Worst:       s.Worst,
				Best:        s.Best,
				Mean:        s.Mean,
				Optimal:     optimal,
				WithinBound: s.Worst <= optimal,
				LastSeen:    s.Last,
			})
			if s.Worst > optimal {
				jsonOutput.AddError("bound_exceeded", fmt.Sprintf("window %s: n=%d worst case %d exceeds F(n)=%d", winInst.name, s.N, s.Worst, optimal), 1)
			}
		}
		stats.Windows = append(stats.Windows, windowStats)
	}

	return stats
}

func executeLive(cfg *config.Config, outputConfig OutputConfig) {
	if len(cfg.Windows) == 0 {
		log.Fatalf("No sliding window configurations found")
	}

	windows := newWindows(cfg)

	readTimeout := cfg.Live.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = config.DefaultReadTimeout
	}

	ing, err := ingestor.NewTCPIngestor(":"+cfg.Live.Port, readTimeout)
	if err != nil {
		log.Fatalf("Error creating ingestor: %v", err)
	}

	initOutput := output.NewJSONOutput("live", time.Now())
	initOutput.AddWarning("info", fmt.Sprintf("Waiting for lumberjack clients on %s...", ing.Addr()), 0)
	outputResult(initOutput, outputConfig)

	if err := ing.Accept(); err != nil {
		log.Fatalf("Error accepting connection: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownOutput := output.NewJSONOutput("live", time.Now())
		shutdownOutput.AddWarning("info", "Received shutdown signal...", 0)
		outputResult(shutdownOutput, outputConfig)
		cancel()
		ing.Close()
	}()

	maxSleepTime := 0
	for _, winInst := range windows {
		if winInst.config.SleepBetweenIterations > maxSleepTime {
			maxSleepTime = winInst.config.SleepBetweenIterations
		}
	}

	for {
		loopStart := time.Now()
		jsonOutput := output.NewJSONOutput("live", loopStart)

		batch, err := ing.ReadBatch()
		if err != nil {
			jsonOutput.AddError("read_batch", fmt.Sprintf("read error: %v", err), 1)
			outputResult(jsonOutput, outputConfig)
			break
		}

		if len(batch) == 0 {
			if ing.IsClosed() || ctx.Err() != nil {
				jsonOutput.AddWarning("info", "Ingestor closed. Exiting loop.", 0)
				outputResult(jsonOutput, outputConfig)
				break
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		stats := processBatch(ctx, batch, windows, jsonOutput)
		stats.LoopDuration = time.Since(loopStart).Milliseconds()
		jsonOutput.LiveStats = stats

		jsonOutput.UpdateDuration(loopStart)
		outputResult(jsonOutput, outputConfig)

		// Sleep using maximum sleep time across all windows
		time.Sleep(time.Duration(maxSleepTime) * time.Second)
	}
}

// ============================================================================
// OUTPUT FUNCTIONS - Unified output handling
// ============================================================================

const (
	heavyRule = "═══════════════════════════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────────────────────────"
)

// outputResult is the unified output function that handles all output formats
func outputResult(jsonOutput *output.JSONOutput, outputConfig OutputConfig) {
	if outputConfig.Plain {
		outputPlain(jsonOutput)
		return
	}

	var jsonBytes []byte
	var err error

	if outputConfig.Compact {
		jsonBytes, err = jsonOutput.ToCompactJSON()
	} else {
		jsonBytes, err = jsonOutput.ToJSON()
	}

	if err != nil {
		fmt.Printf(`{"error": "failed to marshal JSON output: %v"}`, err)
		return
	}
	fmt.Println(string(jsonBytes))
}

// outputPlain formats the JSON output as human-readable plain text
func outputPlain(jsonOutput *output.JSONOutput) {
	fmt.Println(heavyRule)
	fmt.Printf("                               fjsort %s Results\n", strings.ToUpper(jsonOutput.Metadata.AnalysisType))
	fmt.Printf("%s\n\n", heavyRule)

	fmt.Printf("📊 OVERVIEW\n")
	fmt.Println(lightRule)
	fmt.Printf("Analysis Type:   %s\n", jsonOutput.Metadata.AnalysisType)
	fmt.Printf("Generated:       %s\n", jsonOutput.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Duration:        %d ms\n", jsonOutput.Metadata.DurationMS)
	if in := jsonOutput.Input; in != nil {
		fmt.Printf("Input:           %s (%s numbers", in.Source, output.FormatNumber(in.Count))
		if in.Rejected > 0 {
			fmt.Printf(", %s rejected", output.FormatNumber(in.Rejected))
		}
		fmt.Printf(")\n")
	}
	fmt.Printf("\n")

	if s := jsonOutput.Sort; s != nil {
		plainSort(s)
	}
	if b := jsonOutput.Bench; b != nil {
		plainBench(b)
	}
	if j := jsonOutput.Jacobsthal; j != nil {
		plainJacobsthal(j)
	}
	if l := jsonOutput.LiveStats; l != nil {
		plainLive(l)
	}

	// Warnings and Errors
	if len(jsonOutput.Warnings) > 0 || len(jsonOutput.Errors) > 0 {
		fmt.Printf("⚠️  DIAGNOSTICS\n")
		fmt.Println(lightRule)

		if len(jsonOutput.Warnings) > 0 {
			fmt.Printf("Warnings:\n")
			for _, warning := range jsonOutput.Warnings {
				if warning.Type != "info" { // Skip info messages in plain output
					fmt.Printf("  • %s\n", warning.Message)
				}
			}
		}

		if len(jsonOutput.Errors) > 0 {
			fmt.Printf("Errors:\n")
			for _, err := range jsonOutput.Errors {
				fmt.Printf("  • %s\n", err.Message)
			}
		}
		fmt.Printf("\n")
	}

	fmt.Println(heavyRule)
}

func plainSort(s *output.SortResult) {
	fmt.Printf("🔢 SORT\n")
	fmt.Println(lightRule)
	fmt.Printf("Input:           %s\n", formatValues(s.Input))
	fmt.Printf("Sorted:          %s\n", formatValues(s.Sorted))
	fmt.Printf("Comparisons:     %s\n", output.FormatNumber(s.Comparisons))
	fmt.Printf("F(n):            %s\n", output.FormatNumber(s.OptimalComparisons))
	fmt.Printf("⌈log2 n!⌉:       %s\n", output.FormatNumber(s.InformationBound))
	fmt.Printf("Within F(n):     %s\n", yesNo(s.WithinBound))
	fmt.Printf("Sort Time:       %d μs\n", s.DurationUS)
	fmt.Printf("\n")

	var top []output.InsertionStat
	for _, ins := range s.Insertions {
		if ins.Depth == 0 {
			top = append(top, ins)
		}
	}
	if len(top) > 0 {
		fmt.Printf("📍 INSERTIONS (outermost level)\n")
		fmt.Printf("...............................................................................\n")
		for _, ins := range top {
			bound := "bounded"
			if !ins.Bounded {
				bound = "unpaired"
			}
			fmt.Printf("  pend[%-3d] %-12s block %-3d pos %-5d %2d / %-2d comparisons  %s\n",
				ins.PendIndex, strconv.FormatFloat(ins.Value, 'g', -1, 64), ins.Block, ins.Position, ins.Comparisons, ins.Limit, bound)
		}
		fmt.Printf("\n")
	}

	if len(s.Steps) > 0 {
		fmt.Printf("🧭 STEPS (%d)\n", len(s.Steps))
		fmt.Printf("...............................................................................\n")
		for i, step := range s.Steps {
			fmt.Printf("  %3d. [%s] %s\n", i+1, step.Stage, step.Description)
		}
		fmt.Printf("\n")
	}
}

func plainBench(b *output.BenchResult) {
	p := b.Parameters
	fmt.Printf("⚡ BENCHMARK\n")
	fmt.Println(lightRule)
	fmt.Printf("Sizes:           %d..%d\n", p.MinSize, p.MaxSize)
	fmt.Printf("Trials per size: %s\n", output.FormatNumber(p.Trials))
	fmt.Printf("Total trials:    %s\n", output.FormatNumber(b.TotalTrials))
	fmt.Printf("Seed:            %d\n", p.Seed)
	fmt.Printf("Workers:         %d\n", p.Workers)
	fmt.Printf("All within F(n): %s\n", yesNo(b.AllWithinBound))
	fmt.Printf("\n")

	fmt.Printf("  %6s  %8s  %10s  %8s  %8s  %10s\n", "n", "worst", "mean", "best", "F(n)", "⌈log2 n!⌉")
	fmt.Printf("...............................................................................\n")
	for _, r := range b.Rows {
		marker := ""
		if !r.WithinBound {
			marker = "  [EXCEEDED]"
		}
		fmt.Printf("  %6d  %8d  %10.2f  %8d  %8d  %10d%s\n", r.N, r.Worst, r.Mean, r.Best, r.Optimal, r.InformationBound, marker)
	}
	fmt.Printf("\n")
}

func plainJacobsthal(j *output.JacobsthalResult) {
	fmt.Printf("🔗 JACOBSTHAL\n")
	fmt.Println(lightRule)
	fmt.Printf("Sequence:        %s\n", formatInts(j.Sequence))
	if j.PendLength > 0 {
		fmt.Printf("Pend length:     %d\n", j.PendLength)
		fmt.Printf("Insertion order: %s\n", formatInts(j.Order))
		fmt.Printf("\n")
		for _, b := range j.Blocks {
			fmt.Printf("  block %-3d J(k)=%-6d J(k-1)=%-6d indices %d..%d  ≤ %d comparisons each\n",
				b.Index, b.Current, b.Previous, b.High, b.Low, b.MaxCost)
		}
	}
	fmt.Printf("\n")
}

func plainLive(l *output.LiveStats) {
	fmt.Printf("📡 LIVE\n")
	fmt.Println(lightRule)
	fmt.Printf("Batch:           %s jobs (%s sorted)\n", output.FormatNumber(l.ProcessedBatch), output.FormatNumber(l.SortedJobs))
	fmt.Printf("Comparisons:     %s\n", output.FormatNumber(l.Comparisons))
	fmt.Printf("Sort Time:       %d μs\n", l.SortDuration)
	fmt.Printf("Loop Time:       %d ms\n", l.LoopDuration)
	fmt.Printf("\n")
	for _, w := range l.Windows {
		fmt.Printf("  Window %s: %s sorts\n", w.Name, output.FormatNumber(w.Size))
		for _, s := range w.Sizes {
			fmt.Printf("    n=%-6d runs %-8d worst %-6d mean %-8.2f best %-6d F(n) %d\n", s.N, s.Runs, s.Worst, s.Mean, s.Best, s.Optimal)
		}
	}
	fmt.Printf("\n")
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
