package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ChristianF88/fjsort/config"
	"github.com/ChristianF88/fjsort/version"
	cli "github.com/urfave/cli/v2"
)

// parseDate attempts to parse the build date
func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

// Shared flag definitions to eliminate duplication
var (
	// Configuration flags
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to configuration file (mutually exclusive with other flags)",
	}

	// Output flags
	plotPathFlag = &cli.StringFlag{
		Name:  "plotPath",
		Usage: "Path where to save the chart (e.g., '/path/to/chart.html'). If not provided, no chart will be generated.",
	}
	compactFlag = &cli.BoolFlag{
		Name:  "compact",
		Usage: "Output compact JSON (no pretty printing)",
		Value: false,
	}
	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Output plain text format for easy readability",
		Value: false,
	}

	// Sort-specific flags
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Numbers to sort, separated by spaces, commas or semicolons (e.g., '64 34 25 12')",
	}
	inputFileFlag = &cli.StringFlag{
		Name:  "inputFile",
		Usage: "Path to a file with numbers to sort, '#' starts a comment",
	}
	traceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "Include every recorded step of the sort in the output",
		Value: false,
	}
	traceDepthFlag = &cli.IntFlag{
		Name:  "traceDepth",
		Usage: "Deepest recursion level narrated step by step",
		Value: 0,
	}
	tuiFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Launch TUI (Terminal User Interface) step-through mode",
		Value: false,
	}

	// Bench-specific flags
	minSizeFlag = &cli.IntFlag{
		Name:  "minSize",
		Usage: "Smallest input size to benchmark",
		Value: config.DefaultMinSize,
	}
	maxSizeFlag = &cli.IntFlag{
		Name:  "maxSize",
		Usage: "Largest input size to benchmark",
		Value: config.DefaultMaxSize,
	}
	trialsFlag = &cli.IntFlag{
		Name:  "trials",
		Usage: "Random permutations sorted per input size",
		Value: config.DefaultTrials,
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed for the random permutations",
		Value: config.DefaultSeed,
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of worker goroutines (0 = one per CPU)",
		Value: 0,
	}

	// Jacobsthal-specific flags
	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "Number of Jacobsthal numbers to list, starting at J(0)",
		Value: 12,
	}
	pendFlag = &cli.IntFlag{
		Name:  "pend",
		Usage: "Pend chain length to derive the insertion order for",
		Value: 0,
	}

	// Live-specific flags
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port to listen on for lumberjack v2 connections",
	}
	readTimeoutFlag = &cli.DurationFlag{
		Name:  "readTimeout",
		Usage: "Read timeout of lumberjack connections",
		Value: config.DefaultReadTimeout,
	}
	slidingWindowMaxTimeFlag = &cli.DurationFlag{
		Name:  "slidingWindowMaxTime",
		Usage: "Maximum time duration for sliding window",
		Value: time.Hour,
	}
	slidingWindowMaxSizeFlag = &cli.IntFlag{
		Name:  "slidingWindowMaxSize",
		Usage: "Maximum number of sorts in sliding window",
		Value: 10000,
	}
	sleepBetweenIterationsFlag = &cli.IntFlag{
		Name:  "sleepBetweenIterations",
		Usage: "Sleep duration between iterations in seconds",
		Value: 5,
	}
)

// Shared validation functions
func validateConfigModeFlags(c *cli.Context, allowedFlags []string) error {
	// Create a map for quick lookup of allowed flags
	allowed := make(map[string]bool)
	for _, flag := range allowedFlags {
		allowed[flag] = true
	}

	// Check all possible flags
	flagsToCheck := []string{
		"input", "inputFile", "trace", "traceDepth", "tui", "plotPath",
		"minSize", "maxSize", "trials", "seed", "workers",
		"port", "readTimeout", "slidingWindowMaxTime", "slidingWindowMaxSize",
		"sleepBetweenIterations", "compact", "plain",
	}

	for _, flag := range flagsToCheck {
		if c.IsSet(flag) && !allowed[flag] {
			return fmt.Errorf("when using --config, only %v flags are allowed", allowedFlags)
		}
	}
	return nil
}

func validatePlotPath(plotPath string) error {
	if plotPath != "" {
		plotDir := filepath.Dir(plotPath)
		if plotDir == "." {
			plotDir, _ = os.Getwd()
		}
		if _, err := os.Stat(plotDir); os.IsNotExist(err) {
			return fmt.Errorf("plot directory does not exist: %s", plotDir)
		}
	}
	return nil
}

func validateInputFileExists(inputFilePath string) error {
	if _, err := os.Stat(inputFilePath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFilePath)
	}
	return nil
}

// outputConfigFrom merges the output flags with the [global] section of a
// config file. Either one can switch a format on.
func outputConfigFrom(c *cli.Context, global *config.GlobalConfig) OutputConfig {
	oc := OutputConfig{
		Compact: c.Bool("compact"),
		Plain:   c.Bool("plain"),
		TUI:     c.Bool("tui"),
	}
	if global != nil {
		oc.Compact = oc.Compact || global.Compact
		oc.Plain = oc.Plain || global.Plain
	}
	return oc
}

// Command handler functions to reduce deep nesting

// handleSortCommand processes the sort command
func handleSortCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleSortConfigMode(c, configPath)
	}
	return handleSortFlagsMode(c)
}

// handleSortConfigMode handles sort command when using config file
func handleSortConfigMode(c *cli.Context, configPath string) error {
	// Validate only allowed flags in config mode
	if err := validateConfigModeFlags(c, []string{"tui", "compact", "plain"}); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateSort(); err != nil {
		return fmt.Errorf("invalid sort configuration: %w", err)
	}

	if err := validatePlotPath(cfg.Sort.PlotPath); err != nil {
		return err
	}

	return SortFromConfig(cfg, outputConfigFrom(c, cfg.Global))
}

// handleSortFlagsMode handles sort command when using CLI flags only
func handleSortFlagsMode(c *cli.Context) error {
	input := c.String("input")
	inputFile := c.String("inputFile")

	if input == "" && inputFile == "" {
		return fmt.Errorf("either input or inputFile is required when not using --config")
	}
	if input != "" && inputFile != "" {
		return fmt.Errorf("input and inputFile are mutually exclusive")
	}
	if inputFile != "" {
		if err := validateInputFileExists(inputFile); err != nil {
			return err
		}
	}
	if c.Int("traceDepth") < 0 {
		return fmt.Errorf("traceDepth must not be negative, got %d", c.Int("traceDepth"))
	}
	if err := validatePlotPath(c.String("plotPath")); err != nil {
		return err
	}

	return Sort(
		input,
		inputFile,
		c.Bool("trace"),
		c.Int("traceDepth"),
		c.String("plotPath"),
		outputConfigFrom(c, nil),
	)
}

// handleBenchCommand processes the bench command
func handleBenchCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleBenchConfigMode(c, configPath)
	}
	return handleBenchFlagsMode(c)
}

// handleBenchConfigMode handles bench command when using config file
func handleBenchConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"compact", "plain"}); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateBench(); err != nil {
		return fmt.Errorf("invalid bench configuration: %w", err)
	}

	if err := validatePlotPath(cfg.Bench.PlotPath); err != nil {
		return err
	}

	Bench(cfg.Bench, outputConfigFrom(c, cfg.Global))
	return nil
}

// handleBenchFlagsMode handles bench command when using CLI flags only
func handleBenchFlagsMode(c *cli.Context) error {
	benchCfg := &config.BenchConfig{
		MinSize:  c.Int("minSize"),
		MaxSize:  c.Int("maxSize"),
		Trials:   c.Int("trials"),
		Seed:     c.Int64("seed"),
		Workers:  c.Int("workers"),
		PlotPath: c.String("plotPath"),
	}

	if err := benchCfg.Validate(); err != nil {
		return fmt.Errorf("invalid bench arguments: %w", err)
	}

	if err := validatePlotPath(benchCfg.PlotPath); err != nil {
		return err
	}

	Bench(benchCfg, outputConfigFrom(c, nil))
	return nil
}

// handleJacobsthalCommand processes the jacobsthal command
func handleJacobsthalCommand(c *cli.Context) error {
	count := c.Int("count")
	pend := c.Int("pend")

	if count < 0 {
		return fmt.Errorf("count must not be negative, got %d", count)
	}
	// keeps every listed term inside int64
	if count > 63 {
		return fmt.Errorf("count must not exceed 63, got %d", count)
	}
	if pend < 0 {
		return fmt.Errorf("pend must not be negative, got %d", pend)
	}
	if pend > config.MaxBenchSize {
		return fmt.Errorf("pend must not exceed %d, got %d", config.MaxBenchSize, pend)
	}

	Jacobsthal(count, pend, outputConfigFrom(c, nil))
	return nil
}

// handleLiveCommand processes the live command with proper separation of concerns
func handleLiveCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleLiveConfigMode(c, configPath)
	}
	return handleLiveFlagsMode(c)
}

// handleLiveConfigMode handles live command when using config file
func handleLiveConfigMode(c *cli.Context, configPath string) error {
	// Validate only allowed flags in config mode
	if err := validateConfigModeFlags(c, []string{"compact", "plain"}); err != nil {
		return err
	}

	// Load and validate config
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Validate live mode configuration
	if err := cfg.ValidateLive(); err != nil {
		return fmt.Errorf("invalid live configuration: %w", err)
	}

	fmt.Println("Running in live mode from config file:")
	LiveFromConfig(cfg, outputConfigFrom(c, cfg.Global))
	return nil
}

// handleLiveFlagsMode handles live command when using CLI flags only
func handleLiveFlagsMode(c *cli.Context) error {
	// Validate required flags
	if !c.IsSet("port") {
		return fmt.Errorf("port is required when not using --config")
	}

	cfg := createLiveConfigFromCLI(
		c.Int("port"),
		c.Duration("readTimeout"),
		c.Duration("slidingWindowMaxTime"),
		c.Int("slidingWindowMaxSize"),
		c.Int("sleepBetweenIterations"),
	)
	if err := cfg.ValidateLive(); err != nil {
		return fmt.Errorf("invalid live arguments: %w", err)
	}

	fmt.Println("Running in live mode with CLI flags:")
	LiveFromConfig(cfg, outputConfigFrom(c, nil))
	return nil
}

var App = &cli.App{
	Name:     "fjsort",
	Usage:    "Sort with the Ford-Johnson merge-insertion algorithm and measure its comparisons",
	Version:  version.Version,
	Compiled: parseDate(version.Date),
	Commands: []*cli.Command{
		{
			Name:  "sort",
			Usage: "Sort a list of numbers and report the comparisons used",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				// Sort-specific flags
				inputFlag,
				inputFileFlag,
				traceFlag,
				traceDepthFlag,
				tuiFlag,
				// Output flags
				plotPathFlag,
				compactFlag,
				plainFlag,
			},
			Action: handleSortCommand,
		},
		{
			Name:  "bench",
			Usage: "Measure worst, mean and best comparisons over random permutations",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				// Bench-specific flags
				minSizeFlag,
				maxSizeFlag,
				trialsFlag,
				seedFlag,
				workersFlag,
				// Output flags
				plotPathFlag,
				compactFlag,
				plainFlag,
			},
			Action: handleBenchCommand,
		},
		{
			Name:  "jacobsthal",
			Usage: "List Jacobsthal numbers and the insertion order they induce",
			Flags: []cli.Flag{
				countFlag,
				pendFlag,
				compactFlag,
				plainFlag,
			},
			Action: handleJacobsthalCommand,
		},
		{
			Name:  "live",
			Usage: "Sort number lists received over lumberjack and keep sliding statistics",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				// Live-specific flags
				portFlag,
				readTimeoutFlag,
				slidingWindowMaxTimeFlag,
				slidingWindowMaxSizeFlag,
				sleepBetweenIterationsFlag,
				// Output flags
				compactFlag,
				plainFlag,
			},
			Action: handleLiveCommand,
		},
	},
}
