package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults used when a config file or the CLI leaves a value unset.
const (
	DefaultMinSize     = 1
	DefaultMaxSize     = 64
	DefaultTrials      = 50
	DefaultSeed        = 1
	DefaultReadTimeout = 5 * time.Second

	// MaxBenchSize caps the largest input the benchmark will generate.
	MaxBenchSize = 1 << 16
)

type GlobalConfig struct {
	Compact bool `toml:"compact"`
	Plain   bool `toml:"plain"`
}

type SortConfig struct {
	Input      string `toml:"input"`
	InputFile  string `toml:"inputFile"`
	Trace      bool   `toml:"trace"`
	TraceDepth int    `toml:"traceDepth"`
	PlotPath   string `toml:"plotPath"`
}

type BenchConfig struct {
	MinSize  int    `toml:"minSize"`
	MaxSize  int    `toml:"maxSize"`
	Trials   int    `toml:"trials"`
	Seed     int64  `toml:"seed"`
	Workers  int    `toml:"workers"` // 0 means one per CPU
	PlotPath string `toml:"plotPath"`
}

type LiveConfig struct {
	Port        string        `toml:"port"`
	ReadTimeout time.Duration `toml:"readTimeout"`
}

// WindowConfig is one [live.<name>] sliding window.
type WindowConfig struct {
	SlidingWindowMaxTime   time.Duration `toml:"slidingWindowMaxTime"`
	SlidingWindowMaxSize   int           `toml:"slidingWindowMaxSize"`
	SleepBetweenIterations int           `toml:"sleepBetweenIterations"`
}

type Config struct {
	Global  *GlobalConfig            `toml:"global"`
	Sort    *SortConfig              `toml:"sort"`
	Bench   *BenchConfig             `toml:"bench"`
	Live    *LiveConfig              `toml:"live"`
	Windows map[string]*WindowConfig `toml:",remain"`
}

// DefaultBenchConfig returns the benchmark settings used when nothing is
// configured.
func DefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		MinSize: DefaultMinSize,
		MaxSize: DefaultMaxSize,
		Trials:  DefaultTrials,
		Seed:    DefaultSeed,
	}
}

func LoadConfig(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]any
	if _, err := toml.Decode(string(configData), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config := &Config{
		Windows: make(map[string]*WindowConfig),
	}

	for key, value := range rawConfig {
		m, ok := value.(map[string]any)
		if !ok {
			continue
		}
		switch key {
		case "global":
			config.Global = parseGlobalConfig(m)
		case "sort":
			if config.Sort, err = parseSortConfig(m); err != nil {
				return nil, fmt.Errorf("parsing sort config: %w", err)
			}
		case "bench":
			if config.Bench, err = parseBenchConfig(m); err != nil {
				return nil, fmt.Errorf("parsing bench config: %w", err)
			}
		case "live":
			if config.Live, err = parseLiveConfig(m); err != nil {
				return nil, fmt.Errorf("parsing live config: %w", err)
			}
			// nested tables are sliding windows
			for subKey, subValue := range m {
				windowMap, ok := subValue.(map[string]any)
				if !ok {
					continue
				}
				window, err := parseWindowConfig(windowMap)
				if err != nil {
					return nil, fmt.Errorf("parsing window config %q: %w", subKey, err)
				}
				config.Windows[subKey] = window
			}
		}
	}

	if config.Global == nil {
		config.Global = &GlobalConfig{}
	}
	return config, nil
}

func parseGlobalConfig(m map[string]any) *GlobalConfig {
	config := &GlobalConfig{}
	if v, ok := m["compact"].(bool); ok {
		config.Compact = v
	}
	if v, ok := m["plain"].(bool); ok {
		config.Plain = v
	}
	return config
}

func parseSortConfig(m map[string]any) (*SortConfig, error) {
	config := &SortConfig{}
	if v, ok := m["input"].(string); ok {
		config.Input = v
	}
	if v, ok := m["inputFile"].(string); ok {
		config.InputFile = v
	}
	if v, ok := m["trace"].(bool); ok {
		config.Trace = v
	}
	if v, ok := m["traceDepth"]; ok {
		depth, err := toInt("traceDepth", v)
		if err != nil {
			return nil, err
		}
		config.TraceDepth = depth
	}
	if v, ok := m["plotPath"].(string); ok {
		config.PlotPath = v
	}
	return config, nil
}

func parseBenchConfig(m map[string]any) (*BenchConfig, error) {
	config := DefaultBenchConfig()
	ints := map[string]*int{
		"minSize": &config.MinSize,
		"maxSize": &config.MaxSize,
		"trials":  &config.Trials,
		"workers": &config.Workers,
	}
	for name, dst := range ints {
		v, ok := m[name]
		if !ok {
			continue
		}
		n, err := toInt(name, v)
		if err != nil {
			return nil, err
		}
		*dst = n
	}
	if v, ok := m["seed"]; ok {
		seed, err := toInt("seed", v)
		if err != nil {
			return nil, err
		}
		config.Seed = int64(seed)
	}
	if v, ok := m["plotPath"].(string); ok {
		config.PlotPath = v
	}
	return config, nil
}

func parseLiveConfig(m map[string]any) (*LiveConfig, error) {
	config := &LiveConfig{ReadTimeout: DefaultReadTimeout}
	switch v := m["port"].(type) {
	case string:
		config.Port = v
	case int64:
		config.Port = strconv.FormatInt(v, 10)
	}
	if v, ok := m["readTimeout"].(string); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid readTimeout %q: %w", v, err)
		}
		config.ReadTimeout = d
	}
	return config, nil
}

func parseWindowConfig(m map[string]any) (*WindowConfig, error) {
	config := &WindowConfig{}
	if v, ok := m["slidingWindowMaxTime"].(string); ok {
		duration, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid slidingWindowMaxTime %q: %w", v, err)
		}
		config.SlidingWindowMaxTime = duration
	}
	if v, ok := m["slidingWindowMaxSize"].(int64); ok {
		config.SlidingWindowMaxSize = int(v)
	}
	if v, ok := m["sleepBetweenIterations"].(int64); ok {
		config.SleepBetweenIterations = int(v)
	}
	return config, nil
}

func toInt(name string, v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%s must be a whole number, got %v", name, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", name, v)
	}
}

func (c *Config) ValidateSort() error {
	if c.Sort == nil {
		return fmt.Errorf("sort configuration section is required")
	}
	if c.Sort.Input == "" && c.Sort.InputFile == "" {
		return fmt.Errorf("either input or inputFile is required in sort configuration")
	}
	if c.Sort.Input != "" && c.Sort.InputFile != "" {
		return fmt.Errorf("input and inputFile are mutually exclusive")
	}
	if c.Sort.InputFile != "" {
		if _, err := os.Stat(c.Sort.InputFile); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", c.Sort.InputFile)
		}
	}
	if c.Sort.TraceDepth < 0 {
		return fmt.Errorf("traceDepth must not be negative, got %d", c.Sort.TraceDepth)
	}
	return nil
}

func (c *Config) ValidateBench() error {
	if c.Bench == nil {
		return fmt.Errorf("bench configuration section is required")
	}
	return c.Bench.Validate()
}

// Validate checks the size range, trial count and worker count.
func (b *BenchConfig) Validate() error {
	if b.MinSize < 0 {
		return fmt.Errorf("minSize must not be negative, got %d", b.MinSize)
	}
	if b.MaxSize < b.MinSize {
		return fmt.Errorf("maxSize (%d) must be greater than or equal to minSize (%d)", b.MaxSize, b.MinSize)
	}
	if b.MaxSize > MaxBenchSize {
		return fmt.Errorf("maxSize must not exceed %d, got %d", MaxBenchSize, b.MaxSize)
	}
	if b.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", b.Trials)
	}
	if b.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", b.Workers)
	}
	return nil
}

func (c *Config) ValidateLive() error {
	if c.Live == nil {
		return fmt.Errorf("live configuration section is required")
	}

	if c.Live.Port == "" {
		return fmt.Errorf("port is required in live configuration")
	}

	if len(c.Windows) == 0 {
		return fmt.Errorf("at least one sliding window configuration is required in live mode (e.g., [live.window_name])")
	}

	for name, w := range c.Windows {
		if w.SlidingWindowMaxTime <= 0 {
			return fmt.Errorf("window %q: slidingWindowMaxTime must be positive", name)
		}
		if w.SlidingWindowMaxSize <= 0 {
			return fmt.Errorf("window %q: slidingWindowMaxSize must be positive", name)
		}
		if w.SleepBetweenIterations < 0 {
			return fmt.Errorf("window %q: sleepBetweenIterations must not be negative", name)
		}
	}

	return nil
}
