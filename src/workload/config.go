package workload

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkers    = 4
	DefaultIterations = 125000
	DefaultMinValue   = 0
	DefaultMaxValue   = 500000
	DefaultLogPath    = "log.txt"
)

// Config controls one workload run.
type Config struct {
	Workers         int    `toml:"workers" yaml:"workers"`                   // concurrent workers
	Iterations      int    `toml:"iterations" yaml:"iterations"`             // operations per worker
	MinValue        int    `toml:"min_value" yaml:"min_value"`               // inclusive lower bound of sampled values
	MaxValue        int    `toml:"max_value" yaml:"max_value"`               // exclusive upper bound of sampled values
	LogPath         string `toml:"log_path" yaml:"log_path"`                 // operation log, opened in append mode
	Seed            uint64 `toml:"seed" yaml:"seed"`                         // 0 picks a clock based seed
	PartitionValues bool   `toml:"partition_values" yaml:"partition_values"` // give each worker a disjoint value range
	SummaryPath     string `toml:"summary_path" yaml:"summary_path"`         // optional TOML run summary
}

// DefaultConfig mirrors the reference workload: 4 workers issuing 125000
// operations each over values in [0, 500000).
func DefaultConfig() Config {
	return Config{
		Workers:    DefaultWorkers,
		Iterations: DefaultIterations,
		MinValue:   DefaultMinValue,
		MaxValue:   DefaultMaxValue,
		LogPath:    DefaultLogPath,
	}
}

// LoadConfig decodes a TOML or YAML file over DefaultConfig. The format is
// picked by extension (.toml, .yaml, .yml).
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	return cfg, nil
}

// Validate rejects configurations that cannot produce a run.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	if c.MaxValue <= c.MinValue {
		return fmt.Errorf("value range [%d, %d) is empty", c.MinValue, c.MaxValue)
	}
	if c.MinValue < 0 && c.MaxValue > math.MaxInt+c.MinValue {
		return fmt.Errorf("value range [%d, %d) is wider than %d", c.MinValue, c.MaxValue, math.MaxInt)
	}
	if c.PartitionValues && c.MaxValue-c.MinValue < c.Workers {
		return fmt.Errorf("value range [%d, %d) is too small to partition across %d workers", c.MinValue, c.MaxValue, c.Workers)
	}
	if c.Seed > math.MaxInt64 {
		return fmt.Errorf("seed must fit in a signed 64-bit integer, got %d", c.Seed)
	}
	if strings.TrimSpace(c.LogPath) == "" {
		return fmt.Errorf("log path must not be empty")
	}
	return nil
}

// ValueRange returns the half-open range worker id (1-based) samples from.
func (c Config) ValueRange(id int) (int, int) {
	if !c.PartitionValues {
		return c.MinValue, c.MaxValue
	}
	span := (c.MaxValue - c.MinValue) / c.Workers
	lo := c.MinValue + (id-1)*span
	hi := lo + span
	if id == c.Workers {
		hi = c.MaxValue
	}
	return lo, hi
}

// withSeed fills in a clock based seed when none was configured.
func (c Config) withSeed() Config {
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano()) & math.MaxInt64
	}
	return c
}
