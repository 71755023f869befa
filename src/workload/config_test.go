package workload

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 125000, cfg.Iterations)
	assert.Equal(t, 0, cfg.MinValue)
	assert.Equal(t, 500000, cfg.MaxValue)
	assert.Equal(t, "log.txt", cfg.LogPath)
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers = 8
iterations = 1000
max_value = 64
seed = 7
partition_values = true
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 1000, cfg.Iterations)
	assert.Equal(t, 0, cfg.MinValue, "unset keys keep defaults")
	assert.Equal(t, 64, cfg.MaxValue)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.True(t, cfg.PartitionValues)
	assert.Equal(t, DefaultLogPath, cfg.LogPath)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 2
iterations: 10
min_value: -50
max_value: 50
log_path: ops.log
summary_path: summary.toml
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 10, cfg.Iterations)
	assert.Equal(t, -50, cfg.MinValue)
	assert.Equal(t, 50, cfg.MaxValue)
	assert.Equal(t, "ops.log", cfg.LogPath)
	assert.Equal(t, "summary.toml", cfg.SummaryPath)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "run.json"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("workers = \"many\"\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, "iterations"},
		{"empty range", func(c *Config) { c.MinValue, c.MaxValue = 10, 10 }, "empty"},
		{"inverted range", func(c *Config) { c.MinValue, c.MaxValue = 10, 0 }, "empty"},
		{"range too small to partition", func(c *Config) { c.PartitionValues, c.MaxValue = true, 3 }, "partition"},
		{"empty log path", func(c *Config) { c.LogPath = " " }, "log path"},
		{"seed out of range", func(c *Config) { c.Seed = 1 << 63 }, "seed"},
		{"range wider than int", func(c *Config) { c.MinValue, c.MaxValue = math.MinInt, math.MaxInt }, "wider"},
		{"range one past int", func(c *Config) { c.MinValue, c.MaxValue = -1, math.MaxInt }, "wider"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.wantErr)
		})
	}
}

func TestValueRangePartitions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.MinValue = -10
	cfg.MaxValue = 21
	cfg.PartitionValues = true

	prevHi := cfg.MinValue
	for id := 1; id <= cfg.Workers; id++ {
		lo, hi := cfg.ValueRange(id)
		assert.Equal(t, prevHi, lo, "worker %d range must start where the previous ended", id)
		assert.Less(t, lo, hi)
		prevHi = hi
	}
	assert.Equal(t, cfg.MaxValue, prevHi, "last worker must reach MaxValue")

	cfg.PartitionValues = false
	lo, hi := cfg.ValueRange(2)
	assert.Equal(t, cfg.MinValue, lo)
	assert.Equal(t, cfg.MaxValue, hi)
}
