package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/danmuck/sorted_list/src/workload"
)

const (
	CONFIG_FLAG     = "config"
	WORKERS_FLAG    = "workers"
	ITERATIONS_FLAG = "iterations"
	MIN_VALUE_FLAG  = "min"
	MAX_VALUE_FLAG  = "max"
	LOG_PATH_FLAG   = "log"
	SEED_FLAG       = "seed"
	PARTITION_FLAG  = "partition"
	SUMMARY_FLAG    = "summary"
)

// runOptions holds the raw flag values of the run command.
type runOptions struct {
	ConfigPath      string
	Workers         int
	Iterations      int
	MinValue        int
	MaxValue        int
	LogPath         string
	Seed            uint64
	PartitionValues bool
	SummaryPath     string
}

func defaultRunOptions() runOptions {
	cfg := workload.DefaultConfig()
	return runOptions{
		Workers:    cfg.Workers,
		Iterations: cfg.Iterations,
		MinValue:   cfg.MinValue,
		MaxValue:   cfg.MaxValue,
		LogPath:    cfg.LogPath,
	}
}

func (o *runOptions) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, CONFIG_FLAG, "c", o.ConfigPath, "TOML or YAML workload config; flags override its values")
	fs.IntVarP(&o.Workers, WORKERS_FLAG, "w", o.Workers, "number of concurrent workers")
	fs.IntVarP(&o.Iterations, ITERATIONS_FLAG, "n", o.Iterations, "operations issued by each worker")
	fs.IntVar(&o.MinValue, MIN_VALUE_FLAG, o.MinValue, "inclusive lower bound of sampled values")
	fs.IntVar(&o.MaxValue, MAX_VALUE_FLAG, o.MaxValue, "exclusive upper bound of sampled values")
	fs.StringVarP(&o.LogPath, LOG_PATH_FLAG, "l", o.LogPath, "operation log file (appended to)")
	fs.Uint64Var(&o.Seed, SEED_FLAG, o.Seed, "sampling seed, 0 picks one from the clock")
	fs.BoolVar(&o.PartitionValues, PARTITION_FLAG, o.PartitionValues, "give every worker a disjoint slice of the value range")
	fs.StringVar(&o.SummaryPath, SUMMARY_FLAG, o.SummaryPath, "write a TOML run summary to this path")
}

// resolve builds the workload config: defaults, then the config file if one
// was given, then every flag the user set explicitly.
func (o runOptions) resolve(fs *pflag.FlagSet) (workload.Config, error) {
	cfg := workload.DefaultConfig()
	if path := strings.TrimSpace(o.ConfigPath); path != "" {
		loaded, err := workload.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if fs.Changed(WORKERS_FLAG) {
		cfg.Workers = o.Workers
	}
	if fs.Changed(ITERATIONS_FLAG) {
		cfg.Iterations = o.Iterations
	}
	if fs.Changed(MIN_VALUE_FLAG) {
		cfg.MinValue = o.MinValue
	}
	if fs.Changed(MAX_VALUE_FLAG) {
		cfg.MaxValue = o.MaxValue
	}
	if fs.Changed(LOG_PATH_FLAG) {
		cfg.LogPath = strings.TrimSpace(o.LogPath)
	}
	if fs.Changed(SEED_FLAG) {
		cfg.Seed = o.Seed
	}
	if fs.Changed(PARTITION_FLAG) {
		cfg.PartitionValues = o.PartitionValues
	}
	if fs.Changed(SUMMARY_FLAG) {
		cfg.SummaryPath = strings.TrimSpace(o.SummaryPath)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid run config: %w", err)
	}
	return cfg, nil
}
