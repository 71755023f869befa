package workload

import (
	"errors"
	"fmt"

	logs "github.com/danmuck/smplog"

	"github.com/danmuck/sorted_list/src/oplog"
	"github.com/danmuck/sorted_list/src/sorted_list"
)

// Run drives one complete workload against list: it starts the logger,
// spawns cfg.Workers sampling workers, waits for all of them, lets the
// logger drain the channel and waits for it too. Any worker or logger
// failure makes Run return an error; the summary is filled either way.
func Run(cfg Config, list *sorted_list.SortedList) (Summary, error) {
	cfg = cfg.withSeed()
	if err := cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid config: %w", err)
	}
	return run(cfg, list, samplers(cfg))
}

type loggerResult struct {
	lines int
	err   error
}

func run(cfg Config, list *sorted_list.SortedList, sources []Source) (Summary, error) {
	summary := newSummary(cfg)
	metrics := NewMetrics()

	logs.Infof("run %s: %d worker(s) x %d iteration(s), values [%d, %d), seed %d, log %s",
		summary.RunID, len(sources), cfg.Iterations, cfg.MinValue, cfg.MaxValue, cfg.Seed, cfg.LogPath)

	tx, rx := oplog.NewChannel[string]()
	logger := oplog.NewLogger(cfg.LogPath)

	done := make(chan loggerResult, 1)
	go func() {
		lines, err := logger.Run(rx)
		done <- loggerResult{lines: lines, err: err}
	}()

	group, groupErr := NewGroup(list, tx, metrics, cfg.Iterations, sources)
	// workers hold their own clones; dropping this handle lets the stream
	// end once the last worker returns
	tx.Close()

	var workerErr error
	if groupErr != nil {
		workerErr = groupErr
	} else {
		workerErr = summary.phase("workers", group.Run)
	}

	var res loggerResult
	summary.phase("log drain", func() error {
		res = <-done
		return res.err
	})

	var err error
	if workerErr != nil {
		err = errors.Join(err, fmt.Errorf("workers failed: %w", workerErr))
	}
	if res.err != nil {
		err = errors.Join(err, fmt.Errorf("logger failed: %w", res.err))
	}

	summary.collect(metrics, list, res.lines, err)
	if err != nil {
		return summary, err
	}

	logs.Infof("run %s: done in %s, %d line(s) logged, final length %d",
		summary.RunID, FormatDuration(summary.Elapsed()), summary.LinesLogged, summary.FinalLength)
	return summary, nil
}

// Replay regenerates every worker's operation sequence from cfg and applies
// the sequences one worker after another on a fresh list. With
// PartitionValues set, workers touch disjoint values, so a concurrent Run with
// the same config must end with the same contents.
func Replay(cfg Config) (*sorted_list.SortedList, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Seed == 0 {
		return nil, fmt.Errorf("replay needs an explicit seed")
	}

	list := sorted_list.New()
	for _, src := range samplers(cfg) {
		for i := 0; i < cfg.Iterations; i++ {
			Apply(list, src.Next())
		}
	}
	return list, nil
}
