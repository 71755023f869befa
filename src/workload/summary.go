package workload

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	logs "github.com/danmuck/smplog"
	"github.com/google/uuid"

	"github.com/danmuck/sorted_list/src/oplog"
	"github.com/danmuck/sorted_list/src/sorted_list"
)

// Summary describes a finished run.
type Summary struct {
	RunID        string             `toml:"run_id"`
	StartedAt    time.Time          `toml:"started_at"`
	Status       string             `toml:"status"`
	Operations   map[string]int     `toml:"operations"`
	DeleteHits   int                `toml:"delete_hits"`
	DeleteMisses int                `toml:"delete_misses"`
	SearchHits   int                `toml:"search_hits"`
	SearchMisses int                `toml:"search_misses"`
	SendErrors   int                `toml:"send_errors"`
	LinesLogged  int                `toml:"lines_logged"`
	FinalLength  int                `toml:"final_length"`
	Sorted       bool               `toml:"sorted"`
	Phases       []Phase            `toml:"phases"`
	Metrics      map[string]float64 `toml:"metrics"`
	Config       Config             `toml:"config"`
}

// Phase is one timed stage of a run.
type Phase struct {
	Name    string `toml:"name"`
	Elapsed string `toml:"elapsed"`
	Failed  bool   `toml:"failed"`

	took time.Duration
}

func newSummary(cfg Config) Summary {
	return Summary{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		Status:     "running",
		Operations: make(map[string]int),
		Config:     cfg,
	}
}

// phase runs fn as a named stage of the run and records how long it took.
func (s *Summary) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	took := time.Since(start)
	s.Phases = append(s.Phases, Phase{
		Name:    name,
		Elapsed: FormatDuration(took),
		Failed:  err != nil,
		took:    took,
	})
	return err
}

// Elapsed is the time spent in every recorded phase. Summaries read back from
// disk carry only the formatted phase times and report zero.
func (s Summary) Elapsed() time.Duration {
	var total time.Duration
	for _, p := range s.Phases {
		total += p.took
	}
	return total
}

// collect fills the counters of s from a finished run.
func (s *Summary) collect(m *Metrics, list *sorted_list.SortedList, lines int, err error) {
	for _, a := range oplog.Actions {
		s.Operations[a.String()] = m.Operations(a)
	}
	s.DeleteHits = m.Hits(oplog.ActionDelete)
	s.DeleteMisses = m.Misses(oplog.ActionDelete)
	s.SearchHits = m.Hits(oplog.ActionSearch)
	s.SearchMisses = m.Misses(oplog.ActionSearch)
	s.SendErrors = m.SendErrors()
	s.LinesLogged = lines
	s.FinalLength = list.Len()
	s.Sorted = list.IsSorted()

	m.finish(lines, s.FinalLength)
	snapshot, snapErr := m.Snapshot()
	if snapErr != nil {
		logs.Warnf("run %s: metrics snapshot failed: %v", s.RunID, snapErr)
	}
	s.Metrics = snapshot

	s.Status = "ok"
	if err != nil {
		s.Status = fmt.Sprintf("failed: %v", err)
	}
}

// TotalOperations is the number of list operations workers performed.
func (s Summary) TotalOperations() int {
	total := 0
	for _, n := range s.Operations {
		total += n
	}
	return total
}

// WriteTOML writes the summary to path, replacing any previous file.
func (s Summary) WriteTOML(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary %s: %w", path, err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

// ReadSummary decodes a summary written by WriteTOML.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return s, fmt.Errorf("failed to decode summary %s: %w", path, err)
	}
	return s, nil
}

// FormatDuration formats a duration for summary display.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
