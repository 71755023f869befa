package oplog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// AuditReport summarizes an operation log read back from disk.
type AuditReport struct {
	Lines     int
	Malformed []int // 1-based line numbers that failed to parse
	PerWorker map[int]int
	PerAction map[Action]int
}

// Audit reads the log at path.
func Audit(path string) (AuditReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return AuditReport{}, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer f.Close()
	return AuditReader(f)
}

// AuditReader counts entries per worker and action, recording lines that do
// not parse instead of stopping at them.
func AuditReader(r io.Reader) (AuditReport, error) {
	report := AuditReport{
		PerWorker: make(map[int]int),
		PerAction: make(map[Action]int),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		report.Lines++
		e, err := ParseEntry(scanner.Text())
		if err != nil {
			report.Malformed = append(report.Malformed, report.Lines)
			continue
		}
		report.PerWorker[e.Worker]++
		report.PerAction[e.Action]++
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("failed to scan log: %w", err)
	}
	return report, nil
}

// Workers returns the worker ids present in the log, ascending.
func (r AuditReport) Workers() []int {
	ids := make([]int, 0, len(r.PerWorker))
	for id := range r.PerWorker {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Check verifies the log holds exactly iterations entries for each of the
// workers 1..workers and nothing else.
func (r AuditReport) Check(workers, iterations int) error {
	var problems []error

	if len(r.Malformed) > 0 {
		problems = append(problems, fmt.Errorf("%d malformed line(s), first at line %d", len(r.Malformed), r.Malformed[0]))
	}
	if want := workers * iterations; r.Lines != want {
		problems = append(problems, fmt.Errorf("log has %d line(s), want %d", r.Lines, want))
	}
	for id := 1; id <= workers; id++ {
		if got := r.PerWorker[id]; got != iterations {
			problems = append(problems, fmt.Errorf("worker %d logged %d entries, want %d", id, got, iterations))
		}
	}

	var unknown []string
	for _, id := range r.Workers() {
		if id > workers {
			unknown = append(unknown, fmt.Sprint(id))
		}
	}
	if len(unknown) > 0 {
		problems = append(problems, fmt.Errorf("unexpected worker id(s): %s", strings.Join(unknown, ", ")))
	}

	return errors.Join(problems...)
}
