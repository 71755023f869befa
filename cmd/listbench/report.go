package main

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"time"

	logs "github.com/danmuck/smplog"

	"github.com/danmuck/sorted_list/src/oplog"
	"github.com/danmuck/sorted_list/src/workload"
)

type RuntimeStats struct {
	GoVersion    string
	NumCPU       int
	NumGoroutine int
	AllocBytes   uint64
	TotalAlloc   uint64
	NumGC        uint32
}

func collectRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
		AllocBytes:   mem.Alloc,
		TotalAlloc:   mem.TotalAlloc,
		NumGC:        mem.NumGC,
	}
}

// printSummary renders a finished (or failed) run.
func printSummary(s workload.Summary) {
	logs.Titlef("\nRun %s [%s]\n", s.RunID, s.Status)
	logs.DataKV("Started at", s.StartedAt.Format(time.RFC3339))
	logs.DataKV("Workers", fmt.Sprint(s.Config.Workers))
	logs.DataKV("Iterations", fmt.Sprint(s.Config.Iterations))
	logs.DataKV("Value range", fmt.Sprintf("[%d, %d)", s.Config.MinValue, s.Config.MaxValue))
	logs.DataKV("Seed", fmt.Sprint(s.Config.Seed))
	logs.DataKV("Log file", s.Config.LogPath)

	logs.Titlef("\nOperations\n")
	for _, a := range oplog.Actions {
		logs.DataKV(a.String(), fmt.Sprint(s.Operations[a.String()]))
	}
	logs.Dataf("delete: hit=%d miss=%d  search: hit=%d miss=%d\n",
		s.DeleteHits, s.DeleteMisses, s.SearchHits, s.SearchMisses)
	if s.SendErrors > 0 {
		logs.Warnf("%d log entries could not be sent", s.SendErrors)
	}
	logs.DataKV("Lines logged", fmt.Sprint(s.LinesLogged))
	logs.DataKV("Final length", fmt.Sprint(s.FinalLength))
	logs.DataKV("Sorted", fmt.Sprint(s.Sorted))

	if len(s.Metrics) > 0 {
		logs.Titlef("\nMetrics\n")
		for _, key := range slices.Sorted(maps.Keys(s.Metrics)) {
			logs.DataKV(key, fmt.Sprint(s.Metrics[key]))
		}
	}

	logs.Titlef("\nTiming\n")
	for _, ph := range s.Phases {
		logs.DataKV(ph.Name, ph.Elapsed)
	}

	stats := collectRuntimeStats()
	logs.Dataf("%s  CPUs: %d  Goroutines: %d  alloc=%dMiB total_alloc=%dMiB num_gc=%d\n",
		stats.GoVersion, stats.NumCPU, stats.NumGoroutine,
		stats.AllocBytes/1024/1024, stats.TotalAlloc/1024/1024, stats.NumGC)
}

func printAudit(path string, r oplog.AuditReport) {
	logs.Titlef("\nLog %s\n", path)
	logs.DataKV("Lines", fmt.Sprint(r.Lines))
	logs.DataKV("Malformed", fmt.Sprint(len(r.Malformed)))
	for _, id := range r.Workers() {
		logs.DataKV(fmt.Sprintf("Thread %d", id), fmt.Sprint(r.PerWorker[id]))
	}
	for _, a := range oplog.Actions {
		logs.DataKV(a.String(), fmt.Sprint(r.PerAction[a]))
	}
}
