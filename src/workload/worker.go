package workload

import (
	"fmt"

	logs "github.com/danmuck/smplog"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/sorted_list/src/oplog"
	"github.com/danmuck/sorted_list/src/sorted_list"
)

// Worker issues a fixed number of operations against a shared list, logging
// each one before performing it.
type Worker struct {
	ID         int // 1-based
	Iterations int

	source  Source
	list    *sorted_list.SortedList
	tx      *oplog.Sender[string]
	metrics *Metrics
}

// Run executes the worker loop and closes the worker's sender on return.
// A failed send ends the worker: the operation it described is not performed.
func (w *Worker) Run() error {
	defer w.tx.Close()
	logs.Debugf("Worker(%d).Run(): start, %d iteration(s)", w.ID, w.Iterations)

	for i := 0; i < w.Iterations; i++ {
		op := w.source.Next()
		entry := oplog.Entry{Worker: w.ID, Action: op.Action, Value: op.Value}
		if err := w.tx.Send(entry.String()); err != nil {
			w.metrics.sendFailed()
			return fmt.Errorf("worker %d: failed to send log entry %d: %w", w.ID, i+1, err)
		}
		w.metrics.observe(op, Apply(w.list, op))
	}

	logs.Debugf("Worker(%d).Run(): done", w.ID)
	return nil
}

// Group is a set of workers sharing one list and one log channel.
type Group struct {
	workers []*Worker
}

// NewGroup gives every source its own worker and its own clone of tx.
// tx itself stays owned by the caller.
func NewGroup(list *sorted_list.SortedList, tx *oplog.Sender[string], metrics *Metrics, iterations int, sources []Source) (*Group, error) {
	g := &Group{workers: make([]*Worker, 0, len(sources))}
	for i, src := range sources {
		clone, err := tx.Clone()
		if err != nil {
			g.release()
			return nil, fmt.Errorf("failed to open log sender for worker %d: %w", i+1, err)
		}
		g.workers = append(g.workers, &Worker{
			ID:         i + 1,
			Iterations: iterations,
			source:     src,
			list:       list,
			tx:         clone,
			metrics:    metrics,
		})
	}
	return g, nil
}

func (g *Group) Size() int {
	return len(g.workers)
}

// Run starts every worker and waits for all of them. Workers are never
// cancelled; the first failure is returned once the rest have finished.
func (g *Group) Run() error {
	var eg errgroup.Group
	for _, w := range g.workers {
		eg.Go(w.Run)
	}
	return eg.Wait()
}

func (g *Group) release() {
	for _, w := range g.workers {
		w.tx.Close()
	}
}
