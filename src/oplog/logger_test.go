package oplog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestLoggerWritesInArrivalOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	tx, rx := NewChannel[string]()
	lg := NewLogger(path)
	assert.Equal(t, StateIdle, lg.State())

	want := []string{
		Entry{1, ActionInsert, 5}.String(),
		Entry{1, ActionInsert, 3}.String(),
		Entry{1, ActionInsert, 8}.String(),
		Entry{1, ActionDelete, 3}.String(),
		Entry{1, ActionSearch, 5}.String(),
		Entry{1, ActionSearch, 3}.String(),
	}
	for _, line := range want {
		require.NoError(t, tx.Send(line))
	}
	tx.Close()

	n, err := lg.Run(rx)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)
	assert.Equal(t, int64(len(want)), lg.Lines())
	assert.Equal(t, StateTerminated, lg.State())
	assert.Equal(t, want, readLines(t, path))
}

func TestLoggerAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	tx, rx := NewChannel[string]()
	require.NoError(t, tx.Send("Thread 1: Deleting value: 9"))
	tx.Close()

	_, err := NewLogger(path).Run(rx)
	require.NoError(t, err)
	assert.Equal(t, []string{"previous run", "Thread 1: Deleting value: 9"}, readLines(t, path))
}

func TestLoggerDrainsConcurrentProducers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	tx, rx := NewChannel[string]()
	lg := NewLogger(path)

	done := make(chan error, 1)
	go func() {
		_, err := lg.Run(rx)
		done <- err
	}()

	const perWorker = 500
	for id := 1; id <= 3; id++ {
		s, err := tx.Clone()
		require.NoError(t, err)
		go func(id int, s *Sender[string]) {
			defer s.Close()
			for i := 0; i < perWorker; i++ {
				_ = s.Send(Entry{Worker: id, Action: ActionSearch, Value: i}.String())
			}
		}(id, s)
	}
	tx.Close()

	require.NoError(t, <-done)

	report, err := Audit(path)
	require.NoError(t, err)
	require.NoError(t, report.Check(3, perWorker))

	// each worker's own lines keep their send order
	next := map[int]int{}
	for _, line := range readLines(t, path) {
		e, err := ParseEntry(line)
		require.NoError(t, err)
		require.Equal(t, next[e.Worker], e.Value)
		next[e.Worker]++
	}
}

func TestLoggerOpenFailureIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "log.txt")
	tx, rx := NewChannel[string]()
	lg := NewLogger(path)

	n, err := lg.Run(rx)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, StateFailed, lg.State())

	// producers observe the dead reader
	assert.ErrorIs(t, tx.Send("Thread 1: Inserting value: 1"), ErrReceiverClosed)
}

type failingWriter struct {
	allowed int
	lines   []string
	closed  bool
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) WriteLine(line string) error {
	if len(w.lines) >= w.allowed {
		return errDiskFull
	}
	w.lines = append(w.lines, line)
	return nil
}

func (w *failingWriter) Flush() error { return nil }

func (w *failingWriter) Close() error {
	w.closed = true
	return nil
}

func TestLoggerWriteFailureIsFatal(t *testing.T) {
	w := &failingWriter{allowed: 2}
	lg := NewLogger("unused").WithOpener(func(string) (LineWriter, error) { return w, nil })

	tx, rx := NewChannel[string]()
	for i := 0; i < 5; i++ {
		require.NoError(t, tx.Send(Entry{Worker: 1, Action: ActionInsert, Value: i}.String()))
	}

	n, err := lg.Run(rx)
	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 2, n)
	assert.Equal(t, StateFailed, lg.State())
	assert.True(t, w.closed, "writer must be released on failure")
	assert.ErrorIs(t, tx.Send("late"), ErrReceiverClosed)
}

func TestLoggerRunsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	tx, rx := NewChannel[string]()
	tx.Close()

	lg := NewLogger(path)
	_, err := lg.Run(rx)
	require.NoError(t, err)

	_, err = lg.Run(rx)
	assert.ErrorIs(t, err, ErrLoggerStarted)
}
