package oplog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	logs "github.com/danmuck/smplog"
)

var ErrLoggerStarted = errors.New("oplog: logger already started")

type State int32

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// LineWriter is the destination of the operation log.
type LineWriter interface {
	WriteLine(line string) error // append one record, newline added by the writer
	Flush() error                // push buffered records to the backing store
	Close() error                // flush and release the backing store
}

// OpenFunc acquires the LineWriter for a log path.
type OpenFunc func(path string) (LineWriter, error)

// FileWriter appends newline-terminated records to a file.
type FileWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// OpenFile opens path for appending, creating it when absent.
func OpenFile(path string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

func (w *FileWriter) WriteLine(line string) error {
	if _, err := w.buf.WriteString(line); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *FileWriter) Flush() error {
	return w.buf.Flush()
}

func (w *FileWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

func openFileWriter(path string) (LineWriter, error) {
	w, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Logger is the single consumer of the operation channel. It owns the log
// file for its whole run: acquired once on start, released on exit.
type Logger struct {
	path  string
	open  OpenFunc
	state atomic.Int32
	lines atomic.Int64
}

// NewLogger returns a Logger that appends to the file at path.
func NewLogger(path string) *Logger {
	return &Logger{path: path, open: openFileWriter}
}

// WithOpener replaces how the log destination is acquired.
func (lg *Logger) WithOpener(open OpenFunc) *Logger {
	lg.open = open
	return lg
}

func (lg *Logger) Path() string {
	return lg.path
}

func (lg *Logger) State() State {
	return State(lg.state.Load())
}

// Lines returns the number of records written so far.
func (lg *Logger) Lines() int64 {
	return lg.lines.Load()
}

// Run drains rx until end of stream, writing every received line in arrival
// order. Any open, write or flush failure is fatal: the receiver is closed so
// producers stop, and the error is returned. Run may only be called once.
func (lg *Logger) Run(rx *Receiver[string]) (int, error) {
	if !lg.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return 0, ErrLoggerStarted
	}
	logs.Debugf("Logger.Run(%s): start", lg.path)

	w, err := lg.open(lg.path)
	if err != nil {
		return 0, lg.fail(rx, nil, fmt.Errorf("failed to open log file %s: %w", lg.path, err))
	}

	written := 0
	for {
		line, ok := rx.Receive()
		if !ok {
			break
		}
		if err := w.WriteLine(line); err != nil {
			return written, lg.fail(rx, w, fmt.Errorf("failed to write log line %d: %w", written+1, err))
		}
		written++
		lg.lines.Add(1)

		// flush while idle so the file trails the workers closely
		if rx.Pending() == 0 {
			if err := w.Flush(); err != nil {
				return written, lg.fail(rx, w, fmt.Errorf("failed to flush log file %s: %w", lg.path, err))
			}
		}
	}

	if err := w.Close(); err != nil {
		lg.state.Store(int32(StateFailed))
		return written, fmt.Errorf("failed to close log file %s: %w", lg.path, err)
	}
	lg.state.Store(int32(StateTerminated))
	logs.Debugf("Logger.Run(%s): done, %d line(s)", lg.path, written)
	return written, nil
}

func (lg *Logger) fail(rx *Receiver[string], w LineWriter, err error) error {
	rx.Close()
	if w != nil {
		_ = w.Close()
	}
	lg.state.Store(int32(StateFailed))
	logs.Warnf("Logger.Run(%s): aborted: %v", lg.path, err)
	return err
}
