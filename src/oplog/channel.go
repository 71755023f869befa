package oplog

import (
	"errors"
	"sync"
)

var (
	ErrReceiverClosed = errors.New("oplog: receiver closed")
	ErrSenderClosed   = errors.New("oplog: sender closed")
)

// queue is the shared state behind one channel: an unbounded FIFO, the
// number of live sender handles and whether the reader end still exists.
type queue[T any] struct {
	mu       sync.Mutex
	ready    *sync.Cond
	items    []T
	senders  int
	rxClosed bool
}

// Sender is one write handle of a channel. Handles are independent: closing
// one does not affect the others, and the stream ends once all are closed.
type Sender[T any] struct {
	q      *queue[T]
	closed bool // guarded by q.mu
}

// Receiver is the single read handle of a channel.
type Receiver[T any] struct {
	q *queue[T]
}

// NewChannel returns the first sender handle and the receiver of an
// unbounded multi-producer single-consumer channel.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{senders: 1}
	q.ready = sync.NewCond(&q.mu)
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Send enqueues v. It never waits on capacity.
func (s *Sender[T]) Send(v T) error {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()

	if s.closed {
		return ErrSenderClosed
	}
	if s.q.rxClosed {
		return ErrReceiverClosed
	}
	s.q.items = append(s.q.items, v)
	s.q.ready.Signal()
	return nil
}

// Clone registers another sender handle on the same channel.
func (s *Sender[T]) Clone() (*Sender[T], error) {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()

	if s.closed {
		return nil, ErrSenderClosed
	}
	s.q.senders++
	return &Sender[T]{q: s.q}, nil
}

// Close drops this handle. Safe to call more than once.
func (s *Sender[T]) Close() {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.q.senders--
	if s.q.senders == 0 {
		s.q.ready.Broadcast()
	}
}

// Receive blocks until a value is queued or every sender is closed.
// ok is false only at end of stream, after all queued values were returned.
func (r *Receiver[T]) Receive() (v T, ok bool) {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	for len(r.q.items) == 0 && r.q.senders > 0 && !r.q.rxClosed {
		r.q.ready.Wait()
	}
	if len(r.q.items) == 0 {
		return v, false
	}

	v = r.q.items[0]
	var zero T
	r.q.items[0] = zero
	r.q.items = r.q.items[1:]
	if len(r.q.items) == 0 {
		r.q.items = nil
	}
	return v, true
}

// Pending returns how many values are queued and not yet received.
func (r *Receiver[T]) Pending() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.items)
}

// Close drops the reader end. Queued values are discarded and every later
// Send fails with ErrReceiverClosed.
func (r *Receiver[T]) Close() {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	r.q.rxClosed = true
	r.q.items = nil
	r.q.ready.Broadcast()
}
