package exchange

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

var (
	// ErrDisconnected means the other side hung up. Receivers only see it once
	// the queue is drained.
	ErrDisconnected = eris.New("channel disconnected")
	// ErrFull is returned by TrySend on a bounded channel at capacity.
	ErrFull = eris.New("channel full")
	// ErrEmpty is returned by TryRecv when nothing is buffered.
	ErrEmpty = eris.New("channel empty")
	// ErrTimeout is returned by RecvTimeout when the deadline passes first.
	ErrTimeout = eris.New("channel receive timed out")
)

// queue is one direction of a channel: a FIFO with an optional capacity that
// can be closed from either end.
//
// readable and writable are level hints with capacity one. Waiters re-check
// state under mu after every wakeup, so a stale hint only costs a loop.
type queue[T any] struct {
	mu       sync.Mutex
	buf      []T
	capacity int // 0 means unbounded
	closed   bool

	readable chan struct{}
	writable chan struct{}
	done     chan struct{}
	once     sync.Once
}

func newQueue[T any](capacity int) *queue[T] {
	return &queue[T]{
		capacity: capacity,
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (q *queue[T]) push(v T, block bool) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrDisconnected
		}
		if q.capacity == 0 || len(q.buf) < q.capacity {
			q.buf = append(q.buf, v)
			room := q.capacity == 0 || len(q.buf) < q.capacity
			q.mu.Unlock()
			notify(q.readable)
			if room {
				notify(q.writable)
			}
			return nil
		}
		q.mu.Unlock()
		if !block {
			return ErrFull
		}
		select {
		case <-q.writable:
		case <-q.done:
		}
	}
}

// pop takes the oldest value. A nil timeout blocks indefinitely.
func (q *queue[T]) pop(block bool, timeout <-chan time.Time) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if len(q.buf) > 0 {
			v := q.buf[0]
			q.buf[0] = zero
			q.buf = q.buf[1:]
			more := len(q.buf) > 0
			q.mu.Unlock()
			notify(q.writable)
			if more {
				notify(q.readable)
			}
			return v, nil
		}
		if q.closed {
			q.mu.Unlock()
			return zero, ErrDisconnected
		}
		q.mu.Unlock()
		if !block {
			return zero, ErrEmpty
		}
		select {
		case <-q.readable:
		case <-q.done:
		case <-timeout:
			return zero, ErrTimeout
		}
	}
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

func (q *queue[T]) close() {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.done)
	})
}
