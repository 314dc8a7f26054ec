// Package queue provides a closeable multi-producer queue used to connect
// the stages of the aggregation pipeline.
//
// A queue closes when every producer handle registered on it has been
// closed; consumers observe that as the end of the stream. There is no
// sentinel value.
package queue

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when a closed producer handle is used.
var ErrClosed = errors.New("queue: producer closed")

// Queue is a FIFO conduit with any number of producers and consumers.
type Queue[T any] struct {
	items chan T

	mu   sync.Mutex
	open int // producer handles not yet closed
}

// Producer is a handle that may put items onto a Queue.
// A handle must not be closed while a Send or Clone on it is in flight.
type Producer[T any] struct {
	q      *Queue[T]
	closed atomic.Bool
}

// New creates a queue holding up to capacity buffered items and returns it
// together with its first producer handle. A capacity of zero makes every
// Send a synchronous hand-off.
func New[T any](capacity int) (*Queue[T], *Producer[T]) {
	if capacity < 0 {
		capacity = 0
	}
	q := &Queue[T]{
		items: make(chan T, capacity),
		open:  1,
	}
	return q, &Producer[T]{q: q}
}

// Receive blocks until an item is available. The second return value is
// false once the queue is closed and drained.
func (q *Queue[T]) Receive() (T, bool) {
	v, ok := <-q.items
	return v, ok
}

// Items exposes the queue as a receive-only channel for use with range.
func (q *Queue[T]) Items() <-chan T {
	return q.items
}

// Len reports the number of buffered items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Clone registers an additional producer on the same queue.
func (p *Producer[T]) Clone() (*Producer[T], error) {
	p.q.mu.Lock()
	defer p.q.mu.Unlock()

	if p.closed.Load() {
		return nil, ErrClosed
	}
	p.q.open++
	return &Producer[T]{q: p.q}, nil
}

// Send puts v on the queue, blocking while the buffer is full.
func (p *Producer[T]) Send(v T) error {
	if p.closed.Load() {
		return ErrClosed
	}
	p.q.items <- v
	return nil
}

// Close releases the handle. Closing the last open handle closes the queue.
// Close is idempotent.
func (p *Producer[T]) Close() {
	p.q.mu.Lock()
	defer p.q.mu.Unlock()

	if p.closed.Swap(true) {
		return
	}
	p.q.open--
	if p.q.open == 0 {
		close(p.q.items)
	}
}
