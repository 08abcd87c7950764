// ABOUTME: Unbounded FIFO queue between mixer callers and the speaker
// ABOUTME: Producers never block; the single consumer sleeps until work arrives
package mixer

import "sync"

// queue is a multi-producer, single-consumer FIFO with no capacity limit
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{}
	closed bool
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		ready: make(chan struct{}, 1),
	}
}

// push appends item. It reports false once the queue is closed.
func (q *queue[T]) push(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.signal()
	return true
}

// pushAndClose appends a final item and rejects everything after it
func (q *queue[T]) pushAndClose(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, item)
	q.closed = true
	q.mu.Unlock()

	q.signal()
	return true
}

func (q *queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// pop blocks until an item is available
func (q *queue[T]) pop() T {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			var zero T
			q.items[0] = zero
			q.items = q.items[1:]
			q.mu.Unlock()
			return item
		}
		q.mu.Unlock()

		<-q.ready
	}
}

// size returns the number of items waiting
func (q *queue[T]) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
