// Package notify delivers state snapshots to a single listener in commit
// order without holding the owner's lock during the call.
package notify

import "sync"

// Queue serializes listener calls. The owner pushes while holding its own
// lock, releases it, then drains; whichever goroutine is already draining
// delivers values pushed by others, so the listener is free to read (or
// mutate) the owner.
type Queue[T any] struct {
	fn func(T)

	mu       sync.Mutex
	pending  []T
	draining bool
}

// New returns a queue delivering to fn. A nil fn makes every Push a no-op.
func New[T any](fn func(T)) *Queue[T] {
	return &Queue[T]{fn: fn}
}

// Push queues v. It must be called with the owner's lock held so values
// enter the queue in commit order. It reports whether the caller has to
// call Drain once that lock is released.
func (q *Queue[T]) Push(v T) bool {
	if q == nil || q.fn == nil {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, v)
	if q.draining {
		return false
	}

	q.draining = true

	return true
}

// Drain delivers queued values until none are left. No lock is held while
// the listener runs.
func (q *Queue[T]) Drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()

			return
		}

		v := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.fn(v)
	}
}
