// Package loop provides the dashboard's single control goroutine. Every
// state mutation runs as a task on the loop, so components it owns need no
// locks. Network reads, HTTP requests and timers run elsewhere and Post their
// results back.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do when the loop is no longer running.
var ErrStopped = errors.New("loop stopped")

// Executor runs tasks on the control loop. Post must not block and reports
// false when the task was rejected because the loop has stopped.
type Executor interface {
	Post(fn func()) bool
}

// Loop is a FIFO task queue drained by one goroutine. The queue is
// unbounded, so Post never blocks, including from inside a task.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	done chan struct{}
}

// New returns a loop that is ready to accept tasks. Tasks posted before Run
// execute once Run starts.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. It returns false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from a task, which would deadlock.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// The task may have run just before shutdown.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is cancelled. Tasks still queued at that
// point are discarded. Run returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}

		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.mu.Lock()
			batch := l.queue
			l.queue = nil
			l.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, fn := range batch {
				fn()
			}
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Inline is an Executor that runs tasks immediately on the caller's
// goroutine. It suits tests and callers that already serialize access.
type Inline struct{}

// Post runs fn and returns true.
func (Inline) Post(fn func()) bool {
	fn()
	return true
}

// Manual queues tasks until Drain is called. Tests use it to control exactly
// when asynchronous completions are delivered.
type Manual struct {
	mu    sync.Mutex
	queue []func()
}

// Post queues fn.
func (m *Manual) Post(fn func()) bool {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
	return true
}

// Pending returns the number of queued tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Drain runs queued tasks, including ones they post, until the queue is
// empty. It returns the number of tasks run.
func (m *Manual) Drain() int {
	n := 0
	for {
		m.mu.Lock()
		batch := m.queue
		m.queue = nil
		m.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}
