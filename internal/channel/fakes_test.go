package channel

import (
	"context"
	"io"
	"sync"
	"time"
)

// fakeConn delivers messages pushed by the test and fails with the error
// passed to fail.
type fakeConn struct {
	msgs      chan []byte
	errs      chan error
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		msgs:   make(chan []byte, 16),
		errs:   make(chan error, 1),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case m := <-c.msgs:
		return 1, m, nil
	case err := <-c.errs:
		return 0, nil, err
	case <-c.closed:
		return 0, nil, io.EOF
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) send(s string) { c.msgs <- []byte(s) }

func (c *fakeConn) fail(err error) {
	select {
	case c.errs <- err:
	default:
	}
}

type dialResult struct {
	conn Conn
	err  error
}

// fakeDialer hands each Dial call to the test, which answers it.
type fakeDialer struct {
	mu      sync.Mutex
	pending []chan dialResult
	calls   int
}

func (d *fakeDialer) Dial(ctx context.Context, _ string) (Conn, error) {
	ch := make(chan dialResult, 1)
	d.mu.Lock()
	d.pending = append(d.pending, ch)
	d.calls++
	d.mu.Unlock()

	select {
	case r := <-ch:
		return r.conn, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *fakeDialer) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// answer resolves the oldest unanswered dial.
func (d *fakeDialer) answer(r dialResult) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return false
	}
	ch := d.pending[0]
	d.pending = d.pending[1:]
	ch <- r
	return true
}

type fakeTimer struct {
	clock   *fakeClock
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock records timers; the test fires them explicitly.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, fn: fn}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

// live counts timers that are neither stopped nor fired.
func (c *fakeClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fireAll runs every live timer's callback, as if the delay elapsed.
func (c *fakeClock) fireAll() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
	return len(due)
}
