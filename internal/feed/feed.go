// Package feed holds the bounded live feed of recent push events.
//
// A Feed is owned by a single goroutine (the dashboard control loop) and
// does no locking of its own.
package feed

import "github.com/atxtechbro/mcpdash/internal/telemetry"

// DefaultCapacity is the number of events kept when no capacity is given.
const DefaultCapacity = 20

// State distinguishes the two empty presentations.
type State int

const (
	// StateWaiting means nothing has arrived yet.
	StateWaiting State = iota
	// StateCleared means the user emptied the feed.
	StateCleared
	// StateActive means the feed holds at least one event.
	StateActive
)

// Feed is a newest-first ring of recent events.
type Feed struct {
	buf     *ring[telemetry.Event]
	paused  bool
	cleared bool

	subs   map[int]func()
	nextID int
}

// New returns an empty feed holding at most capacity events. A capacity of
// zero or less uses DefaultCapacity.
func New(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		buf:  newRing[telemetry.Event](capacity),
		subs: make(map[int]func()),
	}
}

// Append inserts ev at the head, evicting the oldest event when full.
// While paused the event is dropped and Append returns false.
// Duplicate events are stored as distinct entries.
func (f *Feed) Append(ev telemetry.Event) bool {
	if f.paused {
		return false
	}
	f.buf.push(ev)
	f.cleared = false
	f.notify()
	return true
}

// Clear empties the feed. Pause state is unchanged.
func (f *Feed) Clear() {
	f.buf.reset()
	f.cleared = true
	f.notify()
}

// Pause makes Append a no-op until Resume. Dropped events are not replayed.
func (f *Feed) Pause() {
	if f.paused {
		return
	}
	f.paused = true
	f.notify()
}

// Resume re-enables Append.
func (f *Feed) Resume() {
	if !f.paused {
		return
	}
	f.paused = false
	f.notify()
}

// Paused reports whether appends are being dropped.
func (f *Feed) Paused() bool { return f.paused }

// Items returns a copy of the contents, newest first.
func (f *Feed) Items() []telemetry.Event { return f.buf.newestFirst() }

// Len returns the number of stored events.
func (f *Feed) Len() int { return f.buf.count }

// Cap returns the capacity.
func (f *Feed) Cap() int { return len(f.buf.data) }

// State reports which presentation the feed is in.
func (f *Feed) State() State {
	switch {
	case f.buf.count > 0:
		return StateActive
	case f.cleared:
		return StateCleared
	default:
		return StateWaiting
	}
}

// Subscribe registers fn to run after every change. The returned function
// removes the subscription.
func (f *Feed) Subscribe(fn func()) (unsubscribe func()) {
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	return func() { delete(f.subs, id) }
}

func (f *Feed) notify() {
	for _, fn := range f.subs {
		fn()
	}
}
