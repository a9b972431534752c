// Package channel maintains the push connection to the metrics backend.
//
// The connection moves through Connecting, Open, Closed and Reconnecting.
// After a failed handshake or a lost connection a single reconnect timer is
// armed with a fixed delay; there is no exponential backoff. Opening a
// connection or closing the channel cancels any pending timer, and every
// dial gets a new generation number so completions from an older dial or
// read loop are ignored. Together these keep at most one reconnect timer
// pending no matter how the connection flaps.
//
// A Channel must be driven from one goroutine: the executor it was built
// with. Dials, reads and timers run elsewhere and post back to it.
package channel

import (
	"context"
	"time"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/logger"
	"github.com/atxtechbro/mcpdash/internal/loop"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
)

// DefaultReconnectDelay is the fixed wait before re-dialing.
const DefaultReconnectDelay = 3 * time.Second

// State is the push connection state.
type State int

const (
	// Closed means there is no connection. It is also the state before the
	// first Connect.
	Closed State = iota
	Connecting
	Open
	Reconnecting
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Reconnecting:
		return "reconnecting"
	default:
		return "closed"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Option configures a Channel.
type Option func(*Channel)

// WithDialer replaces the websocket dialer.
func WithDialer(d Dialer) Option {
	return func(c *Channel) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithClock replaces the clock used for reconnect timers.
func WithClock(clock Clock) Option {
	return func(c *Channel) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithReconnectDelay sets the fixed reconnect delay.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Channel) {
		if l != nil {
			c.log = l
		}
	}
}

// Channel is the push connection state machine.
type Channel struct {
	url    string
	dialer Dialer
	clock  Clock
	exec   loop.Executor
	log    logger.Logger
	delay  time.Duration

	state   State
	stopped bool
	gen     uint64
	conn    Conn
	cancel  context.CancelFunc

	timer      Timer
	timerToken uint64

	onEvent     func(telemetry.Event)
	onState     func(from, to State)
	onMalformed func(error)
}

// New returns a channel for the websocket URL. It does not connect until
// Connect is called.
func New(url string, exec loop.Executor, opts ...Option) *Channel {
	c := &Channel{
		url:    url,
		dialer: NewWebsocketDialer(),
		clock:  realClock{},
		exec:   exec,
		log:    logger.Noop(),
		delay:  DefaultReconnectDelay,
		state:  Closed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the push endpoint.
func (c *Channel) URL() string { return c.url }

// OnEvent registers the consumer for parsed events. It is called once per
// inbound event in arrival order.
func (c *Channel) OnEvent(fn func(telemetry.Event)) { c.onEvent = fn }

// OnStateChange registers a listener for state transitions.
func (c *Channel) OnStateChange(fn func(from, to State)) { c.onState = fn }

// OnMalformed registers a listener for dropped payloads.
func (c *Channel) OnMalformed(fn func(error)) { c.onMalformed = fn }

// State returns the current state.
func (c *Channel) State() State { return c.state }

// IsOpen reports whether the connection is open.
func (c *Channel) IsOpen() bool { return c.state == Open }

// PendingReconnect reports whether a reconnect timer is armed.
func (c *Channel) PendingReconnect() bool { return c.timer != nil }

// Connect starts connecting. It is a no-op while a connection is open or a
// handshake is in progress. A pending reconnect is replaced by an immediate
// dial.
func (c *Channel) Connect() {
	c.stopped = false
	if c.state == Open || c.state == Connecting {
		return
	}
	c.dial()
}

// Close tears the connection down, cancels any pending reconnect and stops
// reconnecting until the next Connect.
func (c *Channel) Close() {
	c.stopped = true
	c.cancelTimer()
	c.gen++
	c.dropConn()
	c.setState(Closed)
}

func (c *Channel) dial() {
	c.cancelTimer()
	c.dropConn()
	c.gen++
	gen := c.gen

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.setState(Connecting)
	c.log.Debug("dialing %s (gen %d)", c.url, gen)

	go func() {
		conn, err := c.dialer.Dial(ctx, c.url)
		if !c.exec.Post(func() { c.handshakeDone(gen, conn, err) }) && conn != nil {
			_ = conn.Close()
		}
	}()
}

func (c *Channel) handshakeDone(gen uint64, conn Conn, err error) {
	if gen != c.gen || c.stopped {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		if !errors.IsCode(err, errors.ErrTransport) {
			err = errors.WrapWithCode(err, errors.ErrTransport, "Push connection failed", "")
		}
		c.log.Info("push handshake failed: %s", errors.Short(err))
		c.dropConn()
		c.setState(Closed)
		c.scheduleReconnect()
		return
	}

	c.conn = conn
	c.cancelTimer()
	c.setState(Open)
	c.log.Info("push channel open at %s", c.url)
	go c.readLoop(gen, conn)
}

// readLoop runs on its own goroutine for the life of one connection.
func (c *Channel) readLoop(gen uint64, conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.exec.Post(func() { c.connectionLost(gen, err) })
			return
		}
		if !c.exec.Post(func() { c.receive(gen, data) }) {
			_ = conn.Close()
			return
		}
	}
}

func (c *Channel) receive(gen uint64, data []byte) {
	if gen != c.gen {
		return
	}
	ev, err := telemetry.ParseEvent(data)
	if err != nil {
		c.log.Warn("dropping malformed push payload (%d bytes): %s", len(data), errors.Short(err))
		if c.onMalformed != nil {
			c.onMalformed(err)
		}
		return
	}
	if c.onEvent != nil {
		c.onEvent(ev)
	}
}

func (c *Channel) connectionLost(gen uint64, err error) {
	if gen != c.gen {
		return
	}
	c.log.Info("push connection lost: %v", err)
	c.dropConn()
	c.setState(Closed)
	c.scheduleReconnect()
}

// scheduleReconnect arms the single reconnect timer, replacing any pending
// one.
func (c *Channel) scheduleReconnect() {
	if c.stopped {
		return
	}
	c.cancelTimer()
	token := c.timerToken
	c.timer = c.clock.AfterFunc(c.delay, func() {
		c.exec.Post(func() { c.timerFired(token) })
	})
	c.setState(Reconnecting)
	c.log.Debug("reconnecting in %s", c.delay)
}

func (c *Channel) timerFired(token uint64) {
	if token != c.timerToken || c.timer == nil || c.stopped {
		return
	}
	c.timer = nil
	c.timerToken++
	c.dial()
}

// cancelTimer stops the pending timer. Bumping the token also voids a timer
// that already fired but whose task has not run yet.
func (c *Channel) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerToken++
}

func (c *Channel) dropConn() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Channel) setState(s State) {
	if s == c.state {
		return
	}
	from := c.state
	c.state = s
	if c.onState != nil {
		c.onState(from, s)
	}
}
