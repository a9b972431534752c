// Package snapshot pulls full metrics snapshots from the backend, on a fixed
// interval and on demand.
//
// Every pull gets a sequence number when it is issued. A completion is
// applied only if no newer pull has been issued since, so a slow response
// can never overwrite the result of a request started after it. Failures
// leave the last applied snapshot in place.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/logger"
	"github.com/atxtechbro/mcpdash/internal/loop"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
)

// DefaultInterval is the polling cadence.
const DefaultInterval = 5 * time.Second

// TickerFunc starts a periodic signal and returns its channel and a stop
// function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Option configures a Client.
type Option func(*Client)

// WithInterval sets the polling cadence.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTicker replaces the interval ticker.
func WithTicker(fn TickerFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.ticker = fn
		}
	}
}

// Client sequences pulls and delivers the winning results. All methods
// except Stop must be called on the executor's goroutine.
type Client struct {
	fetcher  Fetcher
	exec     loop.Executor
	log      logger.Logger
	interval time.Duration
	ticker   TickerFunc

	ctx     context.Context
	issued  uint64
	applied uint64

	onSnapshot func(*telemetry.Snapshot, uint64)
	onError    func(error, uint64)
	onStale    func(uint64)

	stopOnce sync.Once
	stop     chan struct{}
}

// NewClient returns a client that delivers completions through exec.
func NewClient(fetcher Fetcher, exec loop.Executor, opts ...Option) *Client {
	c := &Client{
		fetcher:  fetcher,
		exec:     exec,
		log:      logger.Noop(),
		interval: DefaultInterval,
		ticker:   realTicker,
		ctx:      context.Background(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSnapshot registers the handler for applied snapshots.
func (c *Client) OnSnapshot(fn func(snap *telemetry.Snapshot, seq uint64)) { c.onSnapshot = fn }

// OnError registers the handler for failures of the latest pull.
func (c *Client) OnError(fn func(err error, seq uint64)) { c.onError = fn }

// OnStale registers the handler for discarded superseded completions.
func (c *Client) OnStale(fn func(seq uint64)) { c.onStale = fn }

// Interval returns the polling cadence.
func (c *Client) Interval() time.Duration { return c.interval }

// Issued returns the sequence number of the most recent pull.
func (c *Client) Issued() uint64 { return c.issued }

// Applied returns the sequence number of the last applied snapshot, 0 if
// none has been applied.
func (c *Client) Applied() uint64 { return c.applied }

// RefreshNow issues one pull and returns its sequence number. The result
// arrives later through the handlers.
func (c *Client) RefreshNow() uint64 {
	c.issued++
	seq := c.issued
	ctx := c.ctx

	go func() {
		snap, err := c.fetcher.Fetch(ctx)
		c.exec.Post(func() { c.complete(seq, snap, err) })
	}()
	return seq
}

func (c *Client) complete(seq uint64, snap *telemetry.Snapshot, err error) {
	if seq != c.issued {
		c.log.Debug("discarding pull #%d, #%d is newer", seq, c.issued)
		if c.onStale != nil {
			c.onStale(seq)
		}
		return
	}

	if err == nil && snap == nil {
		err = errors.New(errors.ErrPull, "Metrics backend returned no snapshot", "")
	}
	if err != nil {
		if !errors.IsCode(err, errors.ErrPull) {
			err = errors.WrapWithCode(err, errors.ErrPull, "Pull failed", "")
		}
		c.log.Warn("pull #%d failed: %s", seq, errors.Short(err))
		if c.onError != nil {
			c.onError(err, seq)
		}
		return
	}

	c.applied = seq
	c.log.Debug("applied pull #%d", seq)
	if c.onSnapshot != nil {
		c.onSnapshot(snap, seq)
	}
}

// Start issues an immediate pull and then one per interval until ctx ends
// or Stop is called. Pulls issued afterwards use ctx for their requests.
func (c *Client) Start(ctx context.Context) {
	c.ctx = ctx
	c.RefreshNow()

	tick, stopTicker := c.ticker(c.interval)
	go func() {
		defer stopTicker()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-tick:
				c.exec.Post(func() {
					select {
					case <-c.stop:
					default:
						c.RefreshNow()
					}
				})
			}
		}
	}()
}

// Stop ends interval polling. In-flight pulls still complete. Safe to call
// from any goroutine and more than once.
func (c *Client) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
