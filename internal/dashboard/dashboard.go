// Package dashboard composes the push channel, the snapshot client, the live
// feed and the chart controller into one dashboard instance.
//
// Push events go to the feed and then trigger a pull. Pulled snapshots go to
// the chart controller. User actions change only the feed and the charts;
// they never touch connection or polling cadence. Everything runs on the
// dashboard's control loop, and renderers observe the result through
// immutable View values.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/atxtechbro/mcpdash/internal/channel"
	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/feed"
	"github.com/atxtechbro/mcpdash/internal/logger"
	"github.com/atxtechbro/mcpdash/internal/loop"
	"github.com/atxtechbro/mcpdash/internal/snapshot"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Options configures a Dashboard. Zero values take the package defaults.
type Options struct {
	// Server is the backend base URL, e.g. http://localhost:8080.
	Server string

	PollInterval   time.Duration
	ReconnectDelay time.Duration
	FeedCapacity   int
	Palette        charts.PaletteMode
	Kinds          map[charts.ChartID]charts.Kind

	// PushRefreshLimit caps push-triggered pulls per second. Zero means
	// every push triggers a pull.
	PushRefreshLimit float64

	Logger     logger.Logger
	Registerer prometheus.Registerer

	// Transport and time overrides, mostly for tests.
	Fetcher  snapshot.Fetcher
	Dialer   channel.Dialer
	Clock    channel.Clock
	Ticker   snapshot.TickerFunc
	Location *time.Location
	Now      func() time.Time
}

// Dashboard is one running dashboard instance.
type Dashboard struct {
	id     string
	server string
	log    logger.Logger
	now    func() time.Time

	loop      *loop.Loop
	channel   *channel.Channel
	snapshots *snapshot.Client
	feed      *feed.Feed
	charts    *charts.Controller
	metrics   *Metrics
	limiter   *rate.Limiter

	// Owned by the loop.
	lastUpdate time.Time
	lastErr    string
	version    uint64

	viewMu sync.RWMutex
	view   View

	subMu  sync.Mutex
	subs   map[int]func(View)
	nextID int

	lifeMu  sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
}

// New builds a dashboard. It does not connect or poll until Start.
func New(opts Options) (*Dashboard, error) {
	wsURL, err := channel.WebsocketURL(opts.Server)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	d := &Dashboard{
		id:      uuid.New().String(),
		server:  opts.Server,
		log:     logger.Named(log, "dashboard"),
		now:     now,
		loop:    loop.New(),
		metrics: NewMetrics(opts.Registerer),
		subs:    make(map[int]func(View)),
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		hf, err := snapshot.NewHTTPFetcher(opts.Server, nil)
		if err != nil {
			return nil, err
		}
		fetcher = hf
	}
	fetcher = timedFetcher{next: fetcher, duration: d.metrics.PullDuration}

	d.feed = feed.New(opts.FeedCapacity)

	chartOpts := []charts.Option{charts.WithPaletteMode(opts.Palette), charts.WithLocation(opts.Location)}
	for id, kind := range opts.Kinds {
		chartOpts = append(chartOpts, charts.WithKind(id, kind))
	}
	d.charts = charts.NewController(chartOpts...)

	d.snapshots = snapshot.NewClient(fetcher, d.loop,
		snapshot.WithInterval(opts.PollInterval),
		snapshot.WithTicker(opts.Ticker),
		snapshot.WithLogger(logger.Named(log, "snapshot")))

	d.channel = channel.New(wsURL, d.loop,
		channel.WithDialer(opts.Dialer),
		channel.WithClock(opts.Clock),
		channel.WithReconnectDelay(opts.ReconnectDelay),
		channel.WithLogger(logger.Named(log, "channel")))

	if opts.PushRefreshLimit > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.PushRefreshLimit), 1)
	}

	d.channel.OnEvent(d.handleEvent)
	d.channel.OnMalformed(func(error) {
		d.metrics.EventsTotal.WithLabelValues(OutcomeMalformed).Inc()
	})
	d.channel.OnStateChange(d.handleState)
	d.snapshots.OnSnapshot(d.handleSnapshot)
	d.snapshots.OnError(d.handlePullError)
	d.snapshots.OnStale(func(uint64) {
		d.metrics.PullsTotal.WithLabelValues(PullStale).Inc()
	})
	d.feed.Subscribe(d.publish)
	d.charts.Subscribe(d.publish)

	d.publish()
	return d, nil
}

// ID returns the instance id.
func (d *Dashboard) ID() string { return d.id }

// Metrics returns the dashboard's metrics.
func (d *Dashboard) Metrics() *Metrics { return d.metrics }

// Start runs the control loop, connects the push channel and starts polling.
// The dashboard stops when ctx ends or Close is called.
func (d *Dashboard) Start(ctx context.Context) error {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()
	if d.closed {
		return errors.New(errors.ErrExec, "Dashboard already closed", "")
	}
	if d.started {
		return errors.New(errors.ErrExec, "Dashboard already started", "")
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	go func() {
		_ = d.loop.Run(ctx)
	}()
	d.loop.Post(func() {
		d.log.Info("dashboard %s starting against %s", d.id, d.server)
		d.channel.Connect()
		d.snapshots.Start(ctx)
	})
	return nil
}

// Close stops polling, closes the push channel (cancelling any pending
// reconnect) and stops the loop. It blocks until the loop has exited.
func (d *Dashboard) Close() {
	d.lifeMu.Lock()
	if d.closed {
		d.lifeMu.Unlock()
		return
	}
	d.closed = true
	started := d.started
	d.lifeMu.Unlock()

	if !started {
		d.snapshots.Stop()
		d.channel.Close()
		return
	}

	d.snapshots.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.loop.Do(ctx, d.channel.Close)
	d.cancel()
	<-d.loop.Done()
	if err != nil {
		// The loop is gone, so nothing else touches the channel now.
		d.channel.Close()
	}
	d.log.Info("dashboard %s closed", d.id)
}

// Done is closed once the dashboard's loop has exited.
func (d *Dashboard) Done() <-chan struct{} { return d.loop.Done() }

func (d *Dashboard) handleEvent(ev telemetry.Event) {
	if d.feed.Append(ev) {
		d.metrics.EventsTotal.WithLabelValues(OutcomeAppended).Inc()
	} else {
		d.metrics.EventsTotal.WithLabelValues(OutcomePaused).Inc()
	}

	if d.limiter != nil && !d.limiter.Allow() {
		d.metrics.PullsTotal.WithLabelValues(PullLimited).Inc()
		d.log.Debug("push-triggered pull skipped by rate limit")
		return
	}
	d.snapshots.RefreshNow()
}

func (d *Dashboard) handleState(from, to channel.State) {
	if to == channel.Open {
		d.metrics.ConnectionOpen.Set(1)
	} else {
		d.metrics.ConnectionOpen.Set(0)
	}
	if to == channel.Reconnecting {
		d.metrics.ReconnectsTotal.Inc()
	}
	d.log.Debug("push channel %s -> %s", from, to)
	d.publish()
}

func (d *Dashboard) handleSnapshot(snap *telemetry.Snapshot, _ uint64) {
	d.metrics.PullsTotal.WithLabelValues(PullApplied).Inc()
	d.lastUpdate = d.now()
	d.lastErr = ""
	d.charts.ApplySnapshot(snap)
}

func (d *Dashboard) handlePullError(err error, _ uint64) {
	d.metrics.PullsTotal.WithLabelValues(PullFailed).Inc()
	d.lastErr = errors.Short(err)
	d.publish()
}

// publish rebuilds the View. It runs on the loop, or in New before the loop
// exists.
func (d *Dashboard) publish() {
	d.version++
	d.metrics.FeedSize.Set(float64(d.feed.Len()))

	v := View{
		ID:               d.id,
		Version:          d.version,
		Server:           d.server,
		Connection:       d.channel.State(),
		IsOpen:           d.channel.IsOpen(),
		ReconnectPending: d.channel.PendingReconnect(),
		Feed:             d.feed.Items(),
		FeedState:        d.feed.State(),
		FeedCapacity:     d.feed.Cap(),
		Paused:           d.feed.Paused(),
		Charts:           d.charts.Descriptors(),
		Figures:          d.charts.Figures(),
		Palette:          d.charts.PaletteMode(),
		HasSnapshot:      d.charts.Snapshot() != nil,
		LastUpdate:       d.lastUpdate,
		LastError:        d.lastErr,
	}

	d.viewMu.Lock()
	d.view = v
	d.viewMu.Unlock()

	d.subMu.Lock()
	subs := make([]func(View), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.subMu.Unlock()
	for _, fn := range subs {
		fn(v)
	}
}

// View returns the latest published view. Safe from any goroutine.
func (d *Dashboard) View() View {
	d.viewMu.RLock()
	defer d.viewMu.RUnlock()
	return d.view
}

// Subscribe registers fn to receive every new View. fn runs on the control
// loop and must not block. Safe from any goroutine.
func (d *Dashboard) Subscribe(fn func(View)) (unsubscribe func()) {
	d.subMu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	d.subMu.Unlock()
	return func() {
		d.subMu.Lock()
		delete(d.subs, id)
		d.subMu.Unlock()
	}
}
