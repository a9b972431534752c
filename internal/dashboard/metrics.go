package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for EventsTotal.
const (
	OutcomeAppended  = "appended"
	OutcomePaused    = "dropped_paused"
	OutcomeMalformed = "malformed"
)

// Result labels for PullsTotal.
const (
	PullApplied = "applied"
	PullFailed  = "failed"
	PullStale   = "stale"
	PullLimited = "rate_limited"
)

// Metrics are the dashboard's own client-side counters.
type Metrics struct {
	// Push events by what happened to them.
	EventsTotal *prometheus.CounterVec

	// Pull completions by result. rate_limited counts push-triggered pulls
	// that were skipped.
	PullsTotal *prometheus.CounterVec

	PullDuration prometheus.Histogram

	// Reconnect timers armed.
	ReconnectsTotal prometheus.Counter

	// 1 while the push channel is open.
	ConnectionOpen prometheus.Gauge

	FeedSize prometheus.Gauge
}

// NewMetrics registers the dashboard metrics on reg. A nil reg gets a
// private registry that is never exposed.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		EventsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mcpdash_push_events_total",
			Help: "Push events received, by outcome.",
		}, []string{"outcome"}),

		PullsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mcpdash_pulls_total",
			Help: "Snapshot pulls, by result.",
		}, []string{"result"}),

		PullDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "mcpdash_pull_duration_seconds",
			Help:    "Duration of snapshot pull requests.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		ReconnectsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "mcpdash_reconnects_total",
			Help: "Push reconnect attempts scheduled.",
		}),

		ConnectionOpen: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "mcpdash_push_connection_open",
			Help: "Whether the push channel is open (1) or not (0).",
		}),

		FeedSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "mcpdash_feed_events",
			Help: "Events currently held in the live feed.",
		}),
	}
}
