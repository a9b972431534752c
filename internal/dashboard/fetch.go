package dashboard

import (
	"context"
	"time"

	"github.com/atxtechbro/mcpdash/internal/snapshot"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

// timedFetcher records the duration of every pull.
type timedFetcher struct {
	next     snapshot.Fetcher
	duration prometheus.Observer
}

func (f timedFetcher) Fetch(ctx context.Context) (*telemetry.Snapshot, error) {
	start := time.Now()
	defer func() { f.duration.Observe(time.Since(start).Seconds()) }()
	return f.next.Fetch(ctx)
}
