package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MetricsPath is the pull endpoint relative to the server base URL.
const MetricsPath = "/api/metrics"

// maxBodyBytes caps how much of a pull response is read.
const maxBodyBytes = 16 << 20

const tracerName = "mcpdash.snapshot"

// Fetcher performs one pull.
type Fetcher interface {
	Fetch(ctx context.Context) (*telemetry.Snapshot, error)
}

// HTTPFetcher pulls snapshots from the backend over HTTP.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher returns a fetcher for <server>/api/metrics. A nil client
// gets a default client whose transport records a span per request.
// Requests carry no timeout beyond what the client's transport imposes.
func NewHTTPFetcher(server string, client *http.Client) (*HTTPFetcher, error) {
	u, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Can't pull from '%s'", server),
			"Use an http(s) URL like http://localhost:8080")
	}
	u.Path = strings.TrimRight(u.Path, "/") + MetricsPath

	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &HTTPFetcher{url: u.String(), client: client}, nil
}

// URL returns the pull endpoint.
func (f *HTTPFetcher) URL() string { return f.url }

// Fetch issues GET /api/metrics. Non-2xx responses and undecodable bodies
// are PULL errors.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*telemetry.Snapshot, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "snapshot.fetch",
		trace.WithAttributes(attribute.String("url.full", f.url)))
	defer span.End()

	snap, err := f.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pull failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("snapshot.tools", snap.ToolCalls.Len()),
		attribute.Int("snapshot.timeline_points", len(snap.ActivityTimeline)),
	)
	return snap, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context) (*telemetry.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPull, "Couldn't build pull request", "")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPull,
			"Metrics backend unreachable",
			"Check the backend is running at "+f.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.New(errors.ErrPull,
			fmt.Sprintf("Metrics backend returned %s", resp.Status),
			"Check the backend logs")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPull, "Couldn't read metrics response", "")
	}

	snap, err := telemetry.DecodeSnapshot(body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPull,
			"Metrics response isn't a valid snapshot",
			"Check "+f.url+" returns the metrics JSON document")
	}
	return snap, nil
}
