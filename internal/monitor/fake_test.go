package monitor

import (
	"sync"
	"time"

	"github.com/atxtechbro/mcpdash/internal/channel"
	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/dashboard"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/feed"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
)

// fakeSource records actions and lets tests publish Views.
type fakeSource struct {
	mu      sync.Mutex
	view    dashboard.View
	subs    map[int]func(dashboard.View)
	nextSub int

	pauses   int
	clears   int
	toggles  int
	refreshs int
	cycled   []charts.ChartID
	cycleErr error
}

func newFakeSource(v dashboard.View) *fakeSource {
	return &fakeSource{view: v, subs: make(map[int]func(dashboard.View))}
}

func (f *fakeSource) View() dashboard.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *fakeSource) Subscribe(fn func(dashboard.View)) func() {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *fakeSource) publish(v dashboard.View) {
	f.mu.Lock()
	f.view = v
	subs := make([]func(dashboard.View), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(v)
	}
}

func (f *fakeSource) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeSource) TogglePause()   { f.pauses++ }
func (f *fakeSource) ClearFeed()     { f.clears++ }
func (f *fakeSource) TogglePalette() { f.toggles++ }
func (f *fakeSource) Refresh()       { f.refreshs++ }

func (f *fakeSource) CycleKind(id charts.ChartID) error {
	f.cycled = append(f.cycled, id)
	return f.cycleErr
}

var (
	_ Source = (*fakeSource)(nil)
	_ Source = (*dashboard.Dashboard)(nil)
)

var testBase = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func sampleSnapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Summary: telemetry.Summary{
			TotalToolCalls:       42,
			OverallSuccessRate:   0.95,
			AverageExecutionTime: 120,
			ErrorRate:            0.05,
			MostUsedTool:         "git_status",
			MostActiveBranch:     "main",
		},
		ToolCalls: telemetry.NewCounts(
			telemetry.Entry{Key: "git_status", Value: 10},
			telemetry.Entry{Key: "read_file", Value: 8},
		),
		ActivityTimeline: []telemetry.TimelinePoint{
			{Time: testBase, ToolCalls: 3, Errors: 0},
			{Time: testBase.Add(time.Minute), ToolCalls: 7, Errors: 1},
		},
		BranchActivity: telemetry.NewCounts(
			telemetry.Entry{Key: "main", Value: 30},
			telemetry.Entry{Key: "dev", Value: 10},
		),
	}
}

// sampleView builds a View the way the dashboard publishes one.
func sampleView(mode charts.PaletteMode, snap *telemetry.Snapshot) dashboard.View {
	c := charts.NewController(charts.WithLocation(time.UTC), charts.WithPaletteMode(mode))
	c.ApplySnapshot(snap)
	v := dashboard.View{
		ID:           "test",
		Version:      1,
		Server:       "http://localhost:8080",
		Connection:   channel.Open,
		IsOpen:       true,
		FeedState:    feed.StateWaiting,
		FeedCapacity: feed.DefaultCapacity,
		Charts:       c.Descriptors(),
		Figures:      c.Figures(),
		Palette:      mode,
		HasSnapshot:  snap != nil,
	}
	if snap != nil {
		v.LastUpdate = testBase
	}
	return v
}

func sampleEvent(tool string, status telemetry.Status) telemetry.Event {
	d := 125.0
	return telemetry.Event{
		Timestamp: testBase.Add(30 * time.Second),
		Server:    "git",
		Tool:      tool,
		Status:    status,
		Branch:    "main",
		Details:   "ran " + tool,
		Duration:  &d,
	}
}

func newTestModel(src *fakeSource) Model {
	m := NewModel(src)
	m.loc = time.UTC
	m.now = func() time.Time { return testBase.Add(5 * time.Second) }
	return m
}

var errUnknownChart = errors.New(errors.ErrConfig, "Unknown chart 'x'", "")
