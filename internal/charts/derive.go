package charts

import (
	"time"

	"github.com/atxtechbro/mcpdash/internal/telemetry"
)

// Selection limits applied to every snapshot.
const (
	ToolUsageLimit   = 10
	TimelineLimit    = 20
	BranchLimit      = 5
	TimelineLayout   = "15:04:05"
	callsDatasetName = "Tool Calls"
	errorDatasetName = "Errors"
)

// Dataset is one numeric series of a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	// Colors has one entry per point for categorical kinds, or a single
	// entry for a line dataset.
	Colors []string `json:"colors"`
}

// Descriptor is everything a renderer needs to draw one chart.
type Descriptor struct {
	ID    ChartID `json:"id"`
	Title string  `json:"title"`
	Kind  Kind    `json:"kind"`
	// Labels and Series mirror the first dataset for single-series consumers.
	Labels   []string  `json:"labels"`
	Series   []float64 `json:"series"`
	Datasets []Dataset `json:"datasets"`
	Palette  Palette   `json:"palette"`
}

// Empty reports whether the chart has no data points.
func (d Descriptor) Empty() bool { return len(d.Labels) == 0 }

// derive projects one chart from snap. It reads nothing but its arguments,
// so the same inputs always yield the same descriptor. A nil snapshot gives
// an empty chart.
func derive(id ChartID, kind Kind, snap *telemetry.Snapshot, pal Palette, loc *time.Location) Descriptor {
	d := Descriptor{
		ID:      id,
		Title:   id.Title(),
		Kind:    kind,
		Labels:  []string{},
		Series:  []float64{},
		Palette: pal,
	}

	switch id {
	case ToolUsage:
		var entries []telemetry.Entry
		if snap != nil {
			entries = snap.ToolCalls.Head(ToolUsageLimit)
		}
		d.Datasets = []Dataset{countsDataset(callsDatasetName, entries, kind, pal, &d)}

	case BranchActivity:
		var entries []telemetry.Entry
		if snap != nil {
			entries = snap.BranchActivity.Head(BranchLimit)
		}
		d.Datasets = []Dataset{countsDataset("Branch Activity", entries, kind, pal, &d)}

	case ActivityTimeline:
		var points []telemetry.TimelinePoint
		if snap != nil {
			points = lastPoints(snap.ActivityTimeline, TimelineLimit)
		}
		calls := Dataset{Label: callsDatasetName, Data: make([]float64, 0, len(points)), Colors: []string{pal.Calls}}
		errs := Dataset{Label: errorDatasetName, Data: make([]float64, 0, len(points)), Colors: []string{pal.Errors}}
		for _, p := range points {
			d.Labels = append(d.Labels, p.Time.In(loc).Format(TimelineLayout))
			calls.Data = append(calls.Data, p.ToolCalls)
			errs.Data = append(errs.Data, p.Errors)
		}
		d.Series = append(d.Series, calls.Data...)
		d.Datasets = []Dataset{calls, errs}
	}

	return d
}

func countsDataset(label string, entries []telemetry.Entry, kind Kind, pal Palette, d *Descriptor) Dataset {
	ds := Dataset{Label: label, Data: make([]float64, 0, len(entries)), Colors: make([]string, 0, len(entries))}
	for i, e := range entries {
		d.Labels = append(d.Labels, e.Key)
		d.Series = append(d.Series, e.Value)
		ds.Data = append(ds.Data, e.Value)
		ds.Colors = append(ds.Colors, pal.Color(kind, i))
	}
	return ds
}

// lastPoints returns up to n trailing points, oldest first, as a copy.
func lastPoints(points []telemetry.TimelinePoint, n int) []telemetry.TimelinePoint {
	if len(points) > n {
		points = points[len(points)-n:]
	}
	out := make([]telemetry.TimelinePoint, len(points))
	copy(out, points)
	return out
}
