package dashboard

import (
	"fmt"

	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/errors"
)

// User actions. Each is queued on the control loop and returns without
// waiting for it to run. None of them touches the push channel or the
// polling timer.

// TogglePause pauses the live feed, or resumes it if paused.
func (d *Dashboard) TogglePause() {
	d.loop.Post(func() {
		if d.feed.Paused() {
			d.feed.Resume()
			d.log.Debug("feed resumed")
		} else {
			d.feed.Pause()
			d.log.Debug("feed paused")
		}
	})
}

// Pause stops the live feed from accepting events.
func (d *Dashboard) Pause() { d.loop.Post(d.feed.Pause) }

// Resume lets the live feed accept events again.
func (d *Dashboard) Resume() { d.loop.Post(d.feed.Resume) }

// ClearFeed empties the live feed.
func (d *Dashboard) ClearFeed() { d.loop.Post(d.feed.Clear) }

// SetKind changes one chart's kind. Unknown charts or kinds are rejected
// immediately.
func (d *Dashboard) SetKind(id charts.ChartID, kind charts.Kind) error {
	if !id.Valid() {
		return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown chart '%s'", id), "")
	}
	if !kind.Valid() {
		return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown chart kind '%s'", kind), "Use bar, line, doughnut, or pie")
	}
	d.loop.Post(func() {
		if err := d.charts.SetKind(id, kind); err != nil {
			d.log.Warn("set kind: %s", errors.Short(err))
		}
	})
	return nil
}

// CycleKind advances a chart to its next kind.
func (d *Dashboard) CycleKind(id charts.ChartID) error {
	if !id.Valid() {
		return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown chart '%s'", id), "")
	}
	d.loop.Post(func() {
		if _, err := d.charts.CycleKind(id); err != nil {
			d.log.Warn("cycle kind: %s", errors.Short(err))
		}
	})
	return nil
}

// SetPaletteMode recolors every chart at once.
func (d *Dashboard) SetPaletteMode(mode charts.PaletteMode) {
	d.loop.Post(func() { d.charts.SetPaletteMode(mode) })
}

// TogglePalette switches between light and dark.
func (d *Dashboard) TogglePalette() {
	d.loop.Post(func() { d.charts.SetPaletteMode(d.charts.PaletteMode().Toggle()) })
}

// Refresh issues one extra pull. Interval polling is unaffected.
func (d *Dashboard) Refresh() {
	d.loop.Post(func() { d.snapshots.RefreshNow() })
}
