// Package charts turns snapshots into per-chart render descriptors and owns
// the view settings (kind per chart, palette mode) that shape them.
//
// Every descriptor is recomputed from the latest snapshot and the current
// settings. Nothing is carried over from the previous descriptor.
package charts

import (
	"fmt"
	"time"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
)

// Option configures a Controller.
type Option func(*Controller)

// WithKind sets the initial kind for a chart. Unknown charts or kinds are
// ignored.
func WithKind(id ChartID, kind Kind) Option {
	return func(c *Controller) {
		if id.Valid() && kind.Valid() {
			c.kinds[id] = kind
		}
	}
}

// WithPaletteMode sets the initial palette mode.
func WithPaletteMode(mode PaletteMode) Option {
	return func(c *Controller) { c.mode = mode }
}

// WithLocation sets the zone used for timeline labels. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// Controller holds the latest snapshot and the descriptors derived from it.
// It is not safe for concurrent use; the dashboard loop owns it.
type Controller struct {
	snapshot    *telemetry.Snapshot
	kinds       map[ChartID]Kind
	mode        PaletteMode
	loc         *time.Location
	descriptors map[ChartID]Descriptor
	figures     Figures

	subs   map[int]func()
	nextID int
}

// NewController returns a controller with no snapshot and empty charts.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		kinds: make(map[ChartID]Kind, len(IDs)),
		loc:   time.Local,
		subs:  make(map[int]func()),
	}
	for _, id := range IDs {
		c.kinds[id] = DefaultKind(id)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.descriptors = c.deriveAll(c.mode)
	c.figures = FiguresFor(nil)
	return c
}

// ApplySnapshot replaces the held snapshot and recomputes every chart.
// A nil snapshot is ignored.
func (c *Controller) ApplySnapshot(snap *telemetry.Snapshot) {
	if snap == nil {
		return
	}
	c.snapshot = snap
	c.descriptors = c.deriveAll(c.mode)
	c.figures = FiguresFor(snap)
	c.notify()
}

// SetKind changes one chart's kind and recomputes it from the held
// snapshot. Other charts are untouched.
func (c *Controller) SetKind(id ChartID, kind Kind) error {
	if !id.Valid() {
		return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown chart '%s'", id), "")
	}
	if !kind.Valid() {
		return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown chart kind '%s'", kind), "Use bar, line, doughnut, or pie")
	}
	c.kinds[id] = kind
	c.descriptors[id] = derive(id, kind, c.snapshot, PaletteFor(c.mode), c.loc)
	c.notify()
	return nil
}

// CycleKind advances a chart to its next kind and returns it.
func (c *Controller) CycleKind(id ChartID) (Kind, error) {
	next := c.kinds[id].Next()
	if err := c.SetKind(id, next); err != nil {
		return "", err
	}
	return next, nil
}

// SetPaletteMode recolors all charts. The new descriptor set is built in
// full before it replaces the old one.
func (c *Controller) SetPaletteMode(mode PaletteMode) {
	next := c.deriveAll(mode)
	c.mode = mode
	c.descriptors = next
	c.notify()
}

// Snapshot returns the held snapshot, nil before the first ApplySnapshot.
func (c *Controller) Snapshot() *telemetry.Snapshot { return c.snapshot }

// Kind returns a chart's current kind.
func (c *Controller) Kind(id ChartID) Kind { return c.kinds[id] }

// PaletteMode returns the current mode.
func (c *Controller) PaletteMode() PaletteMode { return c.mode }

// Descriptor returns one chart's descriptor.
func (c *Controller) Descriptor(id ChartID) (Descriptor, bool) {
	d, ok := c.descriptors[id]
	return d, ok
}

// Descriptors returns all descriptors in display order.
func (c *Controller) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(IDs))
	for _, id := range IDs {
		out = append(out, c.descriptors[id])
	}
	return out
}

// Figures returns the summary strings for the held snapshot.
func (c *Controller) Figures() Figures { return c.figures }

// Subscribe registers fn to run after every change. The returned function
// removes it.
func (c *Controller) Subscribe(fn func()) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Controller) deriveAll(mode PaletteMode) map[ChartID]Descriptor {
	pal := PaletteFor(mode)
	out := make(map[ChartID]Descriptor, len(IDs))
	for _, id := range IDs {
		out[id] = derive(id, c.kinds[id], c.snapshot, pal, c.loc)
	}
	return out
}

func (c *Controller) notify() {
	for _, fn := range c.subs {
		fn()
	}
}
