package dashboard

import (
	"time"

	"github.com/atxtechbro/mcpdash/internal/channel"
	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/feed"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
)

// View is an immutable picture of the dashboard state, handed to renderers.
// Slices in a View are never modified after it is published.
type View struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`
	Server  string `json:"server"`

	Connection       channel.State `json:"connection"`
	IsOpen           bool          `json:"isOpen"`
	ReconnectPending bool          `json:"reconnectPending"`

	Feed         []telemetry.Event `json:"feed"`
	FeedState    feed.State        `json:"-"`
	FeedCapacity int               `json:"feedCapacity"`
	Paused       bool              `json:"paused"`

	Charts      []charts.Descriptor `json:"charts"`
	Figures     charts.Figures      `json:"figures"`
	Palette     charts.PaletteMode  `json:"palette"`
	HasSnapshot bool                `json:"hasSnapshot"`

	// LastUpdate is when the last snapshot was applied; zero before the first.
	LastUpdate time.Time `json:"lastUpdate"`
	// LastError is the most recent pull failure, cleared by the next success.
	LastError string `json:"lastError,omitempty"`
}

// Chart returns the descriptor for id.
func (v View) Chart(id charts.ChartID) (charts.Descriptor, bool) {
	for _, d := range v.Charts {
		if d.ID == id {
			return d, true
		}
	}
	return charts.Descriptor{}, false
}
