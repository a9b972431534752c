package charts

import (
	"fmt"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/errors"
)

// PaletteMode selects the light or dark color scheme.
type PaletteMode int

const (
	Light PaletteMode = iota
	Dark
)

func (m PaletteMode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// MarshalText implements encoding.TextMarshaler.
func (m PaletteMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PaletteMode) UnmarshalText(text []byte) error {
	mode, err := ParsePaletteMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Toggle returns the other mode.
func (m PaletteMode) Toggle() PaletteMode {
	if m == Dark {
		return Light
	}
	return Dark
}

// ParsePaletteMode accepts "light" or "dark".
func ParsePaletteMode(s string) (PaletteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown palette '%s'", s),
		"Use light or dark")
}

// Palette is the full set of colors for one mode. Colors are hex strings.
type Palette struct {
	Mode    PaletteMode `json:"mode"`
	Text    string      `json:"text"`
	Grid    string      `json:"grid"`
	Surface string      `json:"surface"`
	// Series colors categorical charts in order, wrapping when exhausted.
	Series []string `json:"series"`
	// Proportions colors doughnut and pie segments.
	Proportions []string `json:"proportions"`
	Calls       string   `json:"calls"`
	Errors      string   `json:"errors"`
}

var (
	seriesColors     = []string{"#6366f1", "#8b5cf6", "#a78bfa", "#818cf8", "#4f46e5"}
	proportionColors = []string{"#6366f1", "#8b5cf6", "#a78bfa", "#10b981", "#f59e0b"}
)

// PaletteFor returns the palette for mode. Each call returns fresh slices.
func PaletteFor(mode PaletteMode) Palette {
	p := Palette{
		Mode:        mode,
		Series:      append([]string(nil), seriesColors...),
		Proportions: append([]string(nil), proportionColors...),
		Calls:       "#10b981",
		Errors:      "#ef4444",
	}
	if mode == Dark {
		p.Text = "#f9fafb"
		p.Grid = "#374151"
		p.Surface = "#1f2937"
	} else {
		p.Text = "#111827"
		p.Grid = "#e5e7eb"
		p.Surface = "#ffffff"
	}
	return p
}

// Color returns the i-th categorical color for kind.
func (p Palette) Color(kind Kind, i int) string {
	colors := p.Series
	if kind.Proportional() {
		colors = p.Proportions
	}
	if len(colors) == 0 {
		return p.Text
	}
	return colors[i%len(colors)]
}
