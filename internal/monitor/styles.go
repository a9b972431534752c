package monitor

import (
	"strings"

	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Fixed accent colors shared by both themes.
const (
	ColorAccent  = lipgloss.Color("#6366f1") // Indigo, matches the first series color
	ColorWarning = lipgloss.Color("#f59e0b") // Amber
)

// Status glyphs for feed rows and the connection badge.
const (
	GlyphSuccess      = "✓"
	GlyphError        = "✗"
	GlyphConnected    = "◉"
	GlyphReconnecting = "◐"
	GlyphDisconnected = "◌"
)

// Styles is every lipgloss style the dashboard renders with. It is derived
// entirely from a charts.Palette so a theme toggle swaps all of it at once.
type Styles struct {
	Mode charts.PaletteMode

	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Surface lipgloss.Color
	Success lipgloss.Color
	Failure lipgloss.Color

	Header      lipgloss.Style
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	MutedText   lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	CardValue   lipgloss.Style
	Panel       lipgloss.Style
	PanelActive lipgloss.Style

	BadgeConnected    lipgloss.Style
	BadgeReconnecting lipgloss.Style
	BadgeDisconnected lipgloss.Style
	BadgePaused       lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	ErrorText     lipgloss.Style

	HelpBox   lipgloss.Style
	HelpTitle lipgloss.Style
	Help      help.Styles
}

// NewStyles builds the style set for pal.
func NewStyles(pal charts.Palette) Styles {
	s := Styles{
		Mode:    pal.Mode,
		Text:    lipgloss.Color(pal.Text),
		Border:  lipgloss.Color(pal.Grid),
		Surface: lipgloss.Color(pal.Surface),
		Success: lipgloss.Color(pal.Calls),
		Failure: lipgloss.Color(pal.Errors),
	}
	if pal.Mode == charts.Dark {
		s.Muted = lipgloss.Color("#9ca3af")
	} else {
		s.Muted = lipgloss.Color("#6b7280")
	}

	s.Header = lipgloss.NewStyle().
		Foreground(s.Text).
		Background(s.Surface).
		Bold(true).
		Padding(0, 1)

	s.Title = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	s.Label = lipgloss.NewStyle().Foreground(s.Muted)
	s.Value = lipgloss.NewStyle().Foreground(s.Text)
	s.MutedText = lipgloss.NewStyle().Foreground(s.Muted).Italic(true)

	s.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Border).
		Padding(0, 1).
		MarginRight(1)

	s.CardTitle = lipgloss.NewStyle().Foreground(s.Muted)
	s.CardValue = lipgloss.NewStyle().Foreground(s.Text).Bold(true)

	s.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Border).
		Padding(0, 1)

	s.PanelActive = s.Panel.
		BorderForeground(ColorAccent)

	s.BadgeConnected = lipgloss.NewStyle().Foreground(s.Success).Bold(true)
	s.BadgeReconnecting = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	s.BadgeDisconnected = lipgloss.NewStyle().Foreground(s.Failure).Bold(true)
	s.BadgePaused = lipgloss.NewStyle().
		Foreground(s.Surface).
		Background(ColorWarning).
		Padding(0, 1)

	s.StatusSuccess = lipgloss.NewStyle().Foreground(s.Success)
	s.StatusError = lipgloss.NewStyle().Foreground(s.Failure)
	s.ErrorText = lipgloss.NewStyle().Foreground(s.Failure)

	s.HelpBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Background(s.Surface).
		Padding(1, 2)

	s.HelpTitle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		MarginBottom(1)

	s.Help = help.Styles{
		Ellipsis:       s.Label,
		ShortKey:       lipgloss.NewStyle().Foreground(s.Text),
		ShortDesc:      s.Label,
		ShortSeparator: lipgloss.NewStyle().Foreground(s.Border),
		FullKey:        lipgloss.NewStyle().Foreground(s.Text).Bold(true),
		FullDesc:       s.Label,
		FullSeparator:  lipgloss.NewStyle().Foreground(s.Border),
	}

	return s
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────── Value ╮
func (s Styles) SectionHeader(title, value string, width int, active bool) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	border := s.Border
	if active {
		border = ColorAccent
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)

	return borderStyle.Render("╭─ ") +
		s.Title.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		s.Label.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func (s Styles) SectionFooter(width int, active bool) string {
	if width < 2 {
		width = 2
	}
	border := s.Border
	if active {
		border = ColorAccent
	}
	return lipgloss.NewStyle().Foreground(border).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
func (s Styles) SectionContentLine(content string, width int, active bool) string {
	if width < 4 {
		width = 4
	}
	border := s.Border
	if active {
		border = ColorAccent
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)

	innerWidth := width - 4
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// Swatch renders a colored block for a hex color.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}
