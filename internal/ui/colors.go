package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// SpinnerColors cycles while a spinner animates.
var SpinnerColors = []lipgloss.Color{ColorInfo, ColorSecondary, ColorSuccess, ColorSecondary}

// Success renders msg with a green check.
func Success(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorSuccess).Render(SymbolSuccess) + " " + msg
}

// Failure renders msg with a red cross.
func Failure(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorError).Render(SymbolFail) + " " + msg
}

// Muted renders msg in the secondary text color.
func Muted(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(msg)
}

// Heading renders a bold section heading.
func Heading(msg string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Render(msg)
}
