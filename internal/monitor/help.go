package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelpOverlay renders a centered help box with every key binding.
// The baseContent parameter is preserved for future overlay blending.
func (m Model) renderHelpOverlay(_ string) string {
	st := m.styles

	full := m.help
	full.ShowAll = true

	lines := []string{
		st.HelpTitle.Render("Keyboard Shortcuts"),
		full.View(keys),
		"",
		st.Label.Render("Press ? or esc to close"),
	}
	helpBox := st.HelpBox.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		m.contentWidth(),
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
	)
}
