package monitor

import (
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds every binding the dashboard responds to.
type keyMap struct {
	Quit      key.Binding
	Refresh   key.Binding
	Pause     key.Binding
	Clear     key.Binding
	Theme     key.Binding
	NextChart key.Binding
	PrevChart key.Binding
	CycleKind key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Help      key.Binding
	Close     key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause feed"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear feed"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	NextChart: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next chart"),
	),
	PrevChart: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous chart"),
	),
	CycleKind: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "chart type"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll feed up"),
	),
	ScrollDn: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll feed down"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close help"),
	),
}

// ShortHelp implements help.KeyMap for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Pause, k.Clear, k.Theme, k.NextChart, k.CycleKind, k.Help}
}

// FullHelp implements help.KeyMap for the overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Refresh, k.Pause, k.Clear, k.Theme},
		{k.NextChart, k.PrevChart, k.CycleKind, k.ScrollUp, k.ScrollDn, k.Help},
	}
}

// HandleKeyMsg processes keyboard input. Returns true if the key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key.Matches(msg, keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, keys.Refresh):
		m.src.Refresh()
		return true, nil

	case key.Matches(msg, keys.Pause):
		m.src.TogglePause()
		return true, nil

	case key.Matches(msg, keys.Clear):
		m.src.ClearFeed()
		return true, nil

	case key.Matches(msg, keys.Theme):
		m.src.TogglePalette()
		return true, nil

	case key.Matches(msg, keys.NextChart):
		m.focus = (m.focus + 1) % len(m.chartIDs)
		return true, nil

	case key.Matches(msg, keys.PrevChart):
		m.focus = (m.focus + len(m.chartIDs) - 1) % len(m.chartIDs)
		return true, nil

	case key.Matches(msg, keys.CycleKind):
		if err := m.src.CycleKind(m.FocusedChart()); err != nil {
			m.flash = errors.Short(err)
		}
		return true, nil

	case key.Matches(msg, keys.ScrollUp):
		m.feedView.ScrollUp(1)
		return true, nil

	case key.Matches(msg, keys.ScrollDn):
		m.feedView.ScrollDown(1)
		return true, nil
	}

	return false, nil
}
