package monitor

import (
	"time"

	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/dashboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Source is the dashboard surface the TUI drives. *dashboard.Dashboard
// satisfies it.
type Source interface {
	View() dashboard.View
	Subscribe(fn func(dashboard.View)) (unsubscribe func())

	TogglePause()
	ClearFeed()
	TogglePalette()
	CycleKind(id charts.ChartID) error
	Refresh()
}

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutCompact stacks chart panels in a single column.
	LayoutCompact LayoutMode = iota
	// LayoutWide places chart panels side by side.
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointWide = 150
)

// ageInterval is how often the "last update" age is redrawn.
const ageInterval = time.Second

// Model is the Bubble Tea model for the telemetry dashboard.
type Model struct {
	src      Source
	updates  chan dashboard.View
	unsub    func()
	view     dashboard.View
	styles   Styles
	chartIDs []charts.ChartID
	focus    int

	width    int
	height   int
	showHelp bool
	quitting bool
	// flash is a one-line notice from a rejected action.
	flash string

	help     help.Model
	feedView viewport.Model
	now      func() time.Time
	loc      *time.Location
}

// viewMsg carries a freshly published dashboard View.
type viewMsg dashboard.View

// ageTickMsg signals a redraw of time-relative text.
type ageTickMsg time.Time

// NewModel creates a model bound to src and subscribes to its Views.
// Call Close when the program exits.
func NewModel(src Source) Model {
	updates := make(chan dashboard.View, 1)
	unsub := src.Subscribe(func(v dashboard.View) {
		offerLatest(updates, v)
	})

	v := src.View()
	m := Model{
		src:      src,
		updates:  updates,
		unsub:    unsub,
		view:     v,
		styles:   NewStyles(charts.PaletteFor(v.Palette)),
		chartIDs: append([]charts.ChartID(nil), charts.IDs...),
		help:     help.New(),
		feedView: viewport.New(80, 10),
		now:      time.Now,
		loc:      time.Local,
	}
	m.help.Styles = m.styles.Help
	m.refreshFeed()
	return m
}

// offerLatest replaces any unconsumed View with v. It never blocks, so it is
// safe to call from the dashboard's control loop.
func offerLatest(ch chan dashboard.View, v dashboard.View) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close stops receiving Views.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Init starts listening for Views and the age ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForView(), m.ageTickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeFeed()
		m.refreshFeed()

	case viewMsg:
		m.applyView(dashboard.View(msg))
		return m, m.waitForView()

	case ageTickMsg:
		return m, m.ageTickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	base := m.renderDashboard()
	if m.showHelp {
		return m.renderHelpOverlay(base)
	}
	return base
}

func (m *Model) applyView(v dashboard.View) {
	if v.Palette != m.styles.Mode {
		m.styles = NewStyles(charts.PaletteFor(v.Palette))
		m.help.Styles = m.styles.Help
	}
	m.view = v
	m.flash = ""
	if m.height > 0 {
		m.resizeFeed()
	}
	m.refreshFeed()
}

// waitForView blocks until the next View is published.
func (m Model) waitForView() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return viewMsg(v)
	}
}

func (m Model) ageTickCmd() tea.Cmd {
	return tea.Tick(ageInterval, func(t time.Time) tea.Msg {
		return ageTickMsg(t)
	})
}

// FocusedChart returns the chart that chart-level keys act on.
func (m Model) FocusedChart() charts.ChartID {
	return m.chartIDs[m.focus]
}

// Current returns the View being rendered.
func (m Model) Current() dashboard.View {
	return m.view
}

// Styles returns the active style set.
func (m Model) Styles() Styles {
	return m.styles
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	if m.width >= BreakpointWide {
		return LayoutWide
	}
	return LayoutCompact
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// applied snapshot, or -1 before the first one.
func (m Model) SecondsSinceUpdate() int {
	if m.view.LastUpdate.IsZero() {
		return -1
	}
	d := m.now().Sub(m.view.LastUpdate)
	if d < 0 {
		return 0
	}
	return int(d.Seconds())
}

func (m *Model) resizeFeed() {
	width := m.width
	if width < 20 {
		width = 20
	}
	// Header, cards and chart panels take the top of the screen.
	height := m.height - m.topHeight() - 4
	if height < 3 {
		height = 3
	}
	m.feedView.Width = width - 4
	m.feedView.Height = height
}

func (m *Model) refreshFeed() {
	m.feedView.SetContent(m.renderFeedRows(m.feedView.Width))
}
