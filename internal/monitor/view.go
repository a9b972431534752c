package monitor

import (
	"fmt"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/channel"
	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/feed"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
	"github.com/charmbracelet/lipgloss"
)

// Empty feed messages.
const (
	FeedWaitingText = "Waiting for tool calls..."
	FeedClearedText = "Feed cleared"
)

const defaultWidth = 100

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderTop())
	b.WriteString("\n")
	b.WriteString(m.renderFeedPanel())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderTop() string {
	return strings.Join([]string{
		m.renderHeader(),
		m.renderCards(),
		m.renderCharts(),
	}, "\n")
}

func (m Model) topHeight() int {
	return lipgloss.Height(m.renderTop())
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// renderHeader renders the title, connection badge and update age.
func (m Model) renderHeader() string {
	st := m.styles
	parts := []string{
		st.Title.Render("mcpdash"),
		st.Label.Render(m.view.Server),
		m.ConnectionBadge(),
		st.Label.Render("updated " + m.updateAgeText()),
	}
	if m.view.Paused {
		parts = append(parts, st.BadgePaused.Render("PAUSED"))
	}
	header := st.Header.Render(strings.Join(parts, st.Label.Render(" | ")))

	var notes []string
	if m.view.LastError != "" {
		notes = append(notes, st.ErrorText.Render(GlyphError+" "+m.view.LastError))
	}
	if m.flash != "" {
		notes = append(notes, st.ErrorText.Render(m.flash))
	}
	if len(notes) > 0 {
		header += "\n" + strings.Join(notes, "  ")
	}
	return header
}

// ConnectionBadge renders the push channel state.
func (m Model) ConnectionBadge() string {
	st := m.styles
	switch m.view.Connection {
	case channel.Open:
		return st.BadgeConnected.Render(GlyphConnected + " Connected")
	case channel.Reconnecting:
		return st.BadgeReconnecting.Render(GlyphReconnecting + " Reconnecting")
	case channel.Connecting:
		return st.BadgeReconnecting.Render(GlyphReconnecting + " Connecting")
	default:
		return st.BadgeDisconnected.Render(GlyphDisconnected + " Disconnected")
	}
}

func (m Model) updateAgeText() string {
	switch secs := m.SecondsSinceUpdate(); {
	case secs < 0:
		return "never"
	case secs == 0:
		return "just now"
	default:
		return fmt.Sprintf("%ds ago", secs)
	}
}

// renderCards renders the summary figures.
func (m Model) renderCards() string {
	st := m.styles
	f := m.view.Figures

	card := func(title, value string) string {
		return st.Card.Render(st.CardTitle.Render(title) + "\n" + st.CardValue.Render(value))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Calls", f.TotalCalls),
		card("Success Rate", f.SuccessRate),
		card("Avg Execution", f.AvgExecution),
		card("Error Rate", f.ErrorRate),
	)

	var insights []string
	add := func(label, value string) {
		if value != "" {
			insights = append(insights, st.Label.Render(label+": ")+st.Value.Render(value))
		}
	}
	add("Most used", f.MostUsedTool)
	add("Active branch", f.ActiveBranch)
	add("Principle", f.Principle)
	add("Activity", f.RecentActivity)
	if len(insights) == 0 {
		return row
	}
	return row + "\n" + strings.Join(insights, "   ")
}

// renderCharts lays out one panel per chart.
func (m Model) renderCharts() string {
	width := m.contentWidth()
	perRow := 1
	if m.LayoutMode() == LayoutWide {
		perRow = len(m.chartIDs)
	}
	panelWidth := width / perRow
	if panelWidth < 24 {
		panelWidth = 24
	}

	var panels []string
	for i, id := range m.chartIDs {
		panels = append(panels, m.renderChartPanel(id, panelWidth, i == m.focus))
	}

	if perRow == 1 {
		return lipgloss.JoinVertical(lipgloss.Left, panels...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func (m Model) renderChartPanel(id charts.ChartID, width int, active bool) string {
	st := m.styles
	d, ok := m.view.Chart(id)
	title := id.Title()
	kind := ""
	if ok {
		title = d.Title
		kind = string(d.Kind)
	}

	lines := []string{st.SectionHeader(title, kind, width, active)}
	var body []string
	if ok {
		body = RenderChart(d, width-4, st)
	} else {
		body = []string{st.MutedText.Render("no data")}
	}
	for _, line := range body {
		lines = append(lines, st.SectionContentLine(line, width, active))
	}
	lines = append(lines, st.SectionFooter(width, active))
	return strings.Join(lines, "\n")
}

// renderFeedPanel frames the scrollable live feed.
func (m Model) renderFeedPanel() string {
	st := m.styles
	width := m.contentWidth()

	value := fmt.Sprintf("%d/%d", len(m.view.Feed), m.view.FeedCapacity)
	if m.view.Paused {
		value = "paused " + value
	}

	lines := []string{st.SectionHeader("Live Feed", value, width, false)}
	for _, line := range strings.Split(m.feedView.View(), "\n") {
		lines = append(lines, st.SectionContentLine(line, width, false))
	}
	lines = append(lines, st.SectionFooter(width, false))
	return strings.Join(lines, "\n")
}

// renderFeedRows renders feed events newest first, or the empty message.
func (m Model) renderFeedRows(width int) string {
	st := m.styles
	if len(m.view.Feed) == 0 {
		if m.view.FeedState == feed.StateCleared {
			return st.MutedText.Render(FeedClearedText)
		}
		return st.MutedText.Render(FeedWaitingText)
	}

	rows := make([]string, 0, len(m.view.Feed))
	for _, ev := range m.view.Feed {
		rows = append(rows, m.renderEvent(ev, width))
	}
	return strings.Join(rows, "\n")
}

// renderEvent renders one feed row: time, status, server/tool, branch,
// duration and details.
func (m Model) renderEvent(ev telemetry.Event, width int) string {
	st := m.styles

	ts := "--:--:--"
	if !ev.Timestamp.IsZero() {
		ts = ev.Timestamp.In(m.loc).Format("15:04:05")
	}

	status := st.StatusSuccess.Render(GlyphSuccess)
	if ev.Status != telemetry.StatusSuccess {
		status = st.StatusError.Render(GlyphError)
	}

	name := ev.Tool
	if ev.Server != "" && ev.Tool != "" {
		name = ev.Server + "/" + ev.Tool
	} else if ev.Tool == "" {
		name = ev.Server
	}

	parts := []string{st.Label.Render(ts), status, st.Value.Render(name)}
	if ev.Branch != "" {
		parts = append(parts, st.Label.Render("["+ev.Branch+"]"))
	}
	if ev.HasDuration() {
		parts = append(parts, st.Label.Render(fmt.Sprintf("%.0fms", *ev.Duration)))
	}
	line := strings.Join(parts, " ")

	if ev.Details != "" && width > 0 {
		room := width - lipgloss.Width(line) - 1
		if room > 3 {
			line += " " + st.MutedText.Render(truncate(ev.Details, room))
		}
	}
	return line
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return m.help.View(keys)
}
