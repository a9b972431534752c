// Package monitor implements the terminal dashboard for MCP tool telemetry.
//
// The TUI is a pure renderer over dashboard.View values. It never mutates
// dashboard state directly: key presses become dashboard actions, which run
// on the dashboard's control loop and come back as a new View.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: the latest View, the focused chart, layout and styles
//   - Update: key presses, window resizes, age ticks and new Views
//   - View: renders header, summary cards, chart panels and the live feed
//
// # Message Flow
//
//  1. NewModel subscribes to the Source; each published View is offered on
//     a one-slot channel, replacing any View not yet consumed
//  2. waitForView blocks on that channel and returns a viewMsg
//  3. Update stores the View, rebuilds styles if the palette changed, and
//     waits for the next one
//  4. ageTickMsg fires every second so "last update" stays current
//
// # Keyboard Controls
//
//	q, Ctrl+C     Quit
//	r             Refresh now
//	p             Pause or resume the live feed
//	c             Clear the live feed
//	t             Toggle light/dark theme
//	Tab/Shift+Tab Select chart
//	v             Cycle the selected chart's kind
//	up/down       Scroll the live feed
//	?             Toggle help
package monitor
