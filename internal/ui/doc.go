// Package ui provides the styled terminal output used by mcpdash's
// non-interactive commands (snapshot, init, version).
//
// # Components Overview
//
//	Spinner     - Status indicator shown while a pull or probe is in flight
//	Table       - Bubbles table for chart series and summary figures
//	Symbols     - ✓ ✗ ○ ◐ ● glyphs shared with the dashboard
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and skipped items
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Spinners only animate on a terminal. When output is redirected they print
// the final line alone, so `mcpdash snapshot > out.txt` stays clean.
package ui
