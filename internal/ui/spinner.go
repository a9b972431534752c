package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

// Spinner animation frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Spinner displays an animated status indicator with a label.
type Spinner struct {
	mu           sync.Mutex
	label        string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	out          io.Writer
	animate      bool
	running      bool
	lastRendered string
	now          func() time.Time
}

// NewSpinner creates a spinner writing to out. It animates only when out is
// a terminal.
func NewSpinner(label string, out io.Writer) *Spinner {
	return &Spinner{
		label:   label,
		state:   SpinnerPending,
		out:     out,
		animate: isTerminal(out),
		now:     time.Now,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running || s.state != SpinnerPending {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = s.now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	animate := s.animate
	s.mu.Unlock()

	if !animate {
		close(s.doneChan)
		return
	}

	s.render()
	go s.loop()
}

// stop halts the animation without changing state.
func (s *Spinner) stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and marks it as successful.
func (s *Spinner) Success() { s.finish(SpinnerSuccess) }

// Fail stops the spinner and marks it as failed.
func (s *Spinner) Fail() { s.finish(SpinnerFailed) }

func (s *Spinner) finish(state SpinnerState) {
	s.stop()
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.renderFinal()
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Label returns the spinner's label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

func (s *Spinner) loop() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	color := SpinnerColors[(s.frame/2)%len(SpinnerColors)]
	symbol := lipgloss.NewStyle().Foreground(color).Render(spinnerFrames[s.frame])
	line := fmt.Sprintf("\r%s %s...", symbol, s.label)

	s.clearLine()
	fmt.Fprint(s.out, line)
	s.lastRendered = line
}

// clearLine erases the last animated frame. Callers hold s.mu.
func (s *Spinner) clearLine() {
	if s.lastRendered != "" {
		fmt.Fprint(s.out, "\r"+strings.Repeat(" ", lipgloss.Width(s.lastRendered))+"\r")
	}
}

func (s *Spinner) renderFinal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbol string
	var style lipgloss.Style
	switch s.state {
	case SpinnerSuccess:
		symbol = SymbolSuccess
		style = lipgloss.NewStyle().Foreground(ColorSuccess)
	case SpinnerFailed:
		symbol = SymbolFail
		style = lipgloss.NewStyle().Foreground(ColorError)
	default:
		symbol = SymbolPending
		style = lipgloss.NewStyle().Foreground(ColorMuted)
	}

	timing := ""
	if !s.startTime.IsZero() {
		timing = formatDuration(s.now().Sub(s.startTime))
	}

	s.clearLine()
	fmt.Fprintf(s.out, "%s %s %s\n",
		style.Render(symbol),
		s.label,
		lipgloss.NewStyle().Foreground(ColorMuted).Render(timing),
	)
	s.lastRendered = ""
}

// formatDuration formats a duration for display (e.g., "0.03s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
