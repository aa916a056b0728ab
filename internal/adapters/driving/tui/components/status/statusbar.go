// Package status provides the status bar shown under the query view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
)

// State is what the query view is doing.
type State int

const (
	StateReady State = iota
	StateWorking
	StateResults
	StateError
)

// ModeAsk is the mode label that switches the working message to answer assembly.
const ModeAsk = "ask"

// Bar shows the mode, store size or outcome on the left and key hints on the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	state       State
	mode        string
	message     string
	resultCount int
	entries     int
	width       int
}

// NewBar creates a status bar in the ready state.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, width: 80}
}

// View renders the bar at its full width.
func (s *Bar) View() string {
	left := s.badge() + s.summary()
	right := s.hints()
	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) badge() string {
	if s.mode == "" {
		return ""
	}
	return s.styles.Badge.Render(s.mode) + " "
}

func (s *Bar) summary() string {
	switch s.state {
	case StateWorking:
		if s.mode == ModeAsk {
			return s.styles.Muted.Render("Assembling answer...")
		}
		return s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateResults:
		return s.styles.Normal.Render(fmt.Sprintf("%d of %d passages", s.resultCount, s.entries))
	default:
		return s.styles.Muted.Render(fmt.Sprintf("Ready (%d passages indexed)", s.entries))
	}
}

func (s *Bar) hints() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateResults && s.resultCount > 0 {
		bindings = s.keymap.ResultsHelp()
	}
	return s.styles.Help.Render(Hints(bindings))
}

// Hints joins binding help as "key: desc" pairs.
func Hints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " | ")
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error detail.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// SetResultCount sets how many passages the last query returned.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// SetMode sets the query mode label.
func (s *Bar) SetMode(mode string) {
	s.mode = mode
}

// Mode returns the query mode label.
func (s *Bar) Mode() string {
	return s.mode
}

// SetEntries sets the number of passages in the store.
func (s *Bar) SetEntries(entries int) {
	s.entries = entries
}

// Entries returns the number of passages in the store.
func (s *Bar) Entries() int {
	return s.entries
}

// SetWidth sets the bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
