// Package input provides the query box for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
)

// MaxQueryLength caps the characters accepted in the box.
const MaxQueryLength = 1024

// maxHistory bounds the recalled queries kept per session.
const maxHistory = 50

// QueryInput is a labelled text box that remembers submitted queries.
// Up and down recall earlier queries while the box has focus.
type QueryInput struct {
	model  textinput.Model
	styles *styles.Styles
	label  string

	history []string
	// recall indexes history while browsing it; len(history) means the live line.
	recall int
	draft  string
}

// NewQueryInput creates a focused query box.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	m := textinput.New()
	m.CharLimit = MaxQueryLength
	m.Width = 50
	m.Focus()

	return &QueryInput{model: m, styles: s, label: "Query"}
}

// Init starts the cursor blink.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update edits the line, or steps through history on up and down.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && q.model.Focused() {
		switch k.Type {
		case tea.KeyUp:
			q.step(-1)
			return q, nil
		case tea.KeyDown:
			q.step(1)
			return q, nil
		}
	}

	var cmd tea.Cmd
	q.model, cmd = q.model.Update(msg)
	return q, cmd
}

func (q *QueryInput) step(delta int) {
	if len(q.history) == 0 {
		return
	}
	if q.recall == len(q.history) {
		q.draft = q.model.Value()
	}
	q.recall = max(0, min(len(q.history), q.recall+delta))
	if q.recall == len(q.history) {
		q.model.SetValue(q.draft)
	} else {
		q.model.SetValue(q.history[q.recall])
	}
	q.model.CursorEnd()
}

// Submit returns the trimmed line and records it in history.
// A blank line returns "" and is not recorded.
func (q *QueryInput) Submit() string {
	text := strings.TrimSpace(q.model.Value())
	if text == "" {
		return ""
	}
	if n := len(q.history); n == 0 || q.history[n-1] != text {
		q.history = append(q.history, text)
		if len(q.history) > maxHistory {
			q.history = q.history[len(q.history)-maxHistory:]
		}
	}
	q.recall = len(q.history)
	q.draft = ""
	return text
}

// History returns submitted queries, oldest first.
func (q *QueryInput) History() []string {
	return q.history
}

// View renders the label beside the framed box.
func (q *QueryInput) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		q.styles.Title.Render(q.label+": "),
		q.styles.InputField.Render(q.model.View()),
	)
}

// SetPrompt changes the label and placeholder.
func (q *QueryInput) SetPrompt(label, placeholder string) {
	q.label = label
	q.model.Placeholder = placeholder
}

// Label returns the current label.
func (q *QueryInput) Label() string {
	return q.label
}

// Value returns the line as typed.
func (q *QueryInput) Value() string {
	return q.model.Value()
}

// SetValue replaces the line.
func (q *QueryInput) SetValue(value string) {
	q.model.SetValue(value)
	q.recall = len(q.history)
}

// Focus gives the box focus.
func (q *QueryInput) Focus() tea.Cmd {
	return q.model.Focus()
}

// Blur removes focus.
func (q *QueryInput) Blur() {
	q.model.Blur()
}

// Focused reports whether the box has focus.
func (q *QueryInput) Focused() bool {
	return q.model.Focused()
}

// SetWidth fits the box to width, leaving room for the label and frame.
func (q *QueryInput) SetWidth(width int) {
	q.model.Width = max(width-lipgloss.Width(q.label)-8, 20)
}
