// Package search provides the query view for the TUI.
// It runs similarity searches and assembles answers to questions.
package search

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// Mode selects what submitting the input does.
type Mode int

const (
	// ModeSearch ranks passages by similarity.
	ModeSearch Mode = iota
	// ModeAsk assembles an answer from the top passages.
	ModeAsk
)

// String returns the mode label.
func (m Mode) String() string {
	if m == ModeAsk {
		return "ask"
	}
	return "search"
}

// View represents the query view with input, passages list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.PassageList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	topK      int
	ctx       context.Context

	mode       Mode
	answer     *domain.Answer
	expanded   bool
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = navigating passages
}

// NewView creates a new query view. A non-positive topK uses domain.DefaultTopK.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	topK int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewPassageList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		topK:       topK,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
	v.applyMode()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink and loads store statistics.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadStats())
}

// Update handles messages for the query view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			v.statusbar.SetEntries(msg.Stats.Entries)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.expanded {
			v.expanded = false
			return v, nil
		}
		return v, messages.Navigate(messages.ViewMenu)
	}

	if key.Matches(msg, v.keymap.ToggleMode) {
		v.ToggleMode()
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case msg.Type == tea.KeyEnter:
		v.expanded = !v.expanded && v.list.SelectedPassage() != nil
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	case key.Matches(msg, v.keymap.NewQuery):
		v.focusInput = true
		v.expanded = false
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	return v, nil
}

// submit runs the current input in the active mode.
func (v *View) submit() tea.Cmd {
	text := v.input.Submit()
	if text == "" {
		return nil
	}
	v.err = nil
	v.statusbar.SetState(status.StateWorking)
	v.statusbar.SetMessage("")

	mode, ctx, retrieval, topK := v.mode, v.ctx, v.retrieval, v.topK
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		if mode == ModeAsk {
			answer, err := retrieval.Ask(ctx, text)
			return messages.AskCompleted{Answer: answer, Err: err}
		}
		// Query, not Search: an empty store should surface as an error here.
		results, err := retrieval.Query(ctx, text, topK)
		return messages.SearchCompleted{Query: text, Results: results, Err: err}
	}
}

// loadStats fetches the store's entry count for the status bar.
func (v *View) loadStats() tea.Cmd {
	ctx, retrieval := v.ctx, v.retrieval
	return func() tea.Msg {
		if retrieval == nil {
			return nil
		}
		stats, err := retrieval.Stats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.answer = nil
	v.showResults(msg.Results)
}

func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.answer = msg.Answer
	if msg.Answer == nil {
		v.showResults(nil)
		return
	}
	v.showResults(msg.Answer.Passages)
}

func (v *View) showResults(results []domain.SearchResult) {
	v.err = nil
	v.expanded = false
	v.list.SetPassages(results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(results))
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	if errors.Is(err, domain.ErrEmptyStore) {
		err = ErrNothingIndexed
	}
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// ToggleMode switches between search and ask, clearing previous output.
func (v *View) ToggleMode() {
	v.mode = 1 - v.mode
	v.applyMode()
	v.clearOutput()
	v.focusInput = true
	v.input.Focus()
}

func (v *View) clearOutput() {
	v.answer = nil
	v.expanded = false
	v.list.SetPassages(nil)
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetResultCount(0)
}

func (v *View) applyMode() {
	v.statusbar.SetMode(v.mode.String())
	if v.mode == ModeAsk {
		v.input.SetPrompt("Ask", "Ask a question about your documents...")
		return
	}
	v.input.SetPrompt("Search", "Enter search query...")
}

// View renders the query view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("docrag"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.answer != nil && v.answer.Answer != "" && !v.expanded {
		sections = append(sections,
			v.styles.Subtitle.Render("Answer"),
			v.styles.Answer.Width(v.width-4).Render(v.answer.Answer),
			"",
		)
	}

	if v.expanded {
		if r := v.list.SelectedPassage(); r != nil {
			sections = append(sections,
				v.styles.Subtitle.Render("Passage"),
				v.styles.Normal.Width(v.width-2).Render(r.Text),
			)
		}
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Mode returns the active mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Query returns the current input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the passages currently listed.
func (v *View) Results() []domain.SearchResult {
	return v.list.Passages()
}

// Answer returns the last assembled answer, nil in search mode.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// SelectedIndex returns the index of the selected passage.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Expanded reports whether the selected passage is shown in full.
func (v *View) Expanded() bool {
	return v.expanded
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to input mode with no output. The mode is kept.
func (v *View) Reset() {
	v.clearOutput()
	v.err = nil
	v.statusbar.SetMessage("")
	v.focusInput = true
	v.input.SetValue("")
	v.input.Focus()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
