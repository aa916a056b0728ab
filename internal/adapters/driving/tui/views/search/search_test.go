package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	results []domain.SearchResult
	answer  *domain.Answer
	stats   driving.StoreStats
	err     error

	queried   string
	asked     string
	lastTopK  int
	queryUsed bool
}

func (m *mockRetrievalService) Index(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockRetrievalService) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.queried = query
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockRetrievalService) Query(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.queryUsed = true
	m.queried = query
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockRetrievalService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.asked = question
	return m.answer, m.err
}

func (m *mockRetrievalService) Stats(_ context.Context) (driving.StoreStats, error) {
	return m.stats, m.err
}

func samplePassages() []domain.SearchResult {
	return []domain.SearchResult{
		{Text: "first passage", Score: 0.9},
		{Text: "second passage", Score: 0.7, Position: 1},
		{Text: "third passage", Score: 0.4, Position: 2},
	}
}

func readyView(retrieval driving.RetrievalService) *View {
	v := NewView(nil, nil, retrieval, 0)
	v.SetDimensions(100, 40)
	return v
}

func typeText(v *View, text string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return v
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	view := NewView(s, km, &mockRetrievalService{}, 5)

	require.NotNil(t, view)
	assert.Equal(t, ModeSearch, view.Mode())
	assert.Equal(t, 5, view.topK)
	assert.True(t, view.InputFocused())
	assert.False(t, view.Ready())
}

func TestNewView_Defaults(t *testing.T) {
	view := NewView(nil, nil, nil, 0)

	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.Equal(t, domain.DefaultTopK, view.topK)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "search", ModeSearch.String())
	assert.Equal(t, "ask", ModeAsk.String())
}

func TestView_WithContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	view := NewView(nil, nil, nil, 0).WithContext(ctx)

	assert.Equal(t, ctx, view.ctx)
}

func TestView_Init_LoadsStats(t *testing.T) {
	mock := &mockRetrievalService{stats: driving.StoreStats{Entries: 7}}
	view := readyView(mock)

	msg := view.loadStats()()
	view, _ = view.Update(msg)

	loaded, ok := msg.(messages.StatsLoaded)
	require.True(t, ok)
	assert.Equal(t, 7, loaded.Stats.Entries)
	assert.Equal(t, 7, view.statusbar.Entries())
	assert.NotNil(t, view.Init())
}

func TestView_SearchMode_UsesQueryWithTopK(t *testing.T) {
	mock := &mockRetrievalService{results: samplePassages()}
	view := NewView(nil, nil, mock, 2)
	view.SetDimensions(100, 40)
	view = typeText(view, "passage")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())

	assert.True(t, mock.queryUsed)
	assert.Equal(t, "passage", mock.queried)
	assert.Equal(t, 2, mock.lastTopK)
	assert.Len(t, view.Results(), 3)
	assert.False(t, view.InputFocused())
	assert.Nil(t, view.Answer())
}

func TestView_SearchMode_EmptyStore(t *testing.T) {
	view := readyView(&mockRetrievalService{err: domain.ErrEmptyStore})
	view = typeText(view, "anything")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view, _ = view.Update(cmd())

	assert.ErrorIs(t, view.Err(), ErrNothingIndexed)
	assert.Contains(t, view.View(), "nothing indexed yet")
	assert.True(t, view.InputFocused())
}

func TestView_AskMode(t *testing.T) {
	mock := &mockRetrievalService{
		answer: &domain.Answer{
			Question: "why?",
			Context:  "first passage",
			Answer:   "Based on the indexed documents: first passage",
			Passages: samplePassages()[:1],
		},
	}
	view := readyView(mock)
	view.ToggleMode()
	require.Equal(t, ModeAsk, view.Mode())
	view = typeText(view, "why?")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view, _ = view.Update(cmd())

	assert.Equal(t, "why?", mock.asked)
	require.NotNil(t, view.Answer())
	assert.Len(t, view.Results(), 1)
	assert.Contains(t, view.View(), "Based on the indexed documents")
}

func TestView_Tab_TogglesMode(t *testing.T) {
	view := readyView(&mockRetrievalService{})
	view.list.SetPassages(samplePassages())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, ModeAsk, view.Mode())
	assert.Equal(t, "Ask", view.input.Label())
	assert.Empty(t, view.Results())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, ModeSearch, view.Mode())
	assert.Equal(t, "Search", view.input.Label())
}

func TestView_Enter_EmptyInput(t *testing.T) {
	view := readyView(&mockRetrievalService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_Esc_BackToMenu(t *testing.T) {
	view := readyView(&mockRetrievalService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_ResultsNavigation(t *testing.T) {
	view := readyView(&mockRetrievalService{})
	view, _ = view.Update(messages.SearchCompleted{Results: samplePassages()})

	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, 1},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, 2},
		{tea.KeyMsg{Type: tea.KeyDown}, 2},
		{tea.KeyMsg{Type: tea.KeyUp}, 1},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}, 0},
	}

	for _, tt := range tests {
		view, _ = view.Update(tt.key)
		assert.Equal(t, tt.want, view.SelectedIndex())
	}
}

func TestView_Enter_ExpandsPassage(t *testing.T) {
	view := readyView(&mockRetrievalService{})
	view, _ = view.Update(messages.SearchCompleted{Results: samplePassages()})

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, view.Expanded())
	assert.Contains(t, view.View(), "Passage")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, view.Expanded())
}

func TestView_N_NewSearch(t *testing.T) {
	view := readyView(&mockRetrievalService{})
	view.SetQuery("old")
	view, _ = view.Update(messages.SearchCompleted{Results: samplePassages()})

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	assert.True(t, view.InputFocused())
	assert.Empty(t, view.Query())
}

func TestView_ErrorOccurred(t *testing.T) {
	view := readyView(&mockRetrievalService{})

	view, _ = view.Update(messages.ErrorOccurred{Err: errors.New("provider down")})

	assert.EqualError(t, view.Err(), "provider down")
	assert.Contains(t, view.View(), "provider down")
}

func TestView_NoRetrievalService(t *testing.T) {
	view := readyView(nil)

	view.SetQuery("q")
	msg := view.submit()()

	errMsg, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, ErrNoRetrievalService)
	assert.Nil(t, view.loadStats()())
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil, nil, nil, 0)

	assert.Equal(t, "Initialising...", view.View())
}

func TestView_View_WithResults(t *testing.T) {
	view := readyView(&mockRetrievalService{})
	view, _ = view.Update(messages.SearchCompleted{Results: samplePassages()})

	out := view.View()

	assert.Contains(t, out, "docrag")
	assert.Contains(t, out, "Results (3)")
	assert.Contains(t, out, "first passage")
	assert.Contains(t, out, "[search]")
}

func TestView_Reset(t *testing.T) {
	view := readyView(&mockRetrievalService{})
	view.ToggleMode()
	view, _ = view.Update(messages.SearchCompleted{Results: samplePassages()})

	view.Reset()

	assert.True(t, view.InputFocused())
	assert.Empty(t, view.Results())
	assert.Nil(t, view.Err())
	assert.Equal(t, ModeAsk, view.Mode())
}
