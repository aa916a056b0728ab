// Package list provides the ranked passage list for the TUI.
package list

import (
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/domain"
)

// scoreBarWidth is the number of cells in a similarity bar.
const scoreBarWidth = 10

// linesPerPassage is the heading line plus the preview line.
const linesPerPassage = 2

// PassageList shows ranked passages with a similarity bar and a one-line preview.
type PassageList struct {
	styles   *styles.Styles
	passages []domain.SearchResult
	selected int
	offset   int
	width    int
	height   int
}

// NewPassageList creates an empty list.
func NewPassageList(s *styles.Styles) *PassageList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &PassageList{styles: s, width: 80, height: 10}
}

// SetPassages replaces the list contents and selects the first passage.
func (l *PassageList) SetPassages(passages []domain.SearchResult) {
	l.passages = passages
	l.selected = 0
	l.offset = 0
}

// Passages returns the listed passages in rank order.
func (l *PassageList) Passages() []domain.SearchResult {
	return l.passages
}

// Len returns the number of passages.
func (l *PassageList) Len() int {
	return len(l.passages)
}

// Selected returns the index of the selected passage.
func (l *PassageList) Selected() int {
	return l.selected
}

// SelectedPassage returns the selected passage, or nil when the list is empty.
func (l *PassageList) SelectedPassage() *domain.SearchResult {
	if l.selected < 0 || l.selected >= len(l.passages) {
		return nil
	}
	return &l.passages[l.selected]
}

// MoveUp selects the previous passage.
func (l *PassageList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		l.scrollToSelected()
	}
}

// MoveDown selects the next passage.
func (l *PassageList) MoveDown() {
	if l.selected < len(l.passages)-1 {
		l.selected++
		l.scrollToSelected()
	}
}

// SetDimensions sets the area available to the list.
func (l *PassageList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
	l.scrollToSelected()
}

// View renders the visible window of passages.
func (l *PassageList) View() string {
	if len(l.passages) == 0 {
		return l.styles.Muted.Render("No passages")
	}

	lines := make([]string, 0, 2+l.pageSize()*linesPerPassage)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(l.passages))), "")

	end := min(l.offset+l.pageSize(), len(l.passages))
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.heading(i), l.preview(&l.passages[i]))
	}
	if end < len(l.passages) || l.offset > 0 {
		lines = append(lines, l.styles.Muted.Render(
			fmt.Sprintf("  %d-%d of %d", l.offset+1, end, len(l.passages))))
	}
	return strings.Join(lines, "\n")
}

func (l *PassageList) heading(i int) string {
	p := &l.passages[i]
	rank := fmt.Sprintf("  #%d", i+1)
	if i == l.selected {
		rank = l.styles.Selected.Render(fmt.Sprintf("> #%d", i+1))
	}
	score := l.styles.Score(p.Score).Render(fmt.Sprintf("%s %.4f", ScoreBar(p.Score), p.Score))
	return fmt.Sprintf("%s  %s  %s", rank, score, l.styles.Muted.Render(fmt.Sprintf("entry %d", p.Position)))
}

func (l *PassageList) preview(p *domain.SearchResult) string {
	limit := max(l.width-6, 20)
	text := strings.Join(strings.Fields(p.Text), " ")
	if runes := []rune(text); len(runes) > limit {
		text = string(runes[:limit-1]) + "…"
	}
	return l.styles.Normal.Render("    " + text)
}

// pageSize is how many passages fit, leaving room for the header and footer.
func (l *PassageList) pageSize() int {
	return max((l.height-3)/linesPerPassage, 1)
}

func (l *PassageList) scrollToSelected() {
	page := l.pageSize()
	switch {
	case l.selected < l.offset:
		l.offset = l.selected
	case l.selected >= l.offset+page:
		l.offset = l.selected - page + 1
	}
}

// ScoreBar draws similarity as filled cells. Negative scores draw an empty bar.
func ScoreBar(similarity float64) string {
	filled := int(math.Round(math.Max(0, math.Min(1, similarity)) * scoreBarWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", scoreBarWidth-filled)
}
