// Package doccontent shows the extracted text of one indexed document.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// ErrNoDocumentService is reported when the view has no document service.
var ErrNoDocumentService = errors.New("document service not available")

// chrome is the rows used by the header, separator, footer and help line.
const chrome = 6

// View scrolls through a document's text in a viewport.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	document *domain.Document
	content  string
	viewport viewport.Model
	width    int
	loading  bool
	err      error
}

// NewView creates an empty content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		viewport:        viewport.New(80, 24-chrome),
		width:           80,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init implements the view contract. Loading starts in SetDocument.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetDocument clears the view and fetches the full text of doc.
func (v *View) SetDocument(doc *domain.Document) tea.Cmd {
	v.document = doc
	v.content = ""
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	ctx, svc := v.ctx, v.documentService
	return func() tea.Msg {
		if doc == nil || svc == nil {
			return messages.DocumentContentLoaded{Err: ErrNoDocumentService}
		}
		full, err := svc.Get(ctx, doc.ID)
		if err != nil {
			return messages.DocumentContentLoaded{DocumentID: doc.ID, Err: err}
		}
		return messages.DocumentContentLoaded{DocumentID: doc.ID, Content: full.Content}
	}
}

// Update handles loaded content and scrolling keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DocumentContentLoaded:
		if v.document != nil && msg.DocumentID != "" && msg.DocumentID != v.document.ID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.content = msg.Content
			v.refresh()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, messages.Navigate(messages.ViewDocuments)
		case "g", "home":
			v.viewport.GotoTop()
			return v, nil
		case "G", "end":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// refresh rewraps the content to the current width.
func (v *View) refresh() {
	v.viewport.SetContent(strings.Join(Wrap(v.content, v.viewport.Width), "\n"))
}

// View renders the header, the visible text and the scroll position.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.title()))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.meta()))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(strings.Repeat("─", min(v.width-4, 60))))
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.content == "":
		b.WriteString(v.styles.Muted.Render("(No content)"))
	default:
		b.WriteString(v.viewport.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(v.position()))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("↑/↓ scroll | pgup/pgdn page | g/G top/bottom | esc: back"))
	return b.String()
}

func (v *View) title() string {
	if v.document == nil {
		return "Document"
	}
	if v.document.Name != "" {
		return v.document.Name
	}
	return v.document.ID
}

func (v *View) meta() string {
	if v.document == nil {
		return ""
	}
	parts := []string{fmt.Sprintf("%d chunks", v.document.ChunkCount)}
	if v.document.URI != "" {
		parts = append(parts, v.document.URI)
	}
	if !v.document.CreatedAt.IsZero() {
		parts = append(parts, "indexed "+v.document.CreatedAt.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " · ")
}

func (v *View) position() string {
	total := v.viewport.TotalLineCount()
	first := v.viewport.YOffset + 1
	last := min(v.viewport.YOffset+v.viewport.Height, total)
	return fmt.Sprintf("lines %d-%d of %d (%3.0f%%)", first, last, total, v.viewport.ScrollPercent()*100)
}

// Wrap splits text into lines of at most width runes. Existing line breaks are kept.
func Wrap(text string, width int) []string {
	width = max(width, 1)
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		runes := []rune(line)
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		lines = append(lines, string(runes))
	}
	return lines
}

// SetDimensions resizes the viewport and rewraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.viewport.Width = max(width-4, 20)
	v.viewport.Height = max(height-chrome, 1)
	v.refresh()
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Content returns the document text.
func (v *View) Content() string {
	return v.content
}

// Offset returns the first visible line.
func (v *View) Offset() int {
	return v.viewport.YOffset
}

// Loading reports whether content is being fetched.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
