// Package documents lists indexed documents in a table.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// ErrNoDocumentService is reported when the view has no document service.
var ErrNoDocumentService = errors.New("document service not available")

const (
	chunksWidth  = 8
	indexedWidth = 16
	// rows taken by the title, table header, footer and help.
	chrome = 7
)

// View shows the indexed documents and opens one on enter.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	documents []domain.Document
	table     table.Model
	width     int
	height    int
	loading   bool
	err       error
}

// NewView creates an empty documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(s.Theme().Accent).Bold(true)
	ts.Selected = s.Selected

	v := &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		table: table.New(
			table.WithFocused(true),
			table.WithStyles(ts),
		),
	}
	v.SetDimensions(80, 24)
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts loading the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil

	ctx, svc := v.ctx, v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := svc.List(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles list results and table navigation.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.setDocuments(msg.Documents)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			doc := v.SelectedDocument()
			if doc == nil {
				return v, nil
			}
			selected := *doc
			return v, func() tea.Msg { return messages.DocumentSelected{Document: selected} }
		case "r":
			return v, v.Init()
		case "esc":
			return v, messages.Navigate(messages.ViewMenu)
		}
		if len(v.documents) == 0 {
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *View) setDocuments(docs []domain.Document) {
	v.documents = docs
	rows := make([]table.Row, len(docs))
	for i, doc := range docs {
		name := doc.Name
		if name == "" {
			name = doc.ID
		}
		indexed := "-"
		if !doc.CreatedAt.IsZero() {
			indexed = doc.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		rows[i] = table.Row{name, strconv.Itoa(doc.ChunkCount), indexed}
	}
	v.table.SetRows(rows)
}

// View renders the table or the current state.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents indexed yet."))
	default:
		b.WriteString(v.table.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d of %d", v.table.Cursor()+1, len(v.documents))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] show content  [r] reload  [esc] back"))
	return b.String()
}

// SetDimensions sizes the columns so the name takes the spare width.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	nameWidth := max(width-chunksWidth-indexedWidth-10, 12)
	v.table.SetColumns([]table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Chunks", Width: chunksWidth},
		{Title: "Indexed", Width: indexedWidth},
	})
	v.table.SetWidth(width - 2)
	v.table.SetHeight(max(height-chrome, 2))
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the table cursor.
func (v *View) SelectedIndex() int {
	return max(v.table.Cursor(), 0)
}

// SelectedDocument returns the document under the cursor, or nil.
func (v *View) SelectedDocument() *domain.Document {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.documents) {
		return nil
	}
	return &v.documents[i]
}

// Loading reports whether a list request is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
