// Package menu provides the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
)

// Item is one entry on the start screen.
type Item struct {
	Label       string
	Description string
	// Shortcut selects the item directly.
	Shortcut string
	View     messages.ViewType
	// Ask opens the query view in ask mode.
	Ask  bool
	Quit bool
}

// DefaultItems returns the start screen entries in display order.
func DefaultItems() []Item {
	return []Item{
		{Label: "Search", Description: "rank passages by similarity", Shortcut: "s", View: messages.ViewSearch},
		{Label: "Ask", Description: "assemble an answer from the best passages", Shortcut: "a",
			View: messages.ViewSearch, Ask: true},
		{Label: "Documents", Description: "browse what has been indexed", Shortcut: "d", View: messages.ViewDocuments},
		{Label: "Help", Description: "key bindings", Shortcut: "?", View: messages.ViewHelp},
		{Label: "Quit", Shortcut: "q", Quit: true},
	}
}

// View is the start screen.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the start screen. With no items it shows DefaultItems.
func NewView(s *styles.Styles, items ...Item) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if len(items) == 0 {
		items = DefaultItems()
	}
	return &View{styles: s, items: items, width: 80, height: 24}
}

// Init implements the view contract. The menu has no startup work.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor, wrapping at either end, and activates items.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.selected = (v.selected - 1 + len(v.items)) % len(v.items)
		case "down", "j":
			v.selected = (v.selected + 1) % len(v.items)
		case "enter":
			return v, v.activate(v.items[v.selected])
		default:
			for i, item := range v.items {
				if item.Shortcut == msg.String() {
					v.selected = i
					return v, v.activate(item)
				}
			}
		}
	}
	return v, nil
}

func (v *View) activate(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View, Ask: item.Ask}
	}
}

// View renders the title, entries and footer.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("docrag"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Retrieval over your documents"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("[%s] %-10s", item.Shortcut, item.Label)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		if item.Description != "" {
			b.WriteString(" ")
			b.WriteString(v.styles.Muted.Render(item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("j/k: move | enter: select | letter: jump"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the entries in display order.
func (v *View) Items() []Item {
	return v.items
}
