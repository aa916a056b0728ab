// Package messages holds the tea.Msg types passed between the app and its views.
package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// ViewType identifies a screen.
type ViewType int

// Screens.
const (
	ViewMenu ViewType = iota
	ViewSearch
	ViewHelp
	ViewDocuments
	ViewDocContent
)

var viewNames = [...]string{
	ViewMenu:       "menu",
	ViewSearch:     "search",
	ViewHelp:       "help",
	ViewDocuments:  "documents",
	ViewDocContent: "doc_content",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged asks the app to switch screens. Ask opens search in ask mode.
type ViewChanged struct {
	View ViewType
	Ask  bool
}

// Navigate returns a command that switches to view.
func Navigate(view ViewType) tea.Cmd {
	return func() tea.Msg { return ViewChanged{View: view} }
}

// Results of retrieval calls. Err is set instead of the payload on failure.
type (
	SearchCompleted struct {
		Query   string
		Results []domain.SearchResult
		Err     error
	}

	AskCompleted struct {
		Answer *domain.Answer
		Err    error
	}

	StatsLoaded struct {
		Stats driving.StoreStats
		Err   error
	}
)

// Document browsing.
type (
	DocumentsLoaded struct {
		Documents []domain.Document
		Err       error
	}

	DocumentSelected struct {
		Document domain.Document
	}

	// DocumentContentLoaded is dropped by the content view when DocumentID
	// no longer matches the open document.
	DocumentContentLoaded struct {
		DocumentID string
		Content    string
		Err        error
	}
)

// ErrorOccurred reports a failure to the active view.
type ErrorOccurred struct {
	Err error
}

// Quit exits the program.
type Quit struct{}
