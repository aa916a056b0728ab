package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/docrag/internal/core/domain"
)

// App switches between the menu, search, document and help screens and
// routes each message to the screen that owns it.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView       *menu.View
	searchView     *search.View
	documentsView  *documents.View
	docContentView *doccontent.View

	currentView messages.ViewType
	err         error

	width, height int
	ready         bool // set by the first WindowSizeMsg

	// start is sent once from Init when set.
	start *messages.ViewChanged
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// Option configures an App.
type Option func(*appConfig)

type appConfig struct {
	topK  int
	start *messages.ViewChanged
}

// WithTopK sets how many passages search mode retrieves.
func WithTopK(k int) Option {
	return func(c *appConfig) {
		c.topK = k
	}
}

// WithStartView opens the given view instead of the menu.
func WithStartView(v messages.ViewChanged) Option {
	return func(c *appConfig) {
		c.start = &v
	}
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts ...Option) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	cfg := appConfig{topK: domain.DefaultTopK}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		start:          cfg.start,
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		menuView:       menu.NewView(s, menuItems(ports)...),
		searchView:     search.NewView(s, km, ports.Retrieval, cfg.topK),
		documentsView:  documents.NewView(s, ports.Document),
		docContentView: doccontent.NewView(s, ports.Document),
		currentView:    messages.ViewMenu,
	}, nil
}

// menuItems hides the documents entry when no document service is wired.
func menuItems(ports *Ports) []menu.Item {
	items := menu.DefaultItems()
	if ports.HasDocuments() {
		return items
	}
	return slices.DeleteFunc(items, func(item menu.Item) bool {
		return item.View == messages.ViewDocuments
	})
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, tea.SetWindowTitle("docrag")}
	if a.start != nil {
		start := *a.start
		cmds = append(cmds, func() tea.Msg { return start })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg)

	case messages.SearchCompleted, messages.AskCompleted, messages.StatsLoaded:
		cmd := a.forward(messages.ViewSearch, msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.DocumentsLoaded:
		a.err = msg.Err
		return a, a.forward(messages.ViewDocuments, msg)

	case messages.DocumentSelected:
		doc := msg.Document
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(&doc)

	case messages.DocumentContentLoaded:
		a.err = msg.Err
		return a, a.forward(messages.ViewDocContent, msg)

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	// Everything else, cursor blinks included, goes to the active screen.
	return a, a.forward(a.currentView, msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch {
	case key == "ctrl+c":
		return tea.Quit
	case a.currentView == messages.ViewMenu && key == "?":
		a.currentView = messages.ViewHelp
		return nil
	case a.currentView == messages.ViewHelp:
		if msg.Type == tea.KeyEsc || key == "?" {
			a.currentView = messages.ViewMenu
		}
		return nil
	}

	cmd := a.forward(a.currentView, msg)
	if a.currentView == messages.ViewSearch {
		a.err = a.searchView.Err()
	}
	return cmd
}

// forward delivers msg to the screen for view. Help has no model.
func (a *App) forward(view messages.ViewType, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch view {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// switchView activates a view and runs its initial command.
func (a *App) switchView(msg messages.ViewChanged) tea.Cmd {
	a.currentView = msg.View
	a.err = nil

	switch msg.View {
	case messages.ViewSearch:
		a.searchView.Reset()
		if wantAsk := msg.Ask; wantAsk != (a.searchView.Mode() == search.ModeAsk) {
			a.searchView.ToggleMode()
		}
		return a.searchView.Init()
	case messages.ViewDocuments:
		return a.documentsView.Init()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewDocContent:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the key bindings of every view.
func (a *App) viewHelp() string {
	h := help.New()
	h.Width = a.width

	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Help"),
		"",
		a.styles.Subtitle.Render("Search / Ask"),
		a.styles.Normal.Render("Type a query and press enter. Tab switches between search and ask."),
		h.FullHelpView(a.keymap.FullHelp()),
		"",
		a.styles.Subtitle.Render("Menu"),
		a.styles.Normal.Render("j/k move, enter selects, the letter in brackets jumps to an entry."),
		"",
		a.styles.Subtitle.Render("Documents"),
		a.styles.Normal.Render("enter shows the extracted text, r reloads, g/G jump to top or bottom."),
		"",
		a.styles.Help.Render("?: toggle help | esc: back to menu | ctrl+c: quit"),
	)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search input.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the passages currently listed.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected passage index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
}
