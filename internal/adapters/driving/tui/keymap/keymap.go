// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = (*KeyMap)(nil)

// KeyMap holds the bindings of the query view.
type KeyMap struct {
	Submit     key.Binding
	ToggleMode key.Binding
	Up         key.Binding
	Down       key.Binding
	// Expand shows the selected passage in full.
	Expand   key.Binding
	NewQuery key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		ToggleMode: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "search/ask")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show passage")),
		NewQuery:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new query")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown while typing a query.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleMode, k.Back}
}

// ResultsHelp returns the bindings shown while browsing passages.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Expand, k.NewQuery, k.Up, k.Down, k.Back}
}

// FullHelp groups every binding for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.ToggleMode, k.NewQuery},
		{k.Up, k.Down, k.Expand},
		{k.Back, k.Help, k.Quit},
	}
}
