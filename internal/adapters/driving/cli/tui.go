package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/core/domain"
)

// tuiStartViews maps the optional argument to the first view shown.
var tuiStartViews = map[string]messages.ViewChanged{
	"search":    {View: messages.ViewSearch},
	"ask":       {View: messages.ViewSearch, Ask: true},
	"documents": {View: messages.ViewDocuments},
}

var tuiCmd = &cobra.Command{
	Use:       "tui [search|ask|documents]",
	Short:     "Launch the interactive terminal UI",
	ValidArgs: []string{"search", "ask", "documents"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Long: `Launch the interactive terminal UI.

Without an argument the menu opens first. Pass search, ask or documents
to start in that view.

Type a query and press enter to retrieve passages. Tab switches between
search mode (ranked passages) and ask mode (assembled answer context).
The status bar shows how many passages the store holds.

Controls:
  ↑/k, ↓/j  move through results
  enter     run the query or expand a passage
  tab       toggle search and ask
  n         new query
  esc       back
  ?         help (from the menu)
  ctrl+c    quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// hasTerminal is replaced in tests.
var hasTerminal = isTerminal

func tuiOptions(args []string) []tui.Option {
	opts := []tui.Option{tui.WithTopK(configuredTopK())}
	if len(args) == 1 {
		if start, ok := tuiStartViews[args[0]]; ok {
			opts = append(opts, tui.WithStartView(start))
		}
	}
	return opts
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := requireRetrieval(); err != nil {
		return err
	}
	if !hasTerminal() {
		return fmt.Errorf("%w: the TUI needs an interactive terminal; use search or ask instead", domain.ErrInvalidInput)
	}

	app, err := tui.NewApp(&tui.Ports{
		Retrieval: retrievalService,
		Document:  documentService,
	}, tuiOptions(args)...)
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
