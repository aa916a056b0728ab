package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vector store statistics",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusView struct {
	Entries    int      `json:"entries" yaml:"entries"`
	Dimension  int      `json:"dimension" yaml:"dimension"`
	Model      string   `json:"model" yaml:"model"`
	Documents  int      `json:"documents" yaml:"documents"`
	Backend    string   `json:"backend,omitempty" yaml:"backend,omitempty"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := requireRetrieval(); err != nil {
		return err
	}

	ctx := cmd.Context()
	stats, err := retrievalService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store stats: %w", err)
	}

	view := statusView{
		Entries:    stats.Entries,
		Dimension:  stats.Dimension,
		Model:      stats.Model,
		Extensions: extensions,
	}
	if documentService != nil {
		docs, err := documentService.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		view.Documents = len(docs)
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			view.Backend = string(s.Store.Backend)
		}
	}

	return render(cmd, view, func(w io.Writer) {
		fmt.Fprintf(w, "Passages:   %d\n", view.Entries)
		if view.Dimension > 0 {
			fmt.Fprintf(w, "Dimension:  %d\n", view.Dimension)
		} else {
			fmt.Fprintln(w, "Dimension:  (empty store)")
		}
		fmt.Fprintf(w, "Model:      %s\n", view.Model)
		fmt.Fprintf(w, "Documents:  %d\n", view.Documents)
		if view.Backend != "" {
			fmt.Fprintf(w, "Backend:    %s\n", view.Backend)
		}
		if len(view.Extensions) > 0 {
			fmt.Fprintf(w, "Extensions: %s\n", strings.Join(view.Extensions, " "))
		}
	})
}
