package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/domain"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed passages",
	Long: `Embeds the query and returns the passages with the highest cosine
similarity, best first. Ties keep insertion order.

The number of passages defaults to retrieval.top_k (3 unless configured).
Searching before anything is indexed returns no results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Retrieve context for a question",
	Long: `Retrieves the top passages for a question and assembles them into a
context block, separated by blank lines, ready for an answer generator.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of passages to return (0 = configured default)")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(askCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requireRetrieval(); err != nil {
		return err
	}

	query := args[0]
	topK := searchTopK
	if topK == 0 {
		topK = configuredTopK()
	}

	results, err := retrievalService.Search(cmd.Context(), query, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	view := searchView{Query: query, Results: passageViews(results)}
	return render(cmd, view, func(w io.Writer) {
		writePassages(w, view.Results)
	})
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireRetrieval(); err != nil {
		return err
	}

	answer, err := retrievalService.Ask(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	view := newAnswerView(answer)
	return render(cmd, view, func(w io.Writer) {
		fmt.Fprintln(w, view.Answer)
	})
}

func writePassages(w io.Writer, passages []passageView) {
	if len(passages) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	var st *styles.Styles
	if isTerminal() {
		st = styles.NewStyles(nil)
	}

	fmt.Fprintln(w, "Results:")
	fmt.Fprintln(w)
	for _, p := range passages {
		header := fmt.Sprintf("[%d] score %.4f", p.Rank, p.Score)
		if st != nil {
			header = st.Title.Render(header)
		}
		fmt.Fprintf(w, "  %s\n", header)
		for _, line := range strings.Split(strings.TrimSpace(p.Text), "\n") {
			fmt.Fprintf(w, "      %s\n", line)
		}
		fmt.Fprintln(w)
	}
}

// configuredTopK returns retrieval.top_k, falling back to the built-in default.
func configuredTopK() int {
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.Retrieval.TopK > 0 {
			return s.Retrieval.TopK
		}
	}
	return domain.DefaultTopK
}
