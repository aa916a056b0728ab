package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case outputText, outputJSON, outputYAML:
		return f, nil
	case "":
		return outputText, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want text, json or yaml)", domain.ErrInvalidInput, s)
	}
}

// render writes v in the selected structured format, or calls text for
// plain output.
func render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	format, err := parseOutputFormat(outputFlag)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return enc.Close()
	default:
		text(w)
	}
	return nil
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// passageView is the structured form of a ranked passage.
type passageView struct {
	Rank  int     `json:"rank" yaml:"rank"`
	Score float64 `json:"score" yaml:"score"`
	Text  string  `json:"text" yaml:"text"`
}

func passageViews(results []domain.SearchResult) []passageView {
	views := make([]passageView, len(results))
	for i, r := range results {
		views[i] = passageView{Rank: i + 1, Score: r.Score, Text: r.Text}
	}
	return views
}

// searchView is the structured output of 'docrag search'.
type searchView struct {
	Query   string        `json:"query" yaml:"query"`
	Results []passageView `json:"results" yaml:"results"`
}

// answerView is the structured output of 'docrag ask'.
type answerView struct {
	Question string        `json:"question" yaml:"question"`
	Context  string        `json:"context" yaml:"context"`
	Answer   string        `json:"answer" yaml:"answer"`
	Passages []passageView `json:"passages" yaml:"passages"`
}

func newAnswerView(a *domain.Answer) answerView {
	return answerView{
		Question: a.Question,
		Context:  a.Context,
		Answer:   a.Answer,
		Passages: passageViews(a.Passages),
	}
}

// documentView is the structured form of an ingested document.
type documentView struct {
	ID         string    `json:"document_id" yaml:"document_id"`
	Name       string    `json:"name" yaml:"name"`
	URI        string    `json:"uri,omitempty" yaml:"uri,omitempty"`
	ChunkCount int       `json:"chunks_indexed" yaml:"chunks_indexed"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Content    string    `json:"content,omitempty" yaml:"content,omitempty"`
}

func newDocumentView(d *domain.Document) documentView {
	return documentView{
		ID:         d.ID,
		Name:       d.Name,
		URI:        d.URI,
		ChunkCount: d.ChunkCount,
		CreatedAt:  d.CreatedAt,
	}
}

// truncate shortens s to at most n runes for one-line display.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
