package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	indexText string
	indexName string
)

var indexCmd = &cobra.Command{
	Use:   "index [files...]",
	Short: "Index documents for retrieval",
	Long: `Extracts text from each file, splits it into chunks, embeds the chunks
and adds them to the vector store.

Supported formats are plain text, markdown, HTML, DOCX and EML.
Pass --text to index a string directly, or '-' to read text from stdin.

Examples:
  docrag index notes.md report.docx
  docrag index --text "The quick brown fox" --name fox
  cat notes.txt | docrag index -`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexText, "text", "", "index this text instead of files")
	indexCmd.Flags().StringVar(&indexName, "name", "", "document name for --text or stdin input")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	textMode := indexText != ""
	if !textMode && len(args) == 0 {
		return errors.New("nothing to index: pass files, '-' or --text")
	}
	if textMode && len(args) > 0 {
		return errors.New("--text cannot be combined with files")
	}

	ctx := cmd.Context()
	var docs []documentView

	if textMode || (len(args) == 1 && args[0] == "-") {
		text := indexText
		name := indexName
		if !textMode {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
			if name == "" {
				name = "stdin"
			}
		}
		doc, err := documentService.IngestText(ctx, name, text)
		if err != nil {
			return fmt.Errorf("index failed: %w", err)
		}
		docs = append(docs, newDocumentView(doc))
	} else {
		for _, path := range args {
			doc, err := documentService.IngestFile(ctx, path)
			if err != nil {
				return fmt.Errorf("index %s failed: %w", path, err)
			}
			docs = append(docs, newDocumentView(doc))
		}
	}

	return render(cmd, docs, func(w io.Writer) {
		total := 0
		for _, d := range docs {
			fmt.Fprintf(w, "Indexed %s (%d chunks) [%s]\n", d.Name, d.ChunkCount, d.ID)
			total += d.ChunkCount
		}
		if len(docs) > 1 {
			fmt.Fprintf(w, "Total: %d documents, %d chunks\n", len(docs), total)
		}
		if total == 0 {
			fmt.Fprintln(w, "Warning: no non-blank chunks were added.")
		}
	})
}
