package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var documentsShowContent bool

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List ingested documents",
	Long:    `Lists metadata for every ingested document, oldest first.`,
	RunE:    runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

func init() {
	documentsShowCmd.Flags().BoolVar(&documentsShowContent, "content", false, "include the extracted text")
	documentsCmd.AddCommand(documentsShowCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	views := make([]documentView, len(docs))
	for i := range docs {
		views[i] = newDocumentView(&docs[i])
	}

	return render(cmd, views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "No documents indexed.")
			return
		}
		fmt.Fprintf(w, "Documents:\n\n")
		for _, d := range views {
			fmt.Fprintf(w, "  %s\n", d.ID)
			fmt.Fprintf(w, "    Name: %s\n", d.Name)
			if d.URI != "" {
				fmt.Fprintf(w, "    URI: %s\n", d.URI)
			}
			fmt.Fprintf(w, "    Chunks: %d\n", d.ChunkCount)
			fmt.Fprintf(w, "    Indexed: %s\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Total: %d documents\n", len(views))
	})
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	view := newDocumentView(doc)
	if documentsShowContent {
		view.Content = doc.Content
	}

	return render(cmd, view, func(w io.Writer) {
		fmt.Fprintf(w, "ID: %s\n", view.ID)
		fmt.Fprintf(w, "Name: %s\n", view.Name)
		if view.URI != "" {
			fmt.Fprintf(w, "URI: %s\n", view.URI)
		}
		fmt.Fprintf(w, "Chunks: %d\n", view.ChunkCount)
		fmt.Fprintf(w, "Indexed: %s\n", view.CreatedAt.Format("2006-01-02 15:04:05"))
		if documentsShowContent {
			fmt.Fprintln(w)
			fmt.Fprintln(w, strings.TrimSpace(view.Content))
		} else {
			fmt.Fprintf(w, "Preview: %s\n", truncate(strings.Join(strings.Fields(doc.Content), " "), 120))
		}
	})
}
