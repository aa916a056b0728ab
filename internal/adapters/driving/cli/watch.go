package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/logger"
	"github.com/custodia-labs/docrag/internal/watcher"
)

var (
	watchNoScan   bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Index files as they change",
	Long: `Indexes every supported file under the given directories, then keeps
watching and re-indexes files when they are created or modified.
Hidden files and directories are skipped. Stop with Ctrl-C.

Passages are never removed from the store, so deleting a file does not
retract what was already indexed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoScan, "no-scan", false, "skip indexing existing files at startup")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a changed file is indexed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	w := watcher.New(documentService, supportsFile,
		watcher.WithInitialScan(!watchNoScan),
		watcher.WithDebounce(watchDebounce),
	)
	defer w.Close() //nolint:errcheck

	ctx := cmd.Context()
	results, err := w.Watch(ctx, args...)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.PrintErrf("Watching %d director%s. Press Ctrl-C to stop.\n", len(args), plural(len(args), "y", "ies"))
	for r := range results {
		if r.Err != nil {
			cmd.PrintErrf("  failed %s: %v\n", r.Path, r.Err)
			continue
		}
		cmd.Printf("  indexed %s (%d chunks)\n", r.Path, r.Document.ChunkCount)
	}
	return nil
}

// startBackgroundWatch re-ingests changed files until ctx ends or stop is called.
func startBackgroundWatch(ctx context.Context, dirs []string) (stop func(), err error) {
	if err := requireDocuments(); err != nil {
		return nil, err
	}

	w := watcher.New(documentService, supportsFile, watcher.WithInitialScan(true))
	results, err := w.Watch(ctx, dirs...)
	if err != nil {
		return nil, fmt.Errorf("watch failed: %w", err)
	}

	go func() {
		for r := range results {
			if r.Err != nil {
				logger.Warn("Watch: %s: %v", r.Path, r.Err)
				continue
			}
			logger.Info("Watch: indexed %s (%d chunks)", r.Path, r.Document.ChunkCount)
		}
	}()

	return func() { _ = w.Close() }, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
