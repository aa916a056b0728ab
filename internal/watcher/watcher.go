// Package watcher re-ingests documents when files under watched directories
// are created or modified.
//
// The vector store is append-only, so removals and renames are reported to the
// verbose log but never retract passages that were already indexed.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// DefaultDebounce is how long a path must stay quiet before it is ingested.
const DefaultDebounce = 250 * time.Millisecond

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// Result reports the outcome of ingesting one path.
type Result struct {
	Path     string
	Document *domain.Document
	Err      error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitialScan ingests every supported file already present under the
// roots before watching for changes.
func WithInitialScan(enabled bool) Option {
	return func(w *Watcher) {
		w.initialScan = enabled
	}
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// Watcher feeds changed files to a DocumentService.
type Watcher struct {
	docs        driving.DocumentService
	supports    func(path string) bool
	debounce    time.Duration
	initialScan bool

	mu       sync.Mutex
	closed   bool
	fsw      *fsnotify.Watcher
	ingested map[string]fileStamp
}

// New creates a watcher. supports decides which paths are worth ingesting;
// nil accepts every regular file.
func New(docs driving.DocumentService, supports func(path string) bool, opts ...Option) *Watcher {
	if supports == nil {
		supports = func(string) bool { return true }
	}
	w := &Watcher{
		docs:     docs,
		supports: supports,
		debounce: DefaultDebounce,
		ingested: make(map[string]fileStamp),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching roots recursively. Results are delivered on the
// returned channel, which is closed when ctx is cancelled or Close is called.
func (w *Watcher) Watch(ctx context.Context, roots ...string) (<-chan Result, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no paths to watch", domain.ErrInvalidInput)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}

	var initial []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			fsw.Close() //nolint:errcheck
			return nil, fmt.Errorf("root path error: %w", err)
		}
		if !info.IsDir() {
			fsw.Close() //nolint:errcheck
			return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, root)
		}
		files, err := addTree(fsw, root)
		if err != nil {
			fsw.Close() //nolint:errcheck
			return nil, err
		}
		initial = append(initial, files...)
	}
	w.fsw = fsw

	results := make(chan Result, 16)
	go w.loop(ctx, fsw, initial, results)

	logger.Info("Watching %d path(s)", len(roots))
	return results, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, initial []string, results chan<- Result) {
	defer close(results)

	if w.initialScan {
		for _, path := range initial {
			if !w.supports(path) {
				continue
			}
			if !w.ingest(ctx, path, results) {
				return
			}
		}
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(event.Name) {
					if _, err := addTree(fsw, event.Name); err != nil {
						logger.Warn("Watching %s: %v", event.Name, err)
					}
					continue
				}
			}
			if path, ok := w.handleFsEvent(event); ok {
				pending[path] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				if !w.ingest(ctx, path, results) {
					return
				}
			}
		}
	}
}

// handleFsEvent returns the path to ingest for event, if any.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if isHidden(event.Name) {
		return "", false
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		logger.Debug("Ignoring removal of %s", event.Name)
		return "", false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	if !w.supports(event.Name) {
		return "", false
	}
	return event.Name, true
}

// ingest indexes path unless it is unchanged since the last ingest.
// It returns false when ctx ends while delivering the result.
func (w *Watcher) ingest(ctx context.Context, path string, results chan<- Result) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}

	w.mu.Lock()
	prev, seen := w.ingested[path]
	w.mu.Unlock()
	if seen && prev == stamp {
		logger.Debug("Unchanged: %s", path)
		return true
	}

	doc, err := w.docs.IngestFile(ctx, path)
	if err == nil {
		w.mu.Lock()
		w.ingested[path] = stamp
		w.mu.Unlock()
	}

	select {
	case results <- Result{Path: path, Document: doc, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}

// addTree watches root and every non-hidden directory below it, returning the
// regular files found along the way.
func addTree(fsw *fsnotify.Watcher, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
