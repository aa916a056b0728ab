// Package filesystem extracts document text from local files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
	"github.com/custodia-labs/docrag/internal/normalisers"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// DefaultMaxFileSize bounds the bytes read from one file.
const DefaultMaxFileSize = 32 << 20

// Extractor reads a file and normalises it by extension.
type Extractor struct {
	registry *normalisers.Registry
	maxSize  int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxSize = n
		}
	}
}

// New creates an extractor. A nil registry uses every built-in format.
func New(registry *normalisers.Registry, opts ...Option) *Extractor {
	if registry == nil {
		registry = normalisers.NewDefaultRegistry()
	}
	e := &Extractor{registry: registry, maxSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Supports reports whether path has a registered extension.
func (e *Extractor) Supports(path string) bool {
	_, err := e.registry.ForPath(path)
	return err == nil
}

// Extensions lists the supported file extensions.
func (e *Extractor) Extensions() []string {
	return e.registry.Extensions()
}

// Extract returns the text of the file at path. A missing path is
// ErrNotFound whatever its extension.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrExtraction, path)
	}

	normaliser, err := e.registry.ForPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtraction, path, err)
	}
	if info.Size() > e.maxSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrExtraction, path, info.Size(), e.maxSize)
	}

	raw, err := e.read(path)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logger.Debug("Extracting %s as %s (%d bytes)", path, normaliser.Name(), len(raw))
	text, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		if !errors.Is(err, domain.ErrExtraction) {
			err = fmt.Errorf("%w: %w", domain.ErrExtraction, err)
		}
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrNoTextExtracted, path)
	}
	return text, nil
}

func (e *Extractor) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, e.maxSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrExtraction, path, err)
	}
	return raw, nil
}
