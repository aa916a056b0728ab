// Package chunker provides the fixed-size text chunking processor.
//
// Chunks are contiguous, non-overlapping runs of characters (runes) from
// the document content, so a multi-byte character is never split. Concatenating them in Position order reproduces the content
// exactly. Blank chunks are kept; filtering them is the caller's job.
package chunker

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// Processor splits document content into fixed-size chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters. Non-positive sizes are ignored.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	parts := Split(doc.Content, p.chunkSize)
	if len(parts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    part,
			Position:   i,
		}
	}
	return chunks, nil
}

// Split cuts text into consecutive slices of size runes, the last possibly
// shorter. Empty text or a non-positive size yields nil.
// len(Split(t, c)) == ceil(RuneCount(t)/c) for non-empty t.
func Split(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}

	parts := make([]string, 0, (utf8.RuneCountInString(text)+size-1)/size)
	start, n := 0, 0
	for i := range text {
		if n == size {
			parts = append(parts, text[start:i])
			start, n = i, 0
		}
		n++
	}
	return append(parts, text[start:])
}
