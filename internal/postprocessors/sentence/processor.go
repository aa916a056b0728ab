// Package sentence provides a boundary-aware chunking processor.
//
// Whole sentences are packed into chunks of at most the configured size.
// A sentence longer than the size falls back to fixed-size slices. As with
// the fixed-size chunker, chunks partition the content exactly.
package sentence

import (
	"context"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/postprocessors/chunker"
)

// A sentence runs to its terminal punctuation and absorbs trailing whitespace.
var sentencePattern = regexp.MustCompile(`[^.!?]*[.!?]+\s*`)

// Processor packs sentences into size-bounded chunks.
type Processor struct {
	chunkSize int
}

// Option configures the sentence processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters. Non-positive sizes are ignored.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a sentence processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{chunkSize: chunker.DefaultChunkSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "sentence"
}

// Process splits document content at sentence boundaries.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	parts := Pack(doc.Content, p.chunkSize)
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

// Sentences splits text into sentences. Unterminated trailing text is
// returned as a final sentence.
func Sentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		out = append(out, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, text[last:])
	}
	return out
}

// Pack greedily joins sentences into chunks of at most size runes.
func Pack(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}

	var parts []string
	current, currentLen := "", 0
	for _, s := range Sentences(text) {
		n := utf8.RuneCountInString(s)
		if n > size {
			if current != "" {
				parts = append(parts, current)
				current, currentLen = "", 0
			}
			parts = append(parts, chunker.Split(s, size)...)
			continue
		}
		if currentLen+n > size {
			parts = append(parts, current)
			current, currentLen = "", 0
		}
		current += s
		currentLen += n
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}
