// Package postprocessors turns document content into chunks.
// The first processor in a pipeline creates chunks; later ones may rewrite them.
package postprocessors

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
)

var _ driven.Chunker = (*Pipeline)(nil)

// ErrChunkOrder is returned when a processor emits chunks whose positions
// are not 0..n-1 in order.
var ErrChunkOrder = errors.New("chunks out of order")

// Pipeline runs processors in sequence, each receiving the previous output.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a pipeline of the given processors.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Process chunks doc. The first processor receives nil chunks.
// Every stage must keep chunk positions contiguous from zero.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, proc := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		done := logger.Timed("chunk/" + proc.Name())
		out, err := proc.Process(ctx, doc, chunks)
		done()
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", proc.Name(), err)
		}
		if err := checkOrder(out); err != nil {
			return nil, fmt.Errorf("processor %s: %w", proc.Name(), err)
		}
		chunks = out
	}

	return chunks, nil
}

func checkOrder(chunks []domain.Chunk) error {
	for i, c := range chunks {
		if c.Position != i {
			return fmt.Errorf("%w: chunk %d has position %d", ErrChunkOrder, i, c.Position)
		}
	}
	return nil
}

// Add appends a processor.
func (p *Pipeline) Add(proc driven.PostProcessor) {
	p.processors = append(p.processors, proc)
}

// Names lists the processors in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
