package driven

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// PostProcessor is one stage of chunking. The first stage receives nil and
// creates chunks from doc.Content; later stages rewrite what they are given.
// Output positions must run 0..n-1.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// Chunker splits a document into the chunks that get embedded.
type Chunker interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
