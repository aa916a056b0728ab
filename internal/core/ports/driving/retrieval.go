package driving

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// RetrievalService indexes text and answers questions from indexed passages.
type RetrievalService interface {
	// Index chunks text, embeds non-blank chunks and adds them to the store.
	// Returns the number of chunks actually added.
	Index(ctx context.Context, text string) (int, error)

	// Search returns up to topK passages. An empty store yields an empty slice.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// Query is Search that reports domain.ErrEmptyStore when nothing is indexed.
	Query(ctx context.Context, question string, topK int) ([]domain.SearchResult, error)

	// Ask retrieves the default number of passages and assembles an answer.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// Stats reports the store's entry count and dimension.
	Stats(ctx context.Context) (StoreStats, error)
}

// StoreStats summarises the vector store.
type StoreStats struct {
	// Entries is the number of indexed chunks.
	Entries int

	// Dimension is the vector size, 0 when empty.
	Dimension int

	// Model is the embedding model name.
	Model string
}
