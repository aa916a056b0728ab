package driven

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// VectorStore holds (embedding, text) entries and answers exact
// nearest-neighbour queries by cosine similarity.
//
// Entries are append-only. All embeddings in one store share a dimension,
// fixed by the first Add. Implementations must be safe for concurrent use:
// a Search never observes a partially appended entry.
type VectorStore interface {
	// Add appends an entry. Returns a *domain.DimensionMismatchError when
	// the embedding's dimension differs from the stored entries.
	Add(ctx context.Context, embedding domain.Embedding, text string) error

	// Search returns up to k entries ranked by descending similarity.
	// Ties keep insertion order. An empty store returns an empty slice.
	Search(ctx context.Context, query domain.Embedding, k int) ([]VectorHit, error)

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)

	// Dimension returns the store's vector dimension, or 0 before the first Add.
	Dimension() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Text is the stored chunk text.
	Text string

	// Position is the entry's insertion ordinal.
	Position int

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}
