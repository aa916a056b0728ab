package driving

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// DocumentService ingests documents into the retrieval index.
type DocumentService interface {
	// IngestFile extracts text from path and indexes it.
	IngestFile(ctx context.Context, path string) (*domain.Document, error)

	// IngestText indexes raw text under the given name.
	IngestText(ctx context.Context, name, text string) (*domain.Document, error)

	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)
}
