package driven

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// AIConfigValidator checks embedding settings against the provider they name.
type AIConfigValidator interface {
	// ValidateEmbedding returns nil for empty settings and for a provider that
	// answers with vectors of the configured size.
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error
}
