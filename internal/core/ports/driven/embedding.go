package driven

import "context"

// EmbeddingService turns text into vectors. Storage and search belong to
// VectorStore.
//
// Every vector from one service has Dimensions() values. Failures wrap
// domain.ErrEmbeddingProvider and are never replaced by a zero vector.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is 0 when the size is only known after the first call.
	Dimensions() int
	ModelName() string

	// Ping checks the provider is reachable without embedding anything.
	Ping(ctx context.Context) error
	Close() error
}
