package cli

import (
	"errors"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// ErrorHint suggests a next step for common failures, or returns "".
func ErrorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmptyStore) && ephemeralFlag:
		return "Nothing is kept between --ephemeral runs. Drop the flag, or index and ask within one session: docrag --ephemeral mcp serve"
	case errors.Is(err, domain.ErrEmptyStore):
		return "Index documents first: docrag index <file>. With store.backend memory, nothing is kept between commands."
	case errors.Is(err, domain.ErrUnsupportedType):
		return "Run 'docrag status' to list supported file extensions."
	case errors.Is(err, domain.ErrEmbeddingProvider):
		return "Check the provider with 'docrag settings', or work offline: docrag settings set embedding.provider hashing"
	case errors.Is(err, domain.ErrDimensionMismatch):
		return "The store holds vectors from another embedding model. Point store.path at a new file or restore the original model."
	case errors.Is(err, domain.ErrNotFound):
		return "Check the path or ID and try again."
	default:
		return ""
	}
}
