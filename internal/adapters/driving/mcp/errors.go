// Package mcp provides an MCP (Model Context Protocol) server adapter for docrag.
// It lets AI assistants index documents and retrieve passages over stdio or HTTP.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// errorKind names the domain error class of err for tool callers.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, domain.ErrEmptyStore):
		return "empty_store"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNoTextExtracted):
		return "no_text_extracted"
	case errors.Is(err, domain.ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, domain.ErrEmbeddingProvider):
		return "embedding_provider_error"
	case errors.Is(err, domain.ErrExtraction):
		return "extraction_error"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal_error"
	}
}

// toolError prefixes err with its kind. The SDK reports handler errors to
// the client as tool results with isError set.
func toolError(err error) error {
	return fmt.Errorf("%s: %w", errorKind(err), err)
}
