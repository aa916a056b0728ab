package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrEmptyInput indicates blank text, query or question.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoTextExtracted indicates a document produced no readable text.
	ErrNoTextExtracted = errors.New("no text extracted")

	// ErrExtraction indicates a document could not be read or decoded.
	ErrExtraction = errors.New("extraction failed")

	// ErrDimensionMismatch indicates an embedding does not match the store's dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyStore indicates a query was made before any document was indexed.
	ErrEmptyStore = errors.New("no documents indexed")

	// ErrEmbeddingProvider indicates the embedding provider failed.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrUnsupportedType indicates an unknown provider, backend or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrStoreClosed indicates the vector store has been closed.
	ErrStoreClosed = errors.New("store closed")
)

// DimensionMismatchError reports the dimensions involved in a mismatch.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrDimensionMismatch, e.Expected, e.Got)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

// IsDimensionMismatch returns true if err is or wraps a dimension mismatch.
func IsDimensionMismatch(err error) bool {
	return errors.Is(err, ErrDimensionMismatch)
}
