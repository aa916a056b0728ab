package driven

import "context"

// TextExtractor reads raw text from a document source.
//
// Errors wrap domain.ErrNotFound when the source does not exist,
// domain.ErrExtraction when it cannot be read or decoded, and
// domain.ErrNoTextExtracted when it holds no readable text.
type TextExtractor interface {
	// Extract returns the text content of source.
	Extract(ctx context.Context, source string) (string, error)

	// Supports reports whether the extractor handles source's format.
	Supports(source string) bool
}
