package domain

import (
	"strings"
	"time"
	"unicode"
)

// Document represents text ingested for retrieval.
// It is immutable once chunked.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the human-readable name (file name or caller label).
	Name string

	// URI is the original location, empty for raw text.
	URI string

	// Content is the full text before chunking.
	Content string

	// ChunkCount is the number of chunks added to the vector store.
	ChunkCount int

	// CreatedAt is when the document was indexed.
	CreatedAt time.Time
}

// Chunk is a contiguous substring of a document's text.
// Chunks of one document, concatenated by Position, reproduce its Content.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document. Optional.
	DocumentID string

	// Content is the text of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// HasWords reports whether text contains a letter or digit. Text without
// one, such as "???" or "----", carries nothing to match on and is neither
// indexed nor accepted as a query.
func HasWords(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}
