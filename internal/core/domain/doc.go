// Package domain defines the core business entities for docrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Text ingested for retrieval
//   - Chunk: A contiguous, retrievable slice of a document
//   - Embedding: A validated, fixed-dimension vector
//   - SearchResult: A ranked passage returned for a query
//   - Answer: Retrieved passages packaged for display or generation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
