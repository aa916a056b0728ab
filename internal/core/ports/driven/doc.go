// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Maps text to a fixed-dimension vector
//   - VectorStore: Holds (vector, text) entries and answers nearest-neighbour queries
//   - TextExtractor: Reads raw text from a document source
//   - DocumentStore: Ingested document metadata
//   - ConfigStore: Application configuration
//   - PostProcessor: Turns document content into chunks
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
