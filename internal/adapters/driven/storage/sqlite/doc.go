// Package sqlite provides SQLite-backed implementations of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, with jmoiron/sqlx for row mapping. One database file backs:
//
//   - VectorStore: Append-only (embedding, text) entries
//   - DocumentStore: Ingested document metadata
//
// # Search
//
// Vectors are loaded into an in-memory exact index when the store opens and
// every Add is written through to the database first. Search never touches
// SQLite, so ranking matches the memory backend exactly.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
