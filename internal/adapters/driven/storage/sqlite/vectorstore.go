package sqlite

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type vectorRow struct {
	Position  int64  `db:"position"`
	Text      string `db:"text"`
	Dimension int    `db:"dimension"`
	Embedding []byte `db:"embedding"`
}

// VectorStore persists entries to SQLite and serves searches from memory.
type VectorStore struct {
	store *Store
	index *memory.VectorStore

	// writeMu serialises Add and Close so the database and index stay in the
	// same order and a closed store never persists a row.
	writeMu sync.Mutex
	closed  bool
}

// VectorStore loads all persisted entries and returns the store.
func (s *Store) VectorStore(ctx context.Context) (*VectorStore, error) {
	var rows []vectorRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT position, text, dimension, embedding FROM vectors ORDER BY position"); err != nil {
		return nil, fmt.Errorf("loading vectors: %w", err)
	}

	index := memory.NewVectorStore()
	for _, row := range rows {
		values, err := decodeEmbedding(row.Embedding, row.Dimension)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", row.Position, err)
		}
		if err := index.Add(ctx, values, row.Text); err != nil {
			return nil, fmt.Errorf("vector %d: %w", row.Position, err)
		}
	}

	return &VectorStore{store: s, index: index}, nil
}

// Add writes the entry to the database, then to the in-memory index.
func (v *VectorStore) Add(ctx context.Context, embedding domain.Embedding, text string) error {
	if embedding.Dimension() == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
	}

	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	if v.closed {
		return domain.ErrStoreClosed
	}
	if dim := v.index.Dimension(); dim != 0 && dim != embedding.Dimension() {
		return &domain.DimensionMismatchError{Expected: dim, Got: embedding.Dimension()}
	}

	_, err := v.store.db.ExecContext(ctx,
		"INSERT INTO vectors (text, dimension, embedding) VALUES (?, ?, ?)",
		text, embedding.Dimension(), encodeEmbedding(embedding))
	if err != nil {
		return fmt.Errorf("saving vector: %w", err)
	}

	return v.index.Add(ctx, embedding, text)
}

// Search ranks the in-memory entries.
func (v *VectorStore) Search(ctx context.Context, query domain.Embedding, k int) ([]driven.VectorHit, error) {
	return v.index.Search(ctx, query, k)
}

// Len returns the number of stored entries.
func (v *VectorStore) Len(ctx context.Context) (int, error) {
	return v.index.Len(ctx)
}

// Dimension returns the store's vector dimension.
func (v *VectorStore) Dimension() int {
	return v.index.Dimension()
}

// Close releases the in-memory index. The database connection is closed by Store.
func (v *VectorStore) Close() error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	v.closed = true
	return v.index.Close()
}
