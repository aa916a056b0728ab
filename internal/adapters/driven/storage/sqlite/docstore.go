package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

type documentRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	URI        string    `db:"uri"`
	ChunkCount int       `db:"chunk_count"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r documentRow) toDomain() domain.Document {
	return domain.Document{
		ID:         r.ID,
		Name:       r.Name,
		URI:        r.URI,
		ChunkCount: r.ChunkCount,
		CreatedAt:  r.CreatedAt,
	}
}

// DocumentStore returns a DocumentStore interface backed by this store.
// Document content is not persisted; only metadata is.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// SaveDocument stores or updates a document.
func (d *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, uri, chunk_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			uri = excluded.uri,
			chunk_count = excluded.chunk_count
	`, doc.ID, doc.Name, doc.URI, doc.ChunkCount, createdAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (d *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var row documentRow
	err := d.store.db.GetContext(ctx, &row,
		"SELECT id, name, uri, chunk_count, created_at FROM documents WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	doc := row.toDomain()
	return &doc, nil
}

// FindByURI retrieves the most recent document ingested from uri.
func (d *documentStore) FindByURI(ctx context.Context, uri string) (*domain.Document, error) {
	if uri == "" {
		return nil, domain.ErrNotFound
	}
	var row documentRow
	err := d.store.db.GetContext(ctx, &row, `
		SELECT id, name, uri, chunk_count, created_at FROM documents
		WHERE uri = ? ORDER BY created_at DESC LIMIT 1
	`, uri)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding document: %w", err)
	}
	doc := row.toDomain()
	return &doc, nil
}

// DeleteDocument removes a document.
func (d *documentStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := d.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns all documents ordered by creation time.
func (d *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var rows []documentRow
	if err := d.store.db.SelectContext(ctx, &rows,
		"SELECT id, name, uri, chunk_count, created_at FROM documents ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := make([]domain.Document, len(rows))
	for i, row := range rows {
		docs[i] = row.toDomain()
	}
	return docs, nil
}
