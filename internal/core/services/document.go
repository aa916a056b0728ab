package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService extracts documents and feeds them to the retrieval index.
type DocumentService struct {
	extractor driven.TextExtractor
	retrieval driving.RetrievalService
	docStore  driven.DocumentStore
	now       func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	extractor driven.TextExtractor,
	retrieval driving.RetrievalService,
	docStore driven.DocumentStore,
) *DocumentService {
	return &DocumentService{
		extractor: extractor,
		retrieval: retrieval,
		docStore:  docStore,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IngestFile extracts text from path and indexes it.
func (s *DocumentService) IngestFile(ctx context.Context, path string) (*domain.Document, error) {
	logger.Section("Ingest")
	logger.Debug("Path: %s", path)

	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is blank", domain.ErrEmptyInput)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	if !domain.HasWords(text) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoTextExtracted, path)
	}

	return s.index(ctx, filepath.Base(path), path, text)
}

// IngestText indexes raw text under the given name.
func (s *DocumentService) IngestText(ctx context.Context, name, text string) (*domain.Document, error) {
	logger.Section("Ingest")

	if !domain.HasWords(text) {
		return nil, fmt.Errorf("%w: document text has no words", domain.ErrEmptyInput)
	}
	if strings.TrimSpace(name) == "" {
		name = "untitled"
	}

	return s.index(ctx, name, "", text)
}

// List returns all ingested documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

func (s *DocumentService) index(ctx context.Context, name, uri, text string) (*domain.Document, error) {
	n, err := s.retrieval.Index(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", name, err)
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Name:       name,
		URI:        uri,
		Content:    text,
		ChunkCount: n,
		CreatedAt:  s.now(),
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	logger.Info("Ingested %s: %d chunks", name, n)
	return doc, nil
}
