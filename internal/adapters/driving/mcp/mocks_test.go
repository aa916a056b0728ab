package mcp

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.SearchResult
	answer  *domain.Answer
	stats   driving.StoreStats
	indexed int
	err     error

	lastQuery string
	lastTopK  int
	lastText  string
}

func (m *mockRetrievalService) Index(_ context.Context, text string) (int, error) {
	m.lastText = text
	return m.indexed, m.err
}

func (m *mockRetrievalService) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockRetrievalService) Query(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	return m.Search(ctx, query, topK)
}

func (m *mockRetrievalService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.lastQuery = question
	return m.answer, m.err
}

func (m *mockRetrievalService) Stats(_ context.Context) (driving.StoreStats, error) {
	return m.stats, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error

	lastPath string
	lastName string
	lastText string
}

func (m *mockDocumentService) IngestFile(_ context.Context, path string) (*domain.Document, error) {
	m.lastPath = path
	return m.document, m.err
}

func (m *mockDocumentService) IngestText(_ context.Context, name, text string) (*domain.Document, error) {
	m.lastName = name
	m.lastText = text
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}
