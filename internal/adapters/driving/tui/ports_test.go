package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	results []domain.SearchResult
	answer  *domain.Answer
	stats   driving.StoreStats
	err     error
}

func (m *mockRetrievalService) Index(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockRetrievalService) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockRetrievalService) Query(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockRetrievalService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockRetrievalService) Stats(_ context.Context) (driving.StoreStats, error) {
	return m.stats, m.err
}

// mockDocumentService implements driving.DocumentService for testing.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) IngestFile(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) IngestText(_ context.Context, _, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{name: "nil ports", ports: nil, want: ErrInvalidPorts},
		{name: "missing retrieval", ports: &Ports{Document: &mockDocumentService{}}, want: ErrMissingRetrievalService},
		{name: "retrieval only", ports: &Ports{Retrieval: &mockRetrievalService{}}},
		{name: "all ports", ports: &Ports{Retrieval: &mockRetrievalService{}, Document: &mockDocumentService{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPorts_HasDocuments(t *testing.T) {
	var nilPorts *Ports

	assert.False(t, nilPorts.HasDocuments())
	assert.False(t, (&Ports{Retrieval: &mockRetrievalService{}}).HasDocuments())
	assert.True(t, (&Ports{Retrieval: &mockRetrievalService{}, Document: &mockDocumentService{}}).HasDocuments())
}

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotErrorIs(t, ErrInvalidPorts, ErrMissingRetrievalService)
}
