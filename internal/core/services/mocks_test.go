package services

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are letter counts, so identical texts embed identically.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedErr   error
	batchErr   error
	override   [][]float32
	query      []float32
	embedCalls int
	batchCalls int
	dims       int
}

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

func newMockEmbedder() *mockEmbeddingService {
	return &mockEmbeddingService{dims: 27}
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	v := make([]float32, m.dims)
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			v[r-'a']++
		case !unicode.IsSpace(r):
			v[m.dims-1]++
		}
	}
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.query != nil {
		return m.query, nil
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	if m.override != nil {
		return m.override, nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls + m.batchCalls
}

func (m *mockEmbeddingService) Dimensions() int { return m.dims }
func (m *mockEmbeddingService) ModelName() string { return "mock-letters" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error { return nil }

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	texts map[string]string
	err   error
}

var _ driven.TextExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) Extract(_ context.Context, source string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	text, ok := m.texts[source]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockExtractor) Supports(_ string) bool { return true }

// failingStore wraps a store and fails Len.
type failingStore struct {
	driven.VectorStore
	lenErr error
}

func (f *failingStore) Len(_ context.Context) (int, error) { return 0, f.lenErr }
