package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type vectorEntry struct {
	embedding domain.Embedding
	norm      float64
	text      string
}

// VectorStore is an exact, in-memory nearest-neighbour store.
// Add takes the write lock, so a Search never sees a partial append.
// Search is O(n·d).
type VectorStore struct {
	mu      sync.RWMutex
	entries []vectorEntry
	dim     int
	closed  bool
}

// NewVectorStore creates an empty store. The dimension is fixed by the first Add.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Add appends an entry.
func (s *VectorStore) Add(_ context.Context, embedding domain.Embedding, text string) error {
	if embedding.Dimension() == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrStoreClosed
	}
	if s.dim != 0 && embedding.Dimension() != s.dim {
		return &domain.DimensionMismatchError{Expected: s.dim, Got: embedding.Dimension()}
	}

	stored := make(domain.Embedding, len(embedding))
	copy(stored, embedding)
	s.entries = append(s.entries, vectorEntry{embedding: stored, norm: stored.Norm(), text: text})
	s.dim = len(stored)
	return nil
}

// Search returns up to k entries ranked by descending cosine similarity.
// Ties keep insertion order. Zero-norm vectors score 0 against everything.
func (s *VectorStore) Search(_ context.Context, query domain.Embedding, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	if len(s.entries) == 0 {
		return []driven.VectorHit{}, nil
	}
	if query.Dimension() != s.dim {
		return nil, &domain.DimensionMismatchError{Expected: s.dim, Got: query.Dimension()}
	}

	qNorm := query.Norm()
	hits := make([]driven.VectorHit, len(s.entries))
	for i, e := range s.entries {
		var sim float64
		if qNorm != 0 && e.norm != 0 {
			sim = clamp(query.Dot(e.embedding) / (qNorm * e.norm))
		}
		hits[i] = driven.VectorHit{Text: e.text, Position: i, Similarity: sim}
	}

	return TopK(hits, k), nil
}

// Len returns the number of stored entries.
func (s *VectorStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Dimension returns the store's vector dimension, or 0 before the first Add.
func (s *VectorStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// Close releases the entries. Further calls fail with ErrStoreClosed.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.closed = true
	return nil
}

// TopK stable-sorts hits by descending similarity and keeps the first k.
// hits must be in insertion order for ties to resolve by position.
func TopK(hits []driven.VectorHit, k int) []driven.VectorHit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

func clamp(sim float64) float64 {
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
