package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure RetrievalPipeline implements the interface.
var _ driving.RetrievalService = (*RetrievalPipeline)(nil)

// RetrievalPipeline indexes document text and retrieves ranked passages.
type RetrievalPipeline struct {
	chunker   driven.Chunker
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	assembler *AnswerAssembler
	topK      int
}

// RetrievalOption configures the pipeline.
type RetrievalOption func(*RetrievalPipeline)

// WithDefaultTopK sets the number of passages Ask retrieves.
func WithDefaultTopK(k int) RetrievalOption {
	return func(p *RetrievalPipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithAnswerAssembler replaces the default assembler.
func WithAnswerAssembler(a *AnswerAssembler) RetrievalOption {
	return func(p *RetrievalPipeline) {
		if a != nil {
			p.assembler = a
		}
	}
}

// NewRetrievalPipeline wires the chunking pipeline, embedding provider and store.
// The store is owned by the caller, which closes it.
func NewRetrievalPipeline(
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	opts ...RetrievalOption,
) *RetrievalPipeline {
	p := &RetrievalPipeline{
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		assembler: NewAnswerAssembler(),
		topK:      domain.DefaultTopK,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Index chunks text, drops chunks without words, embeds the rest and adds
// them. It returns the number of chunks added, which excludes dropped chunks.
// A chunk whose embedding comes back as the zero vector is dropped too.
func (p *RetrievalPipeline) Index(ctx context.Context, text string) (int, error) {
	logger.Section("Index")

	if !domain.HasWords(text) {
		return 0, fmt.Errorf("%w: document text has no words", domain.ErrEmptyInput)
	}

	chunks, err := p.chunker.Process(ctx, &domain.Document{Content: text})
	if err != nil {
		return 0, fmt.Errorf("chunking: %w", err)
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if domain.HasWords(c.Content) {
			texts = append(texts, c.Content)
		}
	}
	logger.Debug("Chunks: %d, after blank filter: %d", len(chunks), len(texts))
	if len(texts) == 0 {
		return 0, nil
	}

	done := logger.Timed("Embedding")
	raw, err := p.embedder.EmbedBatch(ctx, texts)
	done()
	if err != nil {
		return 0, providerError(err)
	}
	if len(raw) != len(texts) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrEmbeddingProvider, len(raw), len(texts))
	}

	// Validate everything before the first Add so a bad vector leaves the store untouched.
	embeddings := make([]domain.Embedding, 0, len(raw))
	kept := make([]string, 0, len(raw))
	dim := p.store.Dimension()
	for i, values := range raw {
		e, err := domain.NewEmbedding(values)
		if err != nil {
			return 0, fmt.Errorf("%w: chunk %d: %w", domain.ErrEmbeddingProvider, i, err)
		}
		if dim == 0 {
			dim = e.Dimension()
		}
		if e.Dimension() != dim {
			return 0, fmt.Errorf("chunk %d: %w", i, &domain.DimensionMismatchError{Expected: dim, Got: e.Dimension()})
		}
		if e.Norm() == 0 {
			logger.Debug("Chunk %d embedded to the zero vector, skipped", i)
			continue
		}
		embeddings = append(embeddings, e)
		kept = append(kept, texts[i])
	}

	for i, e := range embeddings {
		if err := p.store.Add(ctx, e, kept[i]); err != nil {
			return i, fmt.Errorf("adding chunk %d: %w", i, err)
		}
	}

	logger.Info("Indexed %d chunks (dimension %d)", len(embeddings), dim)
	return len(embeddings), nil
}

// Search returns up to topK passages. An empty store yields an empty slice.
func (p *RetrievalPipeline) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	logger.Section("Search")
	results, err := p.retrieve(ctx, query, topK)
	if errors.Is(err, domain.ErrEmptyStore) {
		return []domain.SearchResult{}, nil
	}
	return results, err
}

// Query returns up to topK passages, or ErrEmptyStore when nothing is indexed.
func (p *RetrievalPipeline) Query(ctx context.Context, question string, topK int) ([]domain.SearchResult, error) {
	logger.Section("Query")
	return p.retrieve(ctx, question, topK)
}

// Ask retrieves the default number of passages and assembles an answer.
func (p *RetrievalPipeline) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	logger.Section("Ask")
	results, err := p.retrieve(ctx, question, p.topK)
	if err != nil {
		return nil, err
	}
	answer := p.assembler.Assemble(strings.TrimSpace(question), results)
	return &answer, nil
}

// Stats reports the store's entry count and dimension.
func (p *RetrievalPipeline) Stats(ctx context.Context) (driving.StoreStats, error) {
	n, err := p.store.Len(ctx)
	if err != nil {
		return driving.StoreStats{}, fmt.Errorf("counting entries: %w", err)
	}
	return driving.StoreStats{
		Entries:   n,
		Dimension: p.store.Dimension(),
		Model:     p.embedder.ModelName(),
	}, nil
}

// DefaultTopK returns the number of passages Ask retrieves.
func (p *RetrievalPipeline) DefaultTopK() int {
	return p.topK
}

func (p *RetrievalPipeline) retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is blank", domain.ErrEmptyInput)
	}
	if !domain.HasWords(query) {
		return nil, fmt.Errorf("%w: query %q has no words", domain.ErrEmptyInput, query)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	logger.Debug("Query: %q, top_k: %d", query, topK)

	n, err := p.store.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}
	if n == 0 {
		logger.Debug("Store is empty")
		return nil, domain.ErrEmptyStore
	}

	raw, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, providerError(err)
	}
	qvec, err := domain.NewEmbedding(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrEmbeddingProvider, err)
	}
	// A zero query vector scores every entry 0.
	if qvec.Norm() == 0 {
		return nil, fmt.Errorf("%w: query embedded to the zero vector", domain.ErrEmbeddingProvider)
	}

	done := logger.Timed("Similarity scan")
	hits, err := p.store.Search(ctx, qvec, topK)
	done()
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	logger.Debug("Hits: %d of %d entries", len(hits), n)

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{Text: h.Text, Position: h.Position, Score: h.Similarity}
	}
	return results, nil
}

// providerError ensures embedding failures carry ErrEmbeddingProvider.
func providerError(err error) error {
	if errors.Is(err, domain.ErrEmbeddingProvider) || errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrEmbeddingProvider, err)
}
