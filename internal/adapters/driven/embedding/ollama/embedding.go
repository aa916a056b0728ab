// Package ollama embeds text with a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/docrag/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/docrag/internal/adapters/driven/embedding/remote"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = domain.DefaultOllamaBaseURL
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
	// DefaultDimensions matches nomic-embed-text.
	DefaultDimensions = 768
)

// Config configures the service. Every field has a default.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions is looked up from the model name when zero.
	Dimensions int

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	HTTPClient *http.Client
}

// EmbeddingService calls POST /api/embed, which takes a batch of inputs.
type EmbeddingService struct {
	api        *remote.Client
	model      string
	dimensions int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService fills in defaults. It never contacts the server.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
		if known, ok := domain.EmbeddingDimensions()[cfg.Model]; ok {
			cfg.Dimensions = known
		}
	}

	return &EmbeddingService{
		api: remote.New("ollama", cfg.BaseURL, cfg.Timeout,
			remote.WithHTTPClient(cfg.HTTPClient),
			remote.WithLimiter(ratelimit.New(cfg.RequestsPerSecond)),
		),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed embeds one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds all texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	logger.Debug("ollama: embedding %d inputs with %s", len(texts), s.model)
	var resp embedResponse
	if err := s.api.PostJSON(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: ollama: got %d embeddings for %d inputs",
			domain.ErrEmbeddingProvider, len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, values := range resp.Embeddings {
		out[i] = remote.Float32s(values)
	}
	return out, nil
}

func (s *EmbeddingService) Dimensions() int   { return s.dimensions }
func (s *EmbeddingService) ModelName() string { return s.model }

// Ping lists local models, which needs no inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/api/tags")
}

func (s *EmbeddingService) Close() error { return nil }
