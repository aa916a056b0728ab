// Package hashing provides a deterministic, offline embedding service.
//
// Texts are tokenised into lower-cased words and each token is projected
// into a fixed number of buckets with FNV-1a. A second hash picks the sign
// so colliding tokens tend to cancel rather than accumulate. Vectors are
// L2-normalised term frequencies, so cosine similarity reflects shared
// vocabulary. No vocabulary is built, which keeps the embedding of a text
// independent of what else has been indexed.
package hashing

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the number of hash buckets.
const DefaultDimensions = domain.DefaultHashingDimensions

// ModelName is reported for every hashing service.
const ModelName = "feature-hashing"

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*`)

// EmbeddingService embeds text locally by feature hashing.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedder with the given number of
// dimensions. Zero selects DefaultDimensions.
func NewEmbeddingService(dimensions int) (*EmbeddingService, error) {
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}
	if dimensions < 0 {
		return nil, fmt.Errorf("%w: hashing dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}
	return &EmbeddingService{dimensions: dimensions}, nil
}

// ErrNoTokens is wrapped, with domain.ErrEmbeddingProvider and
// domain.ErrEmptyInput, when a text contains no words to hash.
var ErrNoTokens = errors.New("text has no tokens")

// Embed hashes the tokens of text into a normalised vector.
// Text without tokens fails rather than yielding the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vector(text)
}

// EmbedBatch embeds each text in order. One text without tokens fails the batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := s.vector(text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (s *EmbeddingService) vector(text string) ([]float32, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: %w: %w", domain.ErrEmbeddingProvider, domain.ErrEmptyInput, ErrNoTokens)
	}

	acc, norm := s.accumulate(tokens, true)
	if norm == 0 {
		// Every token collided with an opposite-signed one. Unsigned counts
		// are non-zero whenever there is a token.
		acc, norm = s.accumulate(tokens, false)
	}

	vec := make([]float32, s.dimensions)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec, nil
}

func (s *EmbeddingService) accumulate(tokens []string, signed bool) ([]float64, float64) {
	acc := make([]float64, s.dimensions)
	for _, tok := range tokens {
		bucket, sign := s.project(tok)
		if !signed {
			sign = 1
		}
		acc[bucket] += sign
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	return acc, math.Sqrt(norm)
}

func (s *EmbeddingService) project(token string) (int, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	sum := h.Sum64()

	bucket := int(sum % uint64(s.dimensions))
	sign := 1.0
	if sum>>63 == 1 {
		sign = -1.0
	}
	return bucket, sign
}

// Tokenize lower-cases text and splits it into letter and digit runs.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return fmt.Sprintf("%s-%d", ModelName, s.dimensions)
}

// Ping always succeeds; the service has no remote dependency.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
