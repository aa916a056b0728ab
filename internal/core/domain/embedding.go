package domain

import (
	"fmt"
	"math"
)

// Embedding is a fixed-dimension vector representing a chunk or query.
// Construct with NewEmbedding so components are known to be finite.
type Embedding []float32

// NewEmbedding validates values and returns them as an Embedding.
// The slice is copied so later mutation by the caller has no effect.
func NewEmbedding(values []float32) (Embedding, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: embedding has no components", ErrInvalidInput)
	}
	out := make(Embedding, len(values))
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: embedding component %d is not finite", ErrInvalidInput, i)
		}
		out[i] = v
	}
	return out, nil
}

// Dimension returns the number of components.
func (e Embedding) Dimension() int {
	return len(e)
}

// Norm returns the Euclidean length.
func (e Embedding) Norm() float64 {
	var sum float64
	for _, v := range e {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of e and other.
// Both must have the same dimension.
func (e Embedding) Dot(other Embedding) float64 {
	var sum float64
	for i := range e {
		sum += float64(e[i]) * float64(other[i])
	}
	return sum
}

// CosineSimilarity returns dot(a,b) / (|a| * |b|) in [-1, 1].
// A zero-norm operand has no direction, so its similarity to anything is 0.
func CosineSimilarity(a, b Embedding) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Expected: len(a), Got: len(b)}
	}
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0, nil
	}
	sim := a.Dot(b) / (na * nb)
	// Clamp rounding drift so sim(a, a) is exactly 1.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim, nil
}
