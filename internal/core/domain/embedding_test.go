package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		values  []float32
		wantErr bool
	}{
		{name: "valid", values: []float32{1, 2, 3}},
		{name: "zero vector is valid", values: []float32{0, 0}},
		{name: "nil", values: nil, wantErr: true},
		{name: "empty", values: []float32{}, wantErr: true},
		{name: "NaN", values: []float32{1, float32(math.NaN())}, wantErr: true},
		{name: "Inf", values: []float32{float32(math.Inf(1))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEmbedding(tt.values)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.values), e.Dimension())
		})
	}
}

func TestNewEmbedding_CopiesInput(t *testing.T) {
	values := []float32{1, 2}
	e, err := NewEmbedding(values)
	require.NoError(t, err)

	values[0] = 99
	assert.Equal(t, float32(1), e[0])
}

func TestEmbedding_Norm(t *testing.T) {
	e := Embedding{3, 4}
	assert.InDelta(t, 5.0, e.Norm(), 1e-9)
	assert.Equal(t, 0.0, Embedding{0, 0}.Norm())
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b Embedding
		want float64
	}{
		{name: "identical", a: Embedding{1, 2, 3}, b: Embedding{1, 2, 3}, want: 1},
		{name: "scaled", a: Embedding{1, 2, 3}, b: Embedding{2, 4, 6}, want: 1},
		{name: "orthogonal", a: Embedding{1, 0}, b: Embedding{0, 1}, want: 0},
		{name: "opposite", a: Embedding{1, 0}, b: Embedding{-1, 0}, want: -1},
		{name: "zero left", a: Embedding{0, 0}, b: Embedding{1, 1}, want: 0},
		{name: "zero both", a: Embedding{0, 0}, b: Embedding{0, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := Embedding{0.3, -1.2, 4.5, 0.01}
	b := Embedding{2.2, 0.7, -0.4, 9}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	aa, err := CosineSimilarity(a, a)
	require.NoError(t, err)
	assert.Equal(t, 1.0, aa)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity(Embedding{1, 2}, Embedding{1, 2, 3})

	require.Error(t, err)
	assert.True(t, IsDimensionMismatch(err))
}
