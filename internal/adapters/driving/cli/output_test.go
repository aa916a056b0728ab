package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    outputFormat
		wantErr bool
	}{
		{input: "text", want: outputText},
		{input: "json", want: outputJSON},
		{input: "yaml", want: outputYAML},
		{input: "", want: outputText},
		{input: "xml", wantErr: true},
		{input: "JSON", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseOutputFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPassageViews(t *testing.T) {
	views := passageViews([]domain.SearchResult{
		{Text: "a", Score: 0.9, Position: 4},
		{Text: "b", Score: 0.1, Position: 2},
	})

	require.Len(t, views, 2)
	assert.Equal(t, passageView{Rank: 1, Score: 0.9, Text: "a"}, views[0])
	assert.Equal(t, passageView{Rank: 2, Score: 0.1, Text: "b"}, views[1])
	assert.Empty(t, passageViews(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "empty store", err: fmt.Errorf("search failed: %w", domain.ErrEmptyStore), want: "docrag index"},
		{name: "unsupported", err: fmt.Errorf("%w: %w", domain.ErrExtraction, domain.ErrUnsupportedType), want: "docrag status"},
		{name: "provider", err: domain.ErrEmbeddingProvider, want: "embedding.provider hashing"},
		{name: "dimension", err: &domain.DimensionMismatchError{Expected: 3, Got: 4}, want: "store.path"},
		{name: "not found", err: domain.ErrNotFound, want: "Check the path"},
		{name: "other", err: errors.New("other"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ErrorHint(tt.err)
			if tt.want == "" {
				assert.Empty(t, hint)
				return
			}
			assert.Contains(t, hint, tt.want)
		})
	}
}

func TestErrorHint_EmptyStoreWhenEphemeral(t *testing.T) {
	t.Cleanup(resetCLIState)
	ephemeralFlag = true

	hint := ErrorHint(domain.ErrEmptyStore)

	assert.Contains(t, hint, "--ephemeral")
	assert.NotContains(t, hint, "docrag index")
}
