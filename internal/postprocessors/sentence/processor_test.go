package sentence

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestSentences(t *testing.T) {
	got := Sentences("One. Two!  Three? tail")

	assert.Equal(t, []string{"One. ", "Two!  ", "Three? ", "tail"}, got)
	assert.Empty(t, Sentences(""))
}

func TestPack(t *testing.T) {
	text := "Alpha beta. Gamma delta. Epsilon."

	parts := Pack(text, 25)

	assert.Equal(t, []string{"Alpha beta. Gamma delta. ", "Epsilon."}, parts)
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestPack_LongSentenceFallsBack(t *testing.T) {
	long := strings.Repeat("x", 12) + "."
	text := "Hi. " + long + " Bye."

	parts := Pack(text, 5)

	assert.Equal(t, text, strings.Join(parts, ""))
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 5)
	}
}

func TestPack_Reconstructs(t *testing.T) {
	texts := []string{
		"No terminator at all",
		"Many... dots!!! and?? marks.",
		"Line one.\n\nLine two.\n",
		"   ",
	}
	for _, text := range texts {
		for _, size := range []int{1, 4, 10, 100} {
			parts := Pack(text, size)
			assert.Equal(t, text, strings.Join(parts, ""), "size %d", size)
			for _, p := range parts {
				assert.LessOrEqual(t, len(p), size)
				assert.NotEmpty(t, p)
			}
		}
	}
}

func TestPack_CountsCharacters(t *testing.T) {
	text := "Ça va. Über groß! Ünïcödé sentence that is long."

	for _, size := range []int{1, 3, 8, 20} {
		parts := Pack(text, size)

		assert.Equal(t, text, strings.Join(parts, ""), "size %d", size)
		for _, p := range parts {
			assert.True(t, utf8.ValidString(p), "size %d: %q", size, p)
			assert.LessOrEqual(t, utf8.RuneCountInString(p), size)
		}
	}
	// "Über groß! " is 11 characters but 13 bytes, so it fills a chunk alone.
	assert.Equal(t, []string{"Ça va. ", "Über groß! "}, Pack("Ça va. Über groß! ", 11))
}

func TestPack_Empty(t *testing.T) {
	assert.Nil(t, Pack("", 10))
	assert.Nil(t, Pack("abc.", 0))
}

func TestProcessor_Process(t *testing.T) {
	p := New(WithChunkSize(12))
	require.Equal(t, "sentence", p.Name())

	doc := &domain.Document{ID: "d1", Content: "First one. Second one."}
	chunks, err := p.Process(context.Background(), doc, nil)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First one. ", chunks[0].Content)
	assert.Equal(t, "Second one.", chunks[1].Content)
	assert.Equal(t, 1, chunks[1].Position)
	assert.Equal(t, "d1", chunks[0].DocumentID)
}

func TestNew_IgnoresInvalidSize(t *testing.T) {
	p := New(WithChunkSize(-1))
	assert.Equal(t, 500, p.chunkSize)
}
