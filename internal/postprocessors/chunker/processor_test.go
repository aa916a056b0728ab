package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.ChunkSize())
		}
		if DefaultChunkSize != 500 {
			t.Errorf("expected default chunk size 500, got %d", DefaultChunkSize)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(200))
		if p.ChunkSize() != 200 {
			t.Errorf("expected chunkSize 200, got %d", p.ChunkSize())
		}
	})

	t.Run("non-positive values ignored", func(t *testing.T) {
		for _, size := range []int{0, -5} {
			p := New(WithChunkSize(size))
			if p.ChunkSize() != DefaultChunkSize {
				t.Errorf("size %d: expected default chunkSize, got %d", size, p.ChunkSize())
			}
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", New().Name())
	}
}

func TestSplit_Empty(t *testing.T) {
	if got := Split("", 10); len(got) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(got))
	}
	if got := Split("abc", 0); got != nil {
		t.Errorf("expected nil for zero size, got %v", got)
	}
}

func TestSplit_Reconstructs(t *testing.T) {
	texts := []string{
		"a",
		"hello world",
		strings.Repeat("xyz", 333),
		"   \n\t  ",
		"héllo wörld, ünïcode bytes",
		"line one\n\nline two\n",
	}
	sizes := []int{1, 2, 3, 7, 10, 500, 5000}

	for _, text := range texts {
		for _, size := range sizes {
			parts := Split(text, size)
			if joined := strings.Join(parts, ""); joined != text {
				t.Errorf("size %d: concatenation %q != %q", size, joined, text)
			}
			runes := utf8.RuneCountInString(text)
			want := (runes + size - 1) / size
			if len(parts) != want {
				t.Errorf("size %d, %d runes: expected %d chunks, got %d", size, runes, want, len(parts))
			}
			for i, part := range parts {
				if !utf8.ValidString(part) {
					t.Errorf("size %d: chunk %d %q is not valid UTF-8", size, i, part)
				}
				n := utf8.RuneCountInString(part)
				if n > size {
					t.Errorf("chunk %d exceeds size %d: %d", i, size, n)
				}
				if i < len(parts)-1 && n != size {
					t.Errorf("non-final chunk %d has %d runes, want %d", i, n, size)
				}
			}
		}
	}
}

func TestSplit_MultiByteBoundary(t *testing.T) {
	parts := Split("héllo wörld", 2)

	want := []string{"hé", "ll", "o ", "wö", "rl", "d"}
	if len(parts) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(parts), parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestSplit_KeepsBlankChunks(t *testing.T) {
	text := "abc" + strings.Repeat(" ", 6) + "def"
	parts := Split(text, 3)

	if len(parts) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(parts))
	}
	if parts[1] != "   " || parts[2] != "   " {
		t.Errorf("expected blank middle chunks to be preserved, got %q", parts)
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{ID: "test-doc", Content: ""}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_TwoThousandChars(t *testing.T) {
	p := New(WithChunkSize(500))
	doc := &domain.Document{ID: "doc-a", Content: strings.Repeat("A", 2000)}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	seen := make(map[string]bool)
	for i, chunk := range chunks {
		if chunk.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, chunk.Position)
		}
		if chunk.DocumentID != "doc-a" {
			t.Errorf("chunk %d: expected document ID doc-a, got %s", i, chunk.DocumentID)
		}
		if len(chunk.Content) != 500 {
			t.Errorf("chunk %d: expected 500 characters, got %d", i, len(chunk.Content))
		}
		if chunk.ID == "" || seen[chunk.ID] {
			t.Errorf("chunk %d: expected unique non-empty ID, got %q", i, chunk.ID)
		}
		seen[chunk.ID] = true
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	p := New(WithChunkSize(4))
	doc := &domain.Document{ID: "d", Content: "abcdefg"}
	existing := []domain.Chunk{{Content: "stale"}}

	chunks, err := p.Process(context.Background(), doc, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 || chunks[0].Content != "abcd" || chunks[1].Content != "efg" {
		t.Errorf("unexpected chunks: %+v", chunks)
	}
}
