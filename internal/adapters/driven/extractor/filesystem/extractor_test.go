package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtractor_Formats(t *testing.T) {
	dir := t.TempDir()
	e := New(nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{name: "text", file: "a.txt", content: "plain words", want: "plain words"},
		{name: "markdown", file: "b.md", content: "# Heading\n\n**bold** text", want: "Heading\n\nbold text"},
		{name: "html", file: "c.html", content: "<p>para one</p><p>para two</p>", want: "para one\npara two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)

			assert.True(t, e.Supports(path))
			text, err := e.Extract(ctx, path)

			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestExtractor_Errors(t *testing.T) {
	dir := t.TempDir()
	e := New(nil, WithMaxFileSize(16))
	ctx := context.Background()

	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.txt"), 0o700))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.txt"), wantErr: domain.ErrNotFound},
		{name: "missing unsupported file", path: filepath.Join(dir, "notes.pdf"), wantErr: domain.ErrNotFound},
		{name: "unsupported extension", path: writeFile(t, dir, "scan.pdf", "%PDF"), wantErr: domain.ErrExtraction},
		{name: "directory", path: filepath.Join(dir, "folder.txt"), wantErr: domain.ErrExtraction},
		{name: "too large", path: writeFile(t, dir, "big.txt", "this is longer than sixteen bytes"), wantErr: domain.ErrExtraction},
		{name: "blank", path: writeFile(t, dir, "blank.txt", "  \n\t "), wantErr: domain.ErrNoTextExtracted},
		{name: "markup only", path: writeFile(t, dir, "empty.html", "<br/>"), wantErr: domain.ErrNoTextExtracted},
		{name: "malformed docx", path: writeFile(t, dir, "bad.docx", "not zip"), wantErr: domain.ErrExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := e.Extract(ctx, tt.path)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, text)
		})
	}
}

func TestExtractor_UnsupportedCarriesType(t *testing.T) {
	path := writeFile(t, t.TempDir(), "file.xyz", "data")

	_, err := New(nil).Extract(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.False(t, New(nil).Supports("file.xyz"))
}

func TestExtractor_CancelledContext(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "content")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Extract(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractor_Extensions(t *testing.T) {
	e := New(nil)
	exts := e.Extensions()
	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".docx")
	assert.True(t, e.Supports("notes.MD"))
	assert.False(t, e.Supports("image.png"))
}
