package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

type stubNormaliser struct{ exts []string }

func (s *stubNormaliser) Name() string { return "stub" }
func (s *stubNormaliser) Extensions() []string { return s.exts }
func (s *stubNormaliser) Normalise(_ context.Context, raw []byte) (string, error) {
	return string(raw), nil
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	tests := map[string]string{
		"notes.txt":      "plaintext",
		"README.MD":      "markdown",
		"page.htm":       "html",
		"page.html":      "html",
		"report.docx":    "docx",
		"message.eml":    "eml",
		"/abs/path/a.md": "markdown",
	}
	for path, want := range tests {
		n, err := r.ForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, n.Name(), path)
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.ForPath("scan.pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.ErrorContains(t, err, ".pdf")

	_, err = r.ForPath("Makefile")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.ErrorContains(t, err, "(none)")
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(&stubNormaliser{exts: []string{".TXT", ".log"}})

	n, err := r.ForPath("x.txt")
	require.NoError(t, err)
	assert.Equal(t, "stub", n.Name())

	assert.Contains(t, r.Extensions(), ".log")
	assert.IsIncreasing(t, r.Extensions())
}
