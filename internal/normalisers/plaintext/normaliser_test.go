package plaintext

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	if n.Name() != "plaintext" {
		t.Errorf("Name() = %q, want plaintext", n.Name())
	}
	found := false
	for _, ext := range n.Extensions() {
		if ext == ".txt" {
			found = true
		}
	}
	if !found {
		t.Error("Extensions() should include .txt")
	}
}

func TestNormaliser_Normalise(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{name: "unchanged", raw: []byte("hello\nworld"), want: "hello\nworld"},
		{name: "crlf", raw: []byte("a\r\nb\rc"), want: "a\nb\nc"},
		{name: "bom", raw: append([]byte{0xEF, 0xBB, 0xBF}, "text"...), want: "text"},
		{name: "empty", raw: nil, want: ""},
		{name: "whitespace kept", raw: []byte("  padded  "), want: "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Normalise(context.Background(), tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalise() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormaliser_InvalidUTF8(t *testing.T) {
	_, err := New().Normalise(context.Background(), []byte{0xff, 0xfe, 0x00})
	if !errors.Is(err, domain.ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
}
