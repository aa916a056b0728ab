package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	calls  int
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline()

	_, err := p.Process(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil document, got %v", err)
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	p := NewPipeline()

	chunks, err := p.Process(context.Background(), &domain.Document{Content: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_ChainsInOrder(t *testing.T) {
	first := &mockProcessor{name: "first", chunks: []domain.Chunk{{Content: "a"}}}
	passthrough := &mockProcessor{name: "passthrough"}

	p := NewPipeline(first)
	p.Add(passthrough)
	if got := p.Names(); len(got) != 2 || got[0] != "first" || got[1] != "passthrough" {
		t.Fatalf("expected [first passthrough], got %v", got)
	}

	chunks, err := p.Process(context.Background(), &domain.Document{Content: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "a" {
		t.Errorf("expected chunks from first processor to pass through, got %v", chunks)
	}
	if first.calls != 1 || passthrough.calls != 1 {
		t.Errorf("expected each processor called once, got %d and %d", first.calls, passthrough.calls)
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")
	p := NewPipeline(&mockProcessor{name: "failing", err: expectedErr})

	_, err := p.Process(context.Background(), &domain.Document{Content: "x"})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error, got: %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "failing") {
		t.Errorf("expected processor name in error, got: %v", err)
	}
}

func TestPipeline_Process_Cancelled(t *testing.T) {
	proc := &mockProcessor{name: "never"}
	p := NewPipeline(proc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, &domain.Document{Content: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if proc.calls != 0 {
		t.Errorf("expected processor not to run after cancellation")
	}
}

func TestPipeline_Process_RejectsOutOfOrderChunks(t *testing.T) {
	bad := &mockProcessor{name: "shuffler", chunks: []domain.Chunk{
		{Content: "b", Position: 1},
		{Content: "a", Position: 0},
	}}
	p := NewPipeline(bad)

	_, err := p.Process(context.Background(), &domain.Document{Content: "ab"})
	if !errors.Is(err, ErrChunkOrder) {
		t.Errorf("expected ErrChunkOrder, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "shuffler") {
		t.Errorf("expected processor name in error, got: %v", err)
	}
}

func TestBuildPipeline(t *testing.T) {
	t.Run("fixed strategy", func(t *testing.T) {
		cfg := domain.PipelineConfigFor(domain.ChunkingSettings{Strategy: domain.ChunkingFixed, ChunkSize: 500})
		p, err := BuildPipeline(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		chunks, err := p.Process(context.Background(), &domain.Document{Content: strings.Repeat("A", 2000)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 4 {
			t.Errorf("expected 4 chunks, got %d", len(chunks))
		}
	})

	t.Run("sentence strategy", func(t *testing.T) {
		cfg := domain.PipelineConfigFor(domain.ChunkingSettings{Strategy: domain.ChunkingSentence, ChunkSize: 12})
		p, err := BuildPipeline(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		chunks, err := p.Process(context.Background(), &domain.Document{Content: "First one. Second one."})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 2 {
			t.Errorf("expected 2 sentence chunks, got %d", len(chunks))
		}
	})

	t.Run("unknown processor", func(t *testing.T) {
		_, err := BuildPipeline(domain.PipelineConfig{Processors: []string{"stemmer"}})
		if !errors.Is(err, domain.ErrUnsupportedType) {
			t.Errorf("expected ErrUnsupportedType, got %v", err)
		}
	})

	t.Run("no processors", func(t *testing.T) {
		_, err := BuildPipeline(domain.PipelineConfig{})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
