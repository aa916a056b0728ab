package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/docrag/internal/adapters/driven/config"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/postprocessors/chunker"
	"github.com/custodia-labs/docrag/internal/postprocessors/sentence"
)

// Defaults returns a registry holding the built-in processors.
func Defaults() *Registry {
	r := NewRegistry()
	// Names are fixed and distinct, so registration cannot fail.
	_ = r.Register("chunker", "fixed-size character windows", buildChunker)
	_ = r.Register("sentence", "whole sentences packed up to chunk_size", buildSentence)
	return r
}

// BuildPipeline constructs the pipeline named by cfg from the built-in processors.
func BuildPipeline(cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		return nil, fmt.Errorf("%w: pipeline has no processors", domain.ErrInvalidInput)
	}

	r := Defaults()
	pipeline := NewPipeline()
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		pipeline.Add(proc)
	}
	return pipeline, nil
}

// chunkSize reads the optional chunk_size key. Zero keeps the processor default.
func chunkSize(cfg map[string]any) (int, error) {
	raw, ok := cfg["chunk_size"]
	if !ok {
		return 0, nil
	}
	n, ok := config.Int(raw)
	if !ok || n < 0 {
		return 0, fmt.Errorf("%w: chunk_size %v", domain.ErrInvalidInput, raw)
	}
	return n, nil
}

func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	size, err := chunkSize(cfg)
	if err != nil {
		return nil, err
	}
	var opts []chunker.Option
	if size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	return chunker.New(opts...), nil
}

func buildSentence(cfg map[string]any) (driven.PostProcessor, error) {
	size, err := chunkSize(cfg)
	if err != nil {
		return nil, err
	}
	var opts []sentence.Option
	if size > 0 {
		opts = append(opts, sentence.WithChunkSize(size))
	}
	return sentence.New(opts...), nil
}
