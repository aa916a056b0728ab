package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/docrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docrag/internal/adapters/driven/extractor/filesystem"
	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/core/services"
	"github.com/custodia-labs/docrag/internal/logger"
	"github.com/custodia-labs/docrag/internal/postprocessors"
)

// Environment variables consulted when the configuration leaves a value empty.
const (
	envOpenAIKey  = "OPENAI_API_KEY"
	envOllamaHost = "OLLAMA_HOST"
)

// buildServices is the composition root. Configuration errors that only
// affect retrieval are reported through Services.Err so settings stay usable.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("Startup")

	configStore, home, err := openConfigStore(opts)
	if err != nil {
		return nil, err
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	out := &cli.Services{Settings: settingsSvc}

	settings, err := settingsSvc.Get()
	if err != nil {
		out.Err = fmt.Errorf("loading settings: %w", err)
		return out, nil
	}
	applyEnvironment(&settings.Embedding)

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		out.Err = err
		return out, nil
	}
	logger.Debug("Embedding: %s (%d dimensions)", embedder.ModelName(), embedder.Dimensions())

	vectors, docs, closeStore, err := openStores(ctx, settings, home, opts.Ephemeral)
	if err != nil {
		_ = embedder.Close()
		out.Err = err
		return out, nil
	}

	chunker, err := postprocessors.BuildPipeline(domain.PipelineConfigFor(settings.Chunking))
	if err != nil {
		_ = embedder.Close()
		_ = closeStore()
		out.Err = fmt.Errorf("building chunking pipeline: %w", err)
		return out, nil
	}

	retrieval := services.NewRetrievalPipeline(chunker, embedder, vectors,
		services.WithDefaultTopK(settings.Retrieval.TopK))
	extractor := filesystem.New(nil)

	out.Retrieval = retrieval
	out.Document = services.NewDocumentService(extractor, retrieval, docs)
	out.Supports = extractor.Supports
	out.Extensions = extractor.Extensions()
	out.Close = func() error {
		return errors.Join(embedder.Close(), closeStore())
	}
	return out, nil
}

// openConfigStore returns the configuration store and the directory that
// holds persistent data. The directory is empty for ephemeral runs.
func openConfigStore(opts cli.Options) (driven.ConfigStore, string, error) {
	if opts.Ephemeral {
		logger.Debug("Config: in memory")
		return memory.NewConfigStoreWith(map[string]any{
			services.KeyStoreBackend: string(domain.StoreBackendMemory),
		}), "", nil
	}

	home := opts.Home
	if home == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, "", err
		}
		home = dir
	}

	store, err := file.NewConfigStore(home)
	if err != nil {
		return nil, "", fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("Config: %s", store.Path())
	return store, home, nil
}

// applyEnvironment fills provider credentials the configuration leaves empty.
func applyEnvironment(s *domain.EmbeddingSettings) {
	switch s.Provider {
	case domain.AIProviderOpenAI:
		if s.APIKey == "" {
			s.APIKey = os.Getenv(envOpenAIKey)
		}
	case domain.AIProviderOllama:
		if s.BaseURL == "" {
			s.BaseURL = os.Getenv(envOllamaHost)
		}
	}
}

// openStores opens the vector and document stores for the configured backend,
// sqlite at <home>/vectors.db unless configured otherwise. Ephemeral runs
// always use memory.
func openStores(
	ctx context.Context,
	settings *domain.AppSettings,
	home string,
	ephemeral bool,
) (driven.VectorStore, driven.DocumentStore, func() error, error) {
	if ephemeral || settings.Store.Backend != domain.StoreBackendSQLite {
		logger.Debug("Store: memory")
		vectors := memory.NewVectorStore()
		return vectors, memory.NewDocumentStore(), vectors.Close, nil
	}

	path := settings.Store.Path
	if path == "" {
		path = filepath.Join(home, domain.DefaultStoreFileName)
	}
	logger.Debug("Store: sqlite %s", path)

	db, err := sqlite.NewStore(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}
	vectors, err := db.VectorStore(ctx)
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}

	closeAll := func() error {
		return errors.Join(vectors.Close(), db.Close())
	}
	return vectors, db.DocumentStore(), closeAll, nil
}
