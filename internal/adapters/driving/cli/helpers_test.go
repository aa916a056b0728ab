package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/docrag/internal/adapters/driven/extractor/filesystem"
	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/core/services"
	"github.com/custodia-labs/docrag/internal/logger"
	"github.com/custodia-labs/docrag/internal/postprocessors"
)

// setupTestServices installs an in-memory service graph using the offline
// hashing embedder, and restores global state when the test ends.
func setupTestServices(t *testing.T) {
	t.Helper()

	embedder, err := hashing.NewEmbeddingService(0)
	require.NoError(t, err)
	chunker, err := postprocessors.BuildPipeline(domain.DefaultPipelineConfig())
	require.NoError(t, err)

	retrieval := services.NewRetrievalPipeline(chunker, embedder, memory.NewVectorStore())
	extractor := filesystem.New(nil)
	config := memory.NewConfigStoreWith(map[string]any{
		services.KeyStoreBackend: string(domain.StoreBackendMemory),
	})

	SetServices(&Services{
		Retrieval:  retrieval,
		Document:   services.NewDocumentService(extractor, retrieval, memory.NewDocumentStore()),
		Settings:   services.NewSettingsService(config, nil),
		Supports:   extractor.Supports,
		Extensions: extractor.Extensions(),
	})
	t.Cleanup(resetCLIState)
}

// resetCLIState clears services and flag values that persist between
// rootCmd executions.
func resetCLIState() {
	SetServices(nil)
	SetServiceFactory(nil)
	fromFactory = false

	verboseFlag = false
	ephemeralFlag = false
	homeFlag = ""
	outputFlag = string(outputText)
	indexText = ""
	indexName = ""
	searchTopK = 0
	documentsShowContent = false
	watchNoScan = false

	logger.SetVerbose(false)
	rootCmd.SetIn(nil)
}

// executeCommand runs rootCmd with args and returns combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// executeWithInput runs rootCmd with stdin set to input.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	rootCmd.SetIn(strings.NewReader(input))
	defer rootCmd.SetIn(nil)
	return executeCommand(t, args...)
}

// indexTexts indexes each text as its own document and returns their IDs.
func indexTexts(t *testing.T, texts ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(texts))
	for _, text := range texts {
		out, err := executeCommand(t, "index", "--text", text, "-o", "json")
		require.NoError(t, err, out)

		var docs []documentView
		require.NoError(t, json.Unmarshal([]byte(out), &docs))
		require.Len(t, docs, 1)
		ids = append(ids, docs[0].ID)

		indexText = ""
		outputFlag = string(outputText)
	}
	return ids
}

// mockRetrievalService returns canned results or errors.
type mockRetrievalService struct {
	results []domain.SearchResult
	answer  *domain.Answer
	stats   driving.StoreStats
	err     error

	lastTopK int
}

func (m *mockRetrievalService) Index(_ context.Context, _ string) (int, error) {
	return 1, m.err
}

func (m *mockRetrievalService) Search(_ context.Context, _ string, topK int) ([]domain.SearchResult, error) {
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockRetrievalService) Query(_ context.Context, _ string, topK int) ([]domain.SearchResult, error) {
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockRetrievalService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Question: question, Answer: "mock answer"}, nil
}

func (m *mockRetrievalService) Stats(_ context.Context) (driving.StoreStats, error) {
	return m.stats, m.err
}
