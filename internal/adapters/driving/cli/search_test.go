package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestSearchCmd_HasTopKFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_RanksRelevantPassageFirst(t *testing.T) {
	setupTestServices(t)
	indexTexts(t,
		"quantum physics lecture notes",
		"the cat sat on the mat",
		"baking bread at home",
	)

	out, err := executeCommand(t, "search", "cat on a mat", "-o", "json")
	require.NoError(t, err)

	var view searchView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "cat on a mat", view.Query)
	require.Len(t, view.Results, 3)
	assert.Equal(t, "the cat sat on the mat", view.Results[0].Text)
	assert.Equal(t, 1, view.Results[0].Rank)
	for i := 1; i < len(view.Results); i++ {
		assert.GreaterOrEqual(t, view.Results[i-1].Score, view.Results[i].Score)
	}
}

func TestSearchCmd_TopK(t *testing.T) {
	setupTestServices(t)
	indexTexts(t, "one apple", "two apples", "three apples", "four apples")

	out, err := executeCommand(t, "search", "apples", "-k", "2", "-o", "json")
	require.NoError(t, err)

	var view searchView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view.Results, 2)
}

func TestSearchCmd_TopKFromSettings(t *testing.T) {
	setupTestServices(t)
	mock := &mockRetrievalService{}
	retrievalService = mock

	_, err := executeCommand(t, "settings", "set", "retrieval.top_k", "7")
	require.NoError(t, err)

	_, err = executeCommand(t, "search", "anything")
	require.NoError(t, err)
	assert.Equal(t, 7, mock.lastTopK)

	_, err = executeCommand(t, "search", "anything", "-k", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, mock.lastTopK)
}

func TestSearchCmd_InvalidTopK(t *testing.T) {
	setupTestServices(t)
	indexTexts(t, "some text")

	_, err := executeCommand(t, "search", "text", "-k", "-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchCmd_EmptyStore(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "search", "anything", "-o", "json")
	require.NoError(t, err)

	var view searchView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.NotNil(t, view.Results)
	assert.Empty(t, view.Results)
}

func TestSearchCmd_BlankQuery(t *testing.T) {
	setupTestServices(t)
	indexTexts(t, "some text")

	_, err := executeCommand(t, "search", "   ")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestSearchCmd_TextOutput(t *testing.T) {
	setupTestServices(t)
	retrievalService = &mockRetrievalService{
		results: []domain.SearchResult{
			{Text: "first passage", Score: 0.9},
			{Text: "second passage", Score: 0.5, Position: 1},
		},
	}

	out, err := executeCommand(t, "search", "passage")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] score 0.9000")
	assert.Contains(t, out, "first passage")
	assert.Contains(t, out, "[2] score 0.5000")
}

func TestSearchCmd_NoResults(t *testing.T) {
	setupTestServices(t)
	retrievalService = &mockRetrievalService{}

	out, err := executeCommand(t, "search", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_ProviderError(t *testing.T) {
	setupTestServices(t)
	retrievalService = &mockRetrievalService{err: domain.ErrEmbeddingProvider}

	_, err := executeCommand(t, "search", "anything")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingProvider)
	assert.Contains(t, err.Error(), "search failed")
}

func TestAskCmd_AssemblesContext(t *testing.T) {
	setupTestServices(t)
	indexTexts(t, "Paris is the capital of France", "Berlin is the capital of Germany")

	out, err := executeCommand(t, "ask", "what is the capital of France", "-o", "yaml")
	require.NoError(t, err)

	var view answerView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "what is the capital of France", view.Question)
	require.Len(t, view.Passages, 2)
	assert.Equal(t, "Paris is the capital of France", view.Passages[0].Text)
	assert.Equal(t, "Paris is the capital of France\n\nBerlin is the capital of Germany", view.Context)
	assert.Contains(t, view.Answer, view.Context)
}

func TestAskCmd_TextOutput(t *testing.T) {
	setupTestServices(t)
	retrievalService = &mockRetrievalService{
		answer: &domain.Answer{Question: "q", Context: "ctx", Answer: "the assembled answer"},
	}

	out, err := executeCommand(t, "ask", "q")

	require.NoError(t, err)
	assert.Contains(t, out, "the assembled answer")
}

func TestAskCmd_EmptyStore(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "ask", "anything")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyStore))
}
