package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

func TestStatusCmd_EmptyStore(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Passages:   0")
	assert.Contains(t, out, "(empty store)")
	assert.Contains(t, out, "Backend:    memory")
	assert.Contains(t, out, ".md")
}

func TestStatusCmd_AfterIndex(t *testing.T) {
	setupTestServices(t)
	indexTexts(t, "alpha beta", "gamma delta")

	out, err := executeCommand(t, "status", "-o", "json")
	require.NoError(t, err)

	var view statusView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 2, view.Entries)
	assert.Equal(t, 256, view.Dimension)
	assert.Equal(t, "feature-hashing-256", view.Model)
	assert.Equal(t, 2, view.Documents)
}

func TestStatusCmd_StatsError(t *testing.T) {
	setupTestServices(t)
	retrievalService = &mockRetrievalService{err: domain.ErrStoreClosed, stats: driving.StoreStats{}}

	_, err := executeCommand(t, "status")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
