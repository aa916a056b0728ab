package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// IndexInput is the input schema for the index_document tool.
type IndexInput struct {
	Text string `json:"text,omitempty" jsonschema:"raw text to index; give either text or path"`
	Path string `json:"path,omitempty" jsonschema:"path of a local file to extract and index (text, markdown, html, docx, eml)"`
	Name string `json:"name,omitempty" jsonschema:"label for raw text documents"`
}

// IndexOutput is the output schema for the index_document tool.
type IndexOutput struct {
	DocumentID    string `json:"document_id,omitempty"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find similar passages for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of passages to return (default 3)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []PassageOutput `json:"results"`
	Count   int             `json:"count"`
}

// PassageOutput is one ranked passage.
type PassageOutput struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the natural-language question"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Question string          `json:"question"`
	Context  string          `json:"context"`
	Answer   string          `json:"answer"`
	Passages []PassageOutput `json:"passages"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Index raw text or a local file so its passages can be retrieved",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Return the indexed passages most similar to a query, best first",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Retrieve passages for a question and assemble them into answer context",
	}, s.handleAsk)
}

// handleIndex handles the index_document tool invocation.
func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	hasText := input.Text != ""
	hasPath := strings.TrimSpace(input.Path) != ""

	switch {
	case hasText && hasPath:
		return nil, IndexOutput{}, toolError(fmt.Errorf("%w: give either text or path, not both", domain.ErrInvalidInput))
	case !hasText && !hasPath:
		return nil, IndexOutput{}, toolError(fmt.Errorf("%w: text or path is required", domain.ErrEmptyInput))
	}

	if s.ports.Document == nil {
		if hasPath {
			return nil, IndexOutput{}, toolError(fmt.Errorf("%w: file indexing is not available", domain.ErrInvalidInput))
		}
		n, err := s.ports.Retrieval.Index(ctx, input.Text)
		if err != nil {
			return nil, IndexOutput{}, toolError(err)
		}
		return nil, IndexOutput{ChunksIndexed: n}, nil
	}

	var (
		doc *domain.Document
		err error
	)
	if hasPath {
		doc, err = s.ports.Document.IngestFile(ctx, input.Path)
	} else {
		doc, err = s.ports.Document.IngestText(ctx, input.Name, input.Text)
	}
	if err != nil {
		return nil, IndexOutput{}, toolError(err)
	}

	return nil, IndexOutput{DocumentID: doc.ID, ChunksIndexed: doc.ChunkCount}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK == 0 {
		topK = domain.DefaultTopK
	}

	results, err := s.ports.Retrieval.Search(ctx, input.Query, topK)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	output := SearchOutput{
		Results: passageOutputs(results),
		Count:   len(results),
	}
	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Retrieval.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	return nil, AskOutput{
		Question: answer.Question,
		Context:  answer.Context,
		Answer:   answer.Answer,
		Passages: passageOutputs(answer.Passages),
	}, nil
}

func passageOutputs(results []domain.SearchResult) []PassageOutput {
	out := make([]PassageOutput, len(results))
	for i, r := range results {
		out[i] = PassageOutput{Text: r.Text, Score: r.Score}
	}
	return out
}
