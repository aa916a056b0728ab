package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// uriScheme is the custom URI scheme for docrag resources.
const uriScheme = "docrag://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Vector store statistics: passage count, dimension and model",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Metadata for every ingested document",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Extracted text of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleStatsResource returns store statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}

	info := struct {
		Entries   int    `json:"entries"`
		Dimension int    `json:"dimension"`
		Model     string `json:"model"`
	}{stats.Entries, stats.Dimension, stats.Model}

	return jsonResource(req.Params.URI, info)
}

// handleDocumentsResource returns ingested document metadata.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type docInfo struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		URI           string    `json:"uri,omitempty"`
		ChunksIndexed int       `json:"chunks_indexed"`
		CreatedAt     time.Time `json:"created_at"`
	}

	infos := []docInfo{}
	if s.ports.Document != nil {
		docs, err := s.ports.Document.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		for i := range docs {
			infos = append(infos, docInfo{
				ID:            docs[i].ID,
				Name:          docs[i].Name,
				URI:           docs[i].URI,
				ChunksIndexed: docs[i].ChunkCount,
				CreatedAt:     docs[i].CreatedAt,
			})
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleDocumentContentResource returns the extracted text of a document.
// Unknown IDs are reported as missing resources, not server errors.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	docID, ok := strings.CutPrefix(uri, uriScheme+"documents/")
	if s.ports.Document == nil || !ok || docID == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return contents(uri, "text/plain", doc.Content), nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return contents(uri, "application/json", string(data)), nil
}

func contents(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: text}},
	}
}
