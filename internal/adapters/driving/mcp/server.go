package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docrag/internal/logger"
)

// Version is reported to clients unless WithVersion overrides it.
const Version = "0.1.0"

// HTTP routes served by RunHTTP.
const (
	PathMCP    = "/mcp"
	PathHealth = "/healthz"
)

const shutdownTimeout = 5 * time.Second

// instructions tells clients how the tools fit together.
const instructions = `docrag retrieves passages from documents indexed on this machine.
Call index_document to add text or a file, then search for ranked passages
or ask for a context block to ground an answer. Passages are quoted source
text, not generated claims.`

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	version string
}

// WithVersion sets the version reported in the MCP handshake.
func WithVersion(v string) Option {
	return func(c *serverConfig) {
		if v != "" {
			c.version = v
		}
	}
}

// Server exposes retrieval over the Model Context Protocol.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers the tools and resources backed by ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	cfg := serverConfig{version: Version}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "docrag", Version: cfg.version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP routes: streamable MCP at PathMCP and a
// health probe at PathHealth.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(PathMCP, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil))
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)
	return mux
}

// healthStatus is the body of the health probe.
type healthStatus struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "ok"}
	code := http.StatusOK

	stats, err := s.ports.Retrieval.Stats(r.Context())
	if err != nil {
		status = healthStatus{Status: "error", Error: err.Error()}
		code = http.StatusServiceUnavailable
	} else {
		status.Entries = stats.Entries
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// RunHTTP serves Handler on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP: shutdown: %v", err)
		}
	}()

	logger.Info("MCP: listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
