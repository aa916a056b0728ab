package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can index
documents, search passages and retrieve answer context.

Tools:
  index_document  index raw text or a file path
  search          top-k passages for a query (default 3)
  ask             question, context block and templated answer

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP at /mcp instead, with a health probe at /healthz.
Use --watch to re-ingest files that change under the given directories
while the server runs.

Examples:
  docrag mcp serve
  docrag mcp serve --port 8080 --watch ~/notes

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docrag": {
        "command": "/path/to/docrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringSlice("watch", nil, "directories to watch and re-ingest while serving")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchDirs, err := cmd.Flags().GetStringSlice("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	if err := requireRetrieval(); err != nil {
		return err
	}

	ports := &mcp.Ports{
		Retrieval: retrievalService,
		Document:  documentService,
	}

	server, err := mcp.NewServer(ports, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if len(watchDirs) > 0 {
		stop, err := startBackgroundWatch(ctx, watchDirs)
		if err != nil {
			return err
		}
		defer stop()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s%s\n", addr, mcp.PathMCP)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
