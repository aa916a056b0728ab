// Package driving declares what the CLI, MCP server and TUI can ask of docrag:
// index and retrieve passages, ingest and list documents, and read or change
// settings. internal/core/services implements every interface here.
package driving
