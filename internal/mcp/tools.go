// ABOUTME: MCP tool definitions and registration for the bookthread server
// ABOUTME: Read-only tools for splitting text and inspecting reading progress
package mcp

import (
	"github.com/harper/bookthread/internal/core"
	"github.com/harper/bookthread/internal/splitter"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, split *splitter.Splitter, publisher *core.Publisher) *Handlers {
	handlers := NewHandlers(split, publisher)

	// 1. split_paragraph - Run arbitrary text through the pipeline
	server.AddTool(mcp.Tool{
		Name:        "split_paragraph",
		Description: "Split text into Bluesky-sized chunks and group them into reply threads. Returns each thread with per-chunk grapheme counts.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Paragraph text to split",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.SplitParagraph)

	// 2. preview_episode - Plan the next run without posting
	server.AddTool(mcp.Tool{
		Name:        "preview_episode",
		Description: "Preview the threads the next run would post. Nothing is posted and progress is not changed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paragraph": map[string]interface{}{
					"type":        "number",
					"description": "0-based paragraph index to preview (default: the saved cursor)",
				},
			},
		},
	}, handlers.PreviewEpisode)

	// 3. get_progress - Report the reading cursor
	server.AddTool(mcp.Tool{
		Name:        "get_progress",
		Description: "Get the current paragraph, book length, and the most recent post.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetProgress)

	return handlers
}
