// ABOUTME: MCP tool handler implementations for the bookthread server
// ABOUTME: Errors are returned as tool results so the client sees the message
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harper/bookthread/internal/core"
	"github.com/harper/bookthread/internal/splitter"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	splitter  *splitter.Splitter
	publisher *core.Publisher
}

// NewHandlers creates handlers; publisher may be nil when only
// split_paragraph is needed
func NewHandlers(split *splitter.Splitter, publisher *core.Publisher) *Handlers {
	if split == nil {
		split = splitter.Default()
	}
	return &Handlers{splitter: split, publisher: publisher}
}

// ChunkView is a chunk with its grapheme count
type ChunkView struct {
	Text      string `json:"text"`
	Graphemes int    `json:"graphemes"`
}

func threadViews(threads [][]string) [][]ChunkView {
	views := make([][]ChunkView, len(threads))
	for i, thread := range threads {
		views[i] = make([]ChunkView, len(thread))
		for j, chunk := range thread {
			views[i][j] = ChunkView{Text: chunk, Graphemes: splitter.CountGraphemes(chunk)}
		}
	}
	return views
}

func jsonResult(response interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SplitParagraph handles the split_paragraph tool
func (h *Handlers) SplitParagraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}

	chunks := h.splitter.SplitIntoPostChunks(text)
	threads := h.splitter.GroupChunksIntoThreads(chunks)

	return jsonResult(map[string]interface{}{
		"chunk_count":   len(chunks),
		"thread_count":  len(threads),
		"max_graphemes": h.splitter.MaxGraphemes(),
		"threads":       threadViews(threads),
	})
}

// PreviewEpisode handles the preview_episode tool
func (h *Handlers) PreviewEpisode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.publisher == nil {
		return mcp.NewToolResultError("no book configured"), nil
	}

	opts := core.RunOptions{DryRun: true}
	if n := request.GetInt("paragraph", -1); n >= 0 {
		opts.Paragraph = &n
	}

	result, err := h.publisher.Run(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to plan episode: %v", err)), nil
	}
	if result.Finished {
		return jsonResult(map[string]interface{}{
			"finished": true,
			"message":  "Reached end of book!",
		})
	}

	ep := result.Episode
	return jsonResult(map[string]interface{}{
		"finished":   false,
		"start":      ep.Start,
		"next":       ep.Next(),
		"paragraphs": ep.Paragraphs,
		"threads":    threadViews(ep.Threads),
	})
}

// GetProgress handles the get_progress tool
func (h *Handlers) GetProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.publisher == nil {
		return mcp.NewToolResultError("no book configured"), nil
	}

	status, err := h.publisher.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load progress: %v", err)), nil
	}

	response := map[string]interface{}{
		"current_paragraph": status.State.CurrentParagraph,
		"book_length":       status.BookLength,
		"finished":          status.State.CurrentParagraph >= status.BookLength,
		"source":            status.State.Source,
		"last_post_uri":     status.State.LastPostURI,
	}
	if status.State.LastPostAt != nil {
		response["last_post_at"] = status.State.LastPostAt.Format(time.RFC3339)
	}
	return jsonResult(response)
}
