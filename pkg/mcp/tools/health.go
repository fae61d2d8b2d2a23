package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type healthResult struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Subjects int    `json:"subjects"`
	Topics   int    `json:"topics"`
}

// StoreCounter reports the number of stored subjects and topics.
type StoreCounter interface {
	Counts() (subjects, topics int)
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and store size.
func RegisterHealthTool(s *server.MCPServer, version string, counter StoreCounter) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status, version and the number of stored subjects and topics"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		subjects, topics := counter.Counts()
		result, err := json.Marshal(healthResult{
			Status:   "ok",
			Version:  version,
			Subjects: subjects,
			Topics:   topics,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(result)), nil
	})
}
