package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uxforge/designctx-mcp/internal/searcher"
)

// handleSearchComponents handles the search_components tool invocation
func (s *Server) handleSearchComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	query := getStringDefault(args, "query", "")
	if query == "" {
		return errorResult("query is required"), nil
	}

	hits, err := s.searcher.SearchComponents(ctx, searcher.Query{
		Text:      query,
		Tier:      getStringDefault(args, "tier", ""),
		Limit:     getIntDefault(args, "limit", searcher.DefaultLimit),
		Threshold: getFloatDefault(args, "threshold", searcher.DefaultThreshold),
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(hits), nil
}

// handleSearchTokens handles the search_tokens tool invocation
func (s *Server) handleSearchTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	query := getStringDefault(args, "query", "")
	if query == "" {
		return errorResult("query is required"), nil
	}

	hits, err := s.searcher.SearchTokens(ctx, searcher.Query{
		Text:      query,
		Limit:     getIntDefault(args, "limit", searcher.DefaultLimit),
		Threshold: getFloatDefault(args, "threshold", searcher.DefaultThreshold),
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(hits), nil
}
