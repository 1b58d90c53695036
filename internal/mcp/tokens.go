package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uxforge/designctx-mcp/internal/storage"
)

// handleAddToken handles the add_token tool invocation
func (s *Server) handleAddToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	name := getStringDefault(args, "name", "")
	category := getStringDefault(args, "category", "")
	value := getStringDefault(args, "value", "")
	if name == "" || category == "" || value == "" {
		return errorResult("name, category, and value are required"), nil
	}

	tok := &storage.Token{
		Name:        name,
		Category:    category,
		Value:       value,
		Description: optionalString(args, "description"),
	}
	if err := s.engine.AddToken(ctx, tok); err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(tokenDetail(tok)), nil
}

// handleGetTokenUsage handles the get_token_usage tool invocation
func (s *Server) handleGetTokenUsage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	name := getStringDefault(args, "name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	tok, err := s.storage.GetTokenByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundResult(), nil
	}
	if err != nil {
		return errorResult(err.Error()), nil
	}

	rows, err := s.storage.ListTokenUsage(ctx, tok.ID)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(tokenUsageRows(rows)), nil
}
