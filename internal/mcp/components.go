package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uxforge/designctx-mcp/internal/storage"
)

// handleGetComponent handles the get_component tool invocation
func (s *Server) handleGetComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	name := getStringDefault(args, "name", "")
	id := getIntDefault(args, "id", 0)
	if name == "" && id == 0 {
		return errorResult("Provide either name or id"), nil
	}

	var c *storage.Component
	var err error
	if id != 0 {
		c, err = s.storage.GetComponentByID(ctx, int64(id))
	} else {
		c, err = s.storage.GetComponentByName(ctx, name)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundResult(), nil
	}
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(componentDetail(c)), nil
}

// handleListComponents handles the list_components tool invocation
func (s *Server) handleListComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := requestArgs(request)

	tier := getStringDefault(args, "tier", "")
	rows, err := s.storage.ListComponents(ctx, tier)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(componentSummaries(rows)), nil
}

// handleGetComponentDependencies handles the get_component_dependencies tool invocation
func (s *Server) handleGetComponentDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleEdgeQuery(ctx, request, s.storage.ListDependencies)
}

// handleGetComponentDependents handles the get_component_dependents tool invocation
func (s *Server) handleGetComponentDependents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleEdgeQuery(ctx, request, s.storage.ListDependents)
}

func (s *Server) handleEdgeQuery(ctx context.Context, request mcp.CallToolRequest, list func(context.Context, int64) ([]*storage.DependencyRow, error)) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	name := getStringDefault(args, "name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	c, err := s.storage.GetComponentByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundResult(), nil
	}
	if err != nil {
		return errorResult(err.Error()), nil
	}

	rows, err := list(ctx, c.ID)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(dependencyRows(rows)), nil
}

// handleGetComponentTokens handles the get_component_tokens tool invocation
func (s *Server) handleGetComponentTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	name := getStringDefault(args, "name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	c, err := s.storage.GetComponentByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundResult(), nil
	}
	if err != nil {
		return errorResult(err.Error()), nil
	}

	rows, err := s.storage.ListComponentTokens(ctx, c.ID)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(componentTokenRows(rows)), nil
}

// handleGetComponentHistory handles the get_component_history tool invocation
func (s *Server) handleGetComponentHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	name := getStringDefault(args, "name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}
	limit := getIntDefault(args, "limit", 20)

	c, err := s.storage.GetComponentByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundResult(), nil
	}
	if err != nil {
		return errorResult(err.Error()), nil
	}

	entries, err := s.storage.ListChangeLog(ctx, c.ID, limit)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(changeLogRows(entries)), nil
}
