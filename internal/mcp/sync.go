package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/internal/syncer"
	"github.com/uxforge/designctx-mcp/pkg/types"
)

// handleSyncComponent handles the sync_component tool invocation
func (s *Server) handleSyncComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	in, err := syncInputFromArgs(args)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	result, err := s.engine.SyncComponent(ctx, in)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(result), nil
}

// handleAddComponent handles the add_component tool invocation.
// Adding is a sync against a name that doesn't exist yet.
func (s *Server) handleAddComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSyncComponent(ctx, request)
}

// handleBulkSyncComponents handles the bulk_sync_components tool invocation
func (s *Server) handleBulkSyncComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	rawList, ok := args["components"].([]interface{})
	if !ok {
		return errorResult("components array is required"), nil
	}

	inputs := make([]types.SyncInput, 0, len(rawList))
	for _, raw := range rawList {
		itemArgs, ok := raw.(map[string]interface{})
		if !ok {
			return errorResult("each component must be an object"), nil
		}
		in, err := syncInputFromArgs(itemArgs)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		inputs = append(inputs, *in)
	}

	results, err := s.engine.BulkSync(ctx, inputs)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(results), nil
}

// handleDetectDependencies handles the detect_dependencies tool invocation
func (s *Server) handleDetectDependencies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	deps, err := s.engine.RebuildDependencies(ctx, c.ID, c.Code)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"name":         name,
		"dependencies": deps,
	}), nil
}

// handleUpdateComponentContext handles the update_component_context tool invocation
func (s *Server) handleUpdateComponentContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := requestArgs(request)
	if !ok {
		return errorResult("invalid arguments"), nil
	}

	name := getStringDefault(args, "name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	usageRules := optionalString(args, "usageRules")
	requirements := optionalString(args, "requirements")
	examples := optionalString(args, "examples")

	updated, err := s.engine.UpdateContext(ctx, name, usageRules, requirements, examples)
	if errors.Is(err, syncer.ErrNoFields) {
		return errorResult("Provide at least one of usageRules, requirements, or examples"), nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundResult(), nil
	}
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"id":      updated.ID,
		"name":    updated.Name,
		"updated": true,
	}), nil
}

// handleReindexEmbeddings handles the reindex_embeddings tool invocation
func (s *Server) handleReindexEmbeddings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.engine.ReindexEmbeddings(ctx)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"provider":   s.embed.Provider(),
		"components": result.Components,
		"tokens":     result.Tokens,
	}), nil
}
