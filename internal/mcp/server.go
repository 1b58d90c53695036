// Package mcp exposes the design catalog over the Model Context
// Protocol on stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/uxforge/designctx-mcp/internal/embedder"
	"github.com/uxforge/designctx-mcp/internal/searcher"
	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/internal/syncer"
)

const (
	// ServerName is the MCP server name
	ServerName = "designctx-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.designctx"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	engine   *syncer.Engine
	searcher *searcher.Searcher
	embed    embedder.Embedder
}

// NewServer creates a new MCP server instance
func NewServer(dbPath string) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".designctx")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "designctx.db")

	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		engine:   syncer.New(store, emb),
		searcher: searcher.New(store, emb),
		embed:    emb,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		_ = s.embed.Close()
		_ = s.storage.Close()
	}()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Component reads
	s.mcp.AddTool(getComponentTool(), s.handleGetComponent)
	s.mcp.AddTool(listComponentsTool(), s.handleListComponents)
	s.mcp.AddTool(getComponentDependenciesTool(), s.handleGetComponentDependencies)
	s.mcp.AddTool(getComponentDependentsTool(), s.handleGetComponentDependents)
	s.mcp.AddTool(getComponentTokensTool(), s.handleGetComponentTokens)
	s.mcp.AddTool(getComponentHistoryTool(), s.handleGetComponentHistory)

	// Sync
	s.mcp.AddTool(syncComponentTool(), s.handleSyncComponent)
	s.mcp.AddTool(addComponentTool(), s.handleAddComponent)
	s.mcp.AddTool(bulkSyncComponentsTool(), s.handleBulkSyncComponents)
	s.mcp.AddTool(detectDependenciesTool(), s.handleDetectDependencies)
	s.mcp.AddTool(updateComponentContextTool(), s.handleUpdateComponentContext)
	s.mcp.AddTool(reindexEmbeddingsTool(), s.handleReindexEmbeddings)

	// Search
	s.mcp.AddTool(searchComponentsTool(), s.handleSearchComponents)
	s.mcp.AddTool(searchTokensTool(), s.handleSearchTokens)

	// Tokens
	s.mcp.AddTool(addTokenTool(), s.handleAddToken)
	s.mcp.AddTool(getTokenUsageTool(), s.handleGetTokenUsage)
}
