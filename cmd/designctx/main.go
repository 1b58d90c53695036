package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uxforge/designctx-mcp/internal/embedder"
	"github.com/uxforge/designctx-mcp/internal/mcp"
	"github.com/uxforge/designctx-mcp/internal/seed"
	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/internal/syncer"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var flagDBPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "designctx",
	Short:         "Design-system catalog with semantic search over MCP",
	Long:          "designctx keeps UI components and design tokens in a SQLite catalog with vector embeddings, dependency edges, and a change log, and serves them to agents over the Model Context Protocol.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "database directory (default: ~/.designctx, or DESIGNCTX_DB_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func dbPath() string {
	if flagDBPath != "" {
		return flagDBPath
	}
	if env := os.Getenv("DESIGNCTX_DB_PATH"); env != "" {
		return env
	}
	return mcp.DefaultDBPath
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over MCP on stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Startup info goes to stderr; stdout carries the MCP protocol
	log.SetOutput(os.Stderr)
	log.Printf("designctx-mcp v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s, Embedding Provider: %s",
		storage.BuildMode, storage.DriverName, embedder.DetectProvider())

	server, err := mcp.NewServer(dbPath())
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter catalog of tokens and components",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)

	dir := dbPath()
	if dir == mcp.DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".designctx")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "designctx.db"))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	defer func() { _ = emb.Close() }()

	return seed.Run(cmd.Context(), store, syncer.New(store, emb))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("designctx-mcp\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
	},
}
