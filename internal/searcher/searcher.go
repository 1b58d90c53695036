// Package searcher ranks catalog rows against natural-language queries
// by cosine similarity over stored embeddings.
package searcher

import (
	"context"

	"github.com/uxforge/designctx-mcp/internal/embedder"
	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/pkg/types"
)

// Defaults applied when a query omits them.
const (
	DefaultLimit     = 10
	DefaultThreshold = 0.3
)

// Query is one search request. Zero values fall back to the defaults;
// Tier narrows component search and is ignored for tokens.
type Query struct {
	Text      string
	Tier      string
	Limit     int
	Threshold float64
}

// Searcher executes semantic searches against the catalog.
type Searcher struct {
	store storage.Storage
	embed embedder.Embedder
}

// New creates a searcher.
func New(store storage.Storage, embed embedder.Embedder) *Searcher {
	return &Searcher{store: store, embed: embed}
}

func (q *Query) options() storage.SearchOptions {
	opts := storage.SearchOptions{
		Tier:      q.Tier,
		Limit:     q.Limit,
		Threshold: q.Threshold,
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	return opts
}

// SearchComponents returns components scoring strictly above the
// threshold, ordered by similarity descending.
func (s *Searcher) SearchComponents(ctx context.Context, q Query) ([]types.ComponentHit, error) {
	vec, err := s.embed.Embed(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.SearchComponents(ctx, vec, q.options())
	if err != nil {
		return nil, err
	}

	hits := make([]types.ComponentHit, len(rows))
	for i, row := range rows {
		hits[i] = types.ComponentHit{
			ID:           row.ID,
			Name:         row.Name,
			Tier:         types.Tier(row.Tier),
			UsageRules:   row.UsageRules,
			Requirements: row.Requirements,
			Examples:     row.Examples,
			Similarity:   row.Similarity,
		}
	}
	return hits, nil
}

// SearchTokens returns design tokens scoring strictly above the
// threshold, ordered by similarity descending.
func (s *Searcher) SearchTokens(ctx context.Context, q Query) ([]types.TokenHit, error) {
	vec, err := s.embed.Embed(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.SearchTokens(ctx, vec, q.options())
	if err != nil {
		return nil, err
	}

	hits := make([]types.TokenHit, len(rows))
	for i, row := range rows {
		hits[i] = types.TokenHit{
			ID:          row.ID,
			Name:        row.Name,
			Category:    row.Category,
			Value:       row.Value,
			Description: row.Description,
			Similarity:  row.Similarity,
		}
	}
	return hits, nil
}
