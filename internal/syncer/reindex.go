package syncer

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/uxforge/designctx-mcp/internal/storage"
)

// reindexConcurrency bounds in-flight embedding calls during a reindex.
const reindexConcurrency = 4

// ReindexResult reports how many rows a reindex refreshed.
type ReindexResult struct {
	Components int `json:"components"`
	Tokens     int `json:"tokens"`
}

// ReindexEmbeddings regenerates the stored embedding of every component
// and token, for example after switching embedding providers. Rows are
// re-embedded concurrently; each row's update is an independent write,
// so a failure leaves earlier rows refreshed and later ones stale, and
// the next successful reindex heals the difference.
func (e *Engine) ReindexEmbeddings(ctx context.Context) (*ReindexResult, error) {
	components, err := e.store.ListAllComponents(ctx)
	if err != nil {
		return nil, err
	}
	toks, err := e.store.ListTokens(ctx)
	if err != nil {
		return nil, err
	}

	var componentCount, tokenCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reindexConcurrency)

	for _, c := range components {
		c := c
		g.Go(func() error {
			vec, err := e.embed.Embed(gctx, ComponentEmbeddingText(c))
			if err != nil {
				return err
			}
			if err := e.store.UpdateComponentEmbedding(gctx, c.ID, storage.SerializeVector(vec), len(vec)); err != nil {
				return err
			}
			componentCount.Add(1)
			return nil
		})
	}

	for _, tok := range toks {
		tok := tok
		g.Go(func() error {
			vec, err := e.embed.Embed(gctx, TokenEmbeddingText(tok.Name, tok.Category, tok.Description))
			if err != nil {
				return err
			}
			if err := e.store.UpdateTokenEmbedding(gctx, tok.ID, storage.SerializeVector(vec), len(vec)); err != nil {
				return err
			}
			tokenCount.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReindexResult{
		Components: int(componentCount.Load()),
		Tokens:     int(tokenCount.Load()),
	}, nil
}
