package searcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/designctx-mcp/internal/storage"
)

// mockEmbedder maps query text to canned vectors.
type mockEmbedder struct {
	vectors map[string][]float32
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, _ := m.Embed(ctx, text)
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimension() int   { return 2 }
func (m *mockEmbedder) Provider() string { return "mock" }
func (m *mockEmbedder) Close() error     { return nil }

func setupTestSearcher(t *testing.T) (*Searcher, *storage.SQLiteStorage) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	emb := &mockEmbedder{vectors: map[string][]float32{
		"clickable button": {1, 0},
		"blue color":       {0, 1},
	}}
	return New(store, emb), store
}

func insertComponent(t *testing.T, store *storage.SQLiteStorage, name, tier string, vec []float32) {
	c := &storage.Component{
		Name:      name,
		Tier:      tier,
		Code:      "code",
		Source:    "manual",
		Embedding: storage.SerializeVector(vec),
		Dimension: len(vec),
	}
	require.NoError(t, store.InsertComponent(context.Background(), c))
}

func TestSearchComponents(t *testing.T) {
	s, store := setupTestSearcher(t)
	ctx := context.Background()

	insertComponent(t, store, "Button", "atom", []float32{1, 0})
	insertComponent(t, store, "Card", "molecule", []float32{0.7, 0.7})
	insertComponent(t, store, "Swatch", "atom", []float32{0, 1})

	hits, err := s.SearchComponents(ctx, Query{Text: "clickable button"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Button", hits[0].Name)
	assert.Equal(t, "Card", hits[1].Name)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestSearchComponentsTierFilter(t *testing.T) {
	s, store := setupTestSearcher(t)
	ctx := context.Background()

	insertComponent(t, store, "Button", "atom", []float32{1, 0})
	insertComponent(t, store, "SearchBar", "molecule", []float32{1, 0})

	hits, err := s.SearchComponents(ctx, Query{Text: "clickable button", Tier: "atom"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Button", hits[0].Name)
}

func TestSearchComponentsCustomThresholdAndLimit(t *testing.T) {
	s, store := setupTestSearcher(t)
	ctx := context.Background()

	insertComponent(t, store, "A", "atom", []float32{1, 0})
	insertComponent(t, store, "B", "atom", []float32{0.9, 0.435889894354})
	insertComponent(t, store, "C", "atom", []float32{0.5, 0.86602540378})

	hits, err := s.SearchComponents(ctx, Query{Text: "clickable button", Threshold: 0.85})
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = s.SearchComponents(ctx, Query{Text: "clickable button", Limit: 1})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "A", hits[0].Name)
}

func TestSearchTokens(t *testing.T) {
	s, store := setupTestSearcher(t)
	ctx := context.Background()

	blue := &storage.Token{Name: "color.primary.500", Category: "color", Value: "#3B82F6",
		Embedding: storage.SerializeVector([]float32{0, 1}), Dimension: 2}
	require.NoError(t, store.InsertToken(ctx, blue))

	spacing := &storage.Token{Name: "spacing.md", Category: "spacing", Value: "16px",
		Embedding: storage.SerializeVector([]float32{1, 0}), Dimension: 2}
	require.NoError(t, store.InsertToken(ctx, spacing))

	hits, err := s.SearchTokens(ctx, Query{Text: "blue color"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "color.primary.500", hits[0].Name)
	assert.Equal(t, "#3B82F6", hits[0].Value)
}

func TestSearchEmptyCatalog(t *testing.T) {
	s, _ := setupTestSearcher(t)

	hits, err := s.SearchComponents(context.Background(), Query{Text: "anything"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}
