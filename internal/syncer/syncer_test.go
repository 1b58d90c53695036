package syncer

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/pkg/types"
)

// mockEmbedder returns deterministic vectors and records calls.
type mockEmbedder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, text)
	h := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32(h[i]) / 255.0
	}
	return vec, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimension() int   { return 8 }
func (m *mockEmbedder) Provider() string { return "mock" }
func (m *mockEmbedder) Close() error     { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func setupEngine(t *testing.T) (*Engine, *storage.SQLiteStorage, *mockEmbedder) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	emb := &mockEmbedder{}
	return New(store, emb), store, emb
}

func strp(s string) *string { return &s }

func seedAtom(t *testing.T, e *Engine, name string) {
	_, err := e.SyncComponent(context.Background(), &types.SyncInput{
		Name:   name,
		Tier:   types.TierAtom,
		Code:   "export const " + name + " = () => null;",
		Source: types.SourceManual,
	})
	require.NoError(t, err)
}

func TestEmbeddingText(t *testing.T) {
	in := &types.SyncInput{
		Name:       "Button",
		Tier:       types.TierAtom,
		UsageRules: strp("Use for actions"),
	}
	assert.Equal(t, "Button — atom — Use for actions", EmbeddingText(in))

	bare := &types.SyncInput{Name: "Icon", Tier: types.TierAtom}
	assert.Equal(t, "Icon — atom", EmbeddingText(bare))
}

func TestTokenEmbeddingText(t *testing.T) {
	assert.Equal(t, "radius.md — radius — Medium border radius",
		TokenEmbeddingText("radius.md", "radius", strp("Medium border radius")))
	assert.Equal(t, "radius.md — radius", TokenEmbeddingText("radius.md", "radius", nil))
}

func TestSyncComponentValidation(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SyncComponent(ctx, &types.SyncInput{Tier: types.TierAtom, Code: "x", Source: types.SourceManual})
	assert.Error(t, err)

	_, err = e.SyncComponent(ctx, &types.SyncInput{Name: "X", Tier: "particle", Code: "x", Source: types.SourceManual})
	assert.Error(t, err)
}

func TestSyncComponentEndToEnd(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	seedAtom(t, e, "Input")
	seedAtom(t, e, "Button")
	seedAtom(t, e, "Icon")

	code := `import { Input } from "./Input";
import { Button } from "./Button";
import { Icon } from "./Icon";

export const SearchBar = () => (
  <form>
    <Input name="query" />
    <Button type="submit"><Icon /></Button>
  </form>
);`

	result, err := e.SyncComponent(ctx, &types.SyncInput{
		Name:   "SearchBar",
		Tier:   types.TierMolecule,
		Code:   code,
		Source: types.SourceManual,
	})
	require.NoError(t, err)

	assert.True(t, result.IsNew)
	assert.Equal(t, "SearchBar", result.Name)
	// Extraction order, not catalog order
	assert.Equal(t, []string{"Input", "Button", "Icon"}, result.DependenciesFound)

	deps, err := store.ListDependencies(ctx, result.ID)
	require.NoError(t, err)
	assert.Len(t, deps, 3)

	stored, err := store.GetComponentByName(ctx, "SearchBar")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Embedding)
	assert.Equal(t, 8, stored.Dimension)
}

func TestSyncComponentUpdateLogsChanges(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	first := &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual,
	}
	created, err := e.SyncComponent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created.IsNew)

	// Creation writes no history
	entries, err := store.ListChangeLog(ctx, created.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	second := &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v2", Source: types.SourceCodebase,
		UsageRules: strp("rules"),
	}
	updated, err := e.SyncComponent(ctx, second)
	require.NoError(t, err)
	assert.False(t, updated.IsNew)
	assert.Equal(t, created.ID, updated.ID)

	entries, err = store.ListChangeLog(ctx, created.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "codebase", entries[0].Source)
	assert.Equal(t, "v1", entries[0].CodeBefore)
	assert.Equal(t, "v2", entries[0].CodeAfter)
	assert.Equal(t, []string{"code", "usage_rules"}, entries[0].FieldsChanged)
}

func TestSyncComponentNoOpSkipsLog(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	in := &types.SyncInput{Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual}
	created, err := e.SyncComponent(ctx, in)
	require.NoError(t, err)

	// Identical resync: no history entry
	resync := &types.SyncInput{Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual}
	result, err := e.SyncComponent(ctx, resync)
	require.NoError(t, err)
	assert.False(t, result.IsNew)

	entries, err := store.ListChangeLog(ctx, created.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncComponentCarryForward(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SyncComponent(ctx, &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual,
		UsageRules: strp("original rules"),
		Version:    strp("1.0.0"),
	})
	require.NoError(t, err)

	// Update without usageRules or version keeps the stored values
	_, err = e.SyncComponent(ctx, &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v2", Source: types.SourceFigma,
	})
	require.NoError(t, err)

	stored, err := store.GetComponentByName(ctx, "Button")
	require.NoError(t, err)
	require.NotNil(t, stored.UsageRules)
	assert.Equal(t, "original rules", *stored.UsageRules)
	require.NotNil(t, stored.Version)
	assert.Equal(t, "1.0.0", *stored.Version)
	assert.Equal(t, "v2", stored.Code)
	assert.Equal(t, "figma", stored.Source)
}

func TestSyncComponentPropsSchemaAlwaysLogged(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	created, err := e.SyncComponent(ctx, &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual,
		PropsSchema: []byte(`{"variant":"string"}`),
	})
	require.NoError(t, err)

	// Same schema again still counts as changed: JSON is not deep-compared
	_, err = e.SyncComponent(ctx, &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual,
		PropsSchema: []byte(`{"variant":"string"}`),
	})
	require.NoError(t, err)

	entries, err := store.ListChangeLog(ctx, created.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"props_schema"}, entries[0].FieldsChanged)
}

func TestSyncComponentSelfExclusion(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	// Recursive component references its own name
	result, err := e.SyncComponent(ctx, &types.SyncInput{
		Name:   "TreeNode",
		Tier:   types.TierMolecule,
		Code:   `export const TreeNode = ({ children }) => <div>{children.map(c => <TreeNode {...c} />)}</div>;`,
		Source: types.SourceManual,
	})
	require.NoError(t, err)
	assert.Empty(t, result.DependenciesFound)
}

func TestSyncComponentEmbedderFailureRollsBack(t *testing.T) {
	e, store, emb := setupEngine(t)
	ctx := context.Background()

	emb.err = errors.New("api error 401: unauthorized")
	_, err := e.SyncComponent(ctx, &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")

	// Nothing was committed
	_, err = store.GetComponentByName(ctx, "Button")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// countingStore tracks name-lookup calls to verify the short circuit.
type countingStore struct {
	storage.Storage
	lookups int
}

func (c *countingStore) GetComponentsByNames(ctx context.Context, names []string) ([]storage.ComponentRef, error) {
	c.lookups++
	return c.Storage.GetComponentsByNames(ctx, names)
}

func TestMatchDependenciesShortCircuit(t *testing.T) {
	_, store, _ := setupEngine(t)
	ctx := context.Background()

	counting := &countingStore{Storage: store}

	matched, err := MatchDependencies(ctx, counting, "const x = 42;", 0)
	require.NoError(t, err)
	assert.Empty(t, matched)
	assert.Zero(t, counting.lookups, "no catalog lookup for empty extraction")

	_, err = MatchDependencies(ctx, counting, `import { Button } from "./Button";`, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.lookups)
}

func TestMatchDependenciesExtractionOrder(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	// Catalog insertion order deliberately differs from extraction order
	seedAtom(t, e, "Zeta")
	seedAtom(t, e, "Alpha")

	code := `import { Alpha } from "./Alpha";
import { Zeta } from "./Zeta";`
	matched, err := MatchDependencies(ctx, store, code, 0)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Alpha", matched[0].Name)
	assert.Equal(t, "Zeta", matched[1].Name)
}

func TestRebuildDependenciesReplaces(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	seedAtom(t, e, "Button")
	seedAtom(t, e, "Icon")

	result, err := e.SyncComponent(ctx, &types.SyncInput{
		Name: "Bar", Tier: types.TierMolecule, Source: types.SourceManual,
		Code: `import { Button } from "./Button";`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Button"}, result.DependenciesFound)

	// Rebuilding from different code leaves only the new edge set
	deps, err := e.RebuildDependencies(ctx, result.ID, `import { Icon } from "./Icon";`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Icon"}, deps)

	edges, err := store.ListDependencies(ctx, result.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "Icon", edges[0].Name)
}

func TestBulkSyncSequentialOrder(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	inputs := []types.SyncInput{
		{Name: "One", Tier: types.TierAtom, Code: "a", Source: types.SourceManual},
		{Name: "Two", Tier: types.TierAtom, Code: "b", Source: types.SourceManual},
		{Name: "Three", Tier: types.TierAtom, Code: "c", Source: types.SourceManual},
	}

	results, err := e.BulkSync(ctx, inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "One", results[0].Name)
	assert.Equal(t, "Two", results[1].Name)
	assert.Equal(t, "Three", results[2].Name)
}

func TestBulkSyncAbortsOnFailure(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	inputs := []types.SyncInput{
		{Name: "Good", Tier: types.TierAtom, Code: "a", Source: types.SourceManual},
		{Name: "", Tier: types.TierAtom, Code: "b", Source: types.SourceManual}, // invalid
		{Name: "Never", Tier: types.TierAtom, Code: "c", Source: types.SourceManual},
	}

	_, err := e.BulkSync(ctx, inputs)
	require.Error(t, err)

	// The first input landed, the rest never ran
	_, err = store.GetComponentByName(ctx, "Good")
	assert.NoError(t, err)
	_, err = store.GetComponentByName(ctx, "Never")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateContext(t *testing.T) {
	e, store, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.SyncComponent(ctx, &types.SyncInput{
		Name: "Button", Tier: types.TierAtom, Code: "v1", Source: types.SourceManual,
		Requirements: strp("keep me"),
	})
	require.NoError(t, err)

	before, err := store.GetComponentByName(ctx, "Button")
	require.NoError(t, err)

	updated, err := e.UpdateContext(ctx, "Button", strp("new rules"), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.UsageRules)
	assert.Equal(t, "new rules", *updated.UsageRules)
	require.NotNil(t, updated.Requirements)
	assert.Equal(t, "keep me", *updated.Requirements)

	after, err := store.GetComponentByName(ctx, "Button")
	require.NoError(t, err)
	assert.NotEqual(t, before.Embedding, after.Embedding, "embedding regenerated")
}

func TestUpdateContextValidation(t *testing.T) {
	e, _, _ := setupEngine(t)
	ctx := context.Background()

	_, err := e.UpdateContext(ctx, "Button", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoFields)

	_, err = e.UpdateContext(ctx, "Missing", strp("x"), nil, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReindexEmbeddings(t *testing.T) {
	e, store, emb := setupEngine(t)
	ctx := context.Background()

	seedAtom(t, e, "Button")
	seedAtom(t, e, "Icon")

	tok := &storage.Token{Name: "radius.md", Category: "radius", Value: "8px"}
	require.NoError(t, e.AddToken(ctx, tok))

	callsBefore := emb.callCount()
	result, err := e.ReindexEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Components)
	assert.Equal(t, 1, result.Tokens)
	assert.Equal(t, callsBefore+3, emb.callCount())

	stored, err := store.GetTokenByName(ctx, "radius.md")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Embedding)
}
