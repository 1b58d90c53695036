package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func strp(s string) *string { return &s }

func insertTestComponent(t *testing.T, store *SQLiteStorage, name, tier string) *Component {
	c := &Component{
		Name:   name,
		Tier:   tier,
		Code:   "export const " + name + " = () => null;",
		Source: "manual",
	}
	require.NoError(t, store.InsertComponent(context.Background(), c))
	return c
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestInsertComponent(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	c := &Component{
		Name:       "Button",
		Tier:       "atom",
		Code:       "export const Button = () => null;",
		Source:     "manual",
		UsageRules: strp("Use for clickable actions"),
	}
	require.NoError(t, store.InsertComponent(ctx, c))
	assert.Greater(t, c.ID, int64(0))
	assert.False(t, c.CreatedAt.IsZero())

	// Unique name constraint
	dup := &Component{Name: "Button", Tier: "atom", Code: "x", Source: "manual"}
	assert.Error(t, store.InsertComponent(ctx, dup))
}

func TestInsertComponentRejectsBadTier(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	c := &Component{Name: "Oops", Tier: "particle", Code: "x", Source: "manual"}
	assert.Error(t, store.InsertComponent(context.Background(), c))
}

func TestGetComponentByName(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	inserted := insertTestComponent(t, store, "Button", "atom")

	got, err := store.GetComponentByName(ctx, "Button")
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, got.ID)
	assert.Equal(t, "atom", got.Tier)
	assert.Nil(t, got.UsageRules)

	_, err = store.GetComponentByName(ctx, "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetComponentByID(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	inserted := insertTestComponent(t, store, "Icon", "atom")

	got, err := store.GetComponentByID(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, "Icon", got.Name)

	_, err = store.GetComponentByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateComponent(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	c := insertTestComponent(t, store, "Button", "atom")

	c.Code = "export const Button = () => <button />;"
	c.UsageRules = strp("Updated rules")
	c.Source = "codebase"
	require.NoError(t, store.UpdateComponent(ctx, c))

	got, err := store.GetComponentByName(ctx, "Button")
	require.NoError(t, err)
	assert.Equal(t, c.Code, got.Code)
	require.NotNil(t, got.UsageRules)
	assert.Equal(t, "Updated rules", *got.UsageRules)
	assert.Equal(t, "codebase", got.Source)
}

func TestGetComponentsByNames(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	insertTestComponent(t, store, "Button", "atom")
	insertTestComponent(t, store, "Icon", "atom")
	insertTestComponent(t, store, "Input", "atom")

	refs, err := store.GetComponentsByNames(ctx, []string{"Button", "Input", "Missing"})
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	refs, err = store.GetComponentsByNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestListComponents(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	insertTestComponent(t, store, "Button", "atom")
	insertTestComponent(t, store, "Card", "molecule")
	insertTestComponent(t, store, "Icon", "atom")

	all, err := store.ListComponents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Ordered by name
	assert.Equal(t, "Button", all[0].Name)
	assert.Equal(t, "Card", all[1].Name)
	assert.Equal(t, "Icon", all[2].Name)

	atoms, err := store.ListComponents(ctx, "atom")
	require.NoError(t, err)
	assert.Len(t, atoms, 2)
}

func TestReplaceDependencies(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	parent := insertTestComponent(t, store, "SearchBar", "molecule")
	button := insertTestComponent(t, store, "Button", "atom")
	icon := insertTestComponent(t, store, "Icon", "atom")
	input := insertTestComponent(t, store, "Input", "atom")

	children := []ComponentRef{
		{ID: input.ID, Name: "Input"},
		{ID: button.ID, Name: "Button"},
		{ID: icon.ID, Name: "Icon"},
	}
	require.NoError(t, store.ReplaceDependencies(ctx, parent.ID, children))

	deps, err := store.ListDependencies(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	assert.Equal(t, "Input", deps[0].Name)
	assert.Equal(t, "Button", deps[1].Name)
	assert.Equal(t, "Icon", deps[2].Name)

	// Replace, not merge: a second call leaves only the new set
	require.NoError(t, store.ReplaceDependencies(ctx, parent.ID, children[:1]))
	deps, err = store.ListDependencies(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "Input", deps[0].Name)

	// Empty set clears all edges
	require.NoError(t, store.ReplaceDependencies(ctx, parent.ID, nil))
	deps, err = store.ListDependencies(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestListDependents(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	button := insertTestComponent(t, store, "Button", "atom")
	searchBar := insertTestComponent(t, store, "SearchBar", "molecule")
	header := insertTestComponent(t, store, "Header", "organism")

	require.NoError(t, store.ReplaceDependencies(ctx, searchBar.ID, []ComponentRef{{ID: button.ID, Name: "Button"}}))
	require.NoError(t, store.ReplaceDependencies(ctx, header.ID, []ComponentRef{{ID: button.ID, Name: "Button"}}))

	parents, err := store.ListDependents(ctx, button.ID)
	require.NoError(t, err)
	assert.Len(t, parents, 2)
}

func TestDeleteComponentCascades(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	parent := insertTestComponent(t, store, "SearchBar", "molecule")
	child := insertTestComponent(t, store, "Button", "atom")
	require.NoError(t, store.ReplaceDependencies(ctx, parent.ID, []ComponentRef{{ID: child.ID, Name: "Button"}}))

	entry := &ChangeLogEntry{
		ComponentID:   parent.ID,
		Source:        "manual",
		CodeBefore:    "a",
		CodeAfter:     "b",
		FieldsChanged: []string{"code"},
	}
	require.NoError(t, store.AppendChangeLog(ctx, entry))

	require.NoError(t, store.DeleteComponent(ctx, parent.ID))

	_, err := store.GetComponentByName(ctx, "SearchBar")
	assert.ErrorIs(t, err, ErrNotFound)

	// Edges and log entries are gone with the component
	deps, err := store.ListDependencies(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)

	entries, err := store.ListChangeLog(ctx, parent.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The child survives
	_, err = store.GetComponentByName(ctx, "Button")
	assert.NoError(t, err)
}

func TestChangeLogOrderAndLimit(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	c := insertTestComponent(t, store, "Button", "atom")

	for i := 0; i < 5; i++ {
		entry := &ChangeLogEntry{
			ComponentID:   c.ID,
			Source:        "manual",
			CodeBefore:    "before",
			CodeAfter:     "after",
			FieldsChanged: []string{"code"},
		}
		require.NoError(t, store.AppendChangeLog(ctx, entry))
	}

	entries, err := store.ListChangeLog(ctx, c.ID, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Chronological order, id as tiebreak within the same timestamp
	assert.Less(t, entries[0].ID, entries[1].ID)
	assert.Less(t, entries[1].ID, entries[2].ID)
	assert.Equal(t, []string{"code"}, entries[0].FieldsChanged)
}

func TestTokenCRUD(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	tok := &Token{
		Name:        "color.primary.500",
		Category:    "color",
		Value:       "#3B82F6",
		Description: strp("Primary brand blue"),
	}
	require.NoError(t, store.InsertToken(ctx, tok))
	assert.Greater(t, tok.ID, int64(0))

	got, err := store.GetTokenByName(ctx, "color.primary.500")
	require.NoError(t, err)
	assert.Equal(t, "#3B82F6", got.Value)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Primary brand blue", *got.Description)

	_, err = store.GetTokenByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	toks, err := store.ListTokens(ctx)
	require.NoError(t, err)
	assert.Len(t, toks, 1)
}

func TestTokenUsage(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	c := insertTestComponent(t, store, "Button", "atom")
	tok := &Token{Name: "radius.md", Category: "radius", Value: "8px"}
	require.NoError(t, store.InsertToken(ctx, tok))

	usage := &TokenUsage{ComponentID: c.ID, TokenID: tok.ID, Property: strp("border-radius")}
	require.NoError(t, store.UpsertTokenUsage(ctx, usage))
	// Same link again is a no-op
	require.NoError(t, store.UpsertTokenUsage(ctx, usage))

	byComponent, err := store.ListComponentTokens(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, byComponent, 1)
	assert.Equal(t, "radius.md", byComponent[0].TokenName)
	require.NotNil(t, byComponent[0].Property)
	assert.Equal(t, "border-radius", *byComponent[0].Property)

	byToken, err := store.ListTokenUsage(ctx, tok.ID)
	require.NoError(t, err)
	require.Len(t, byToken, 1)
	assert.Equal(t, "Button", byToken[0].ComponentName)
}

func TestUpdateComponentEmbedding(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	c := insertTestComponent(t, store, "Button", "atom")
	vec := []float32{0.1, 0.2, 0.3}
	require.NoError(t, store.UpdateComponentEmbedding(ctx, c.ID, SerializeVector(vec), len(vec)))

	got, err := store.GetComponentByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Dimension)

	stored, err := DeserializeVector(got.Embedding)
	require.NoError(t, err)
	assert.Equal(t, vec, stored)
}

func TestTransactionRollback(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	c := &Component{Name: "Ghost", Tier: "atom", Code: "x", Source: "manual"}
	require.NoError(t, tx.InsertComponent(ctx, c))
	require.NoError(t, tx.Rollback())

	_, err = store.GetComponentByName(ctx, "Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionCommit(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	c := &Component{Name: "Kept", Tier: "atom", Code: "x", Source: "manual"}
	require.NoError(t, tx.InsertComponent(ctx, c))
	require.NoError(t, tx.Commit())

	got, err := store.GetComponentByName(ctx, "Kept")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestNestedTransactionsRejected(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
}
