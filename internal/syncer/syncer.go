// Package syncer implements the component upsert pipeline: diff against
// the stored row, append the change log, persist fields, regenerate the
// embedding, and rebuild dependency edges. The whole pipeline runs
// inside one storage transaction so readers see a sync all-or-nothing.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uxforge/designctx-mcp/internal/embedder"
	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/pkg/types"
)

// ErrNoFields is returned by UpdateContext when no field was supplied.
var ErrNoFields = errors.New("no fields to update")

// textSeparator joins the parts of an embedding text.
const textSeparator = " — "

// Engine orchestrates component syncs against a catalog and an
// embedding provider.
type Engine struct {
	store storage.Storage
	embed embedder.Embedder
}

// New creates a sync engine.
func New(store storage.Storage, embed embedder.Embedder) *Engine {
	return &Engine{store: store, embed: embed}
}

// EmbeddingText builds the text a component is embedded from. Empty
// parts are omitted.
func EmbeddingText(in *types.SyncInput) string {
	return joinParts(in.Name, string(in.Tier), deref(in.UsageRules), deref(in.Requirements))
}

// ComponentEmbeddingText builds the embedding text from a stored row.
func ComponentEmbeddingText(c *storage.Component) string {
	return joinParts(c.Name, c.Tier, deref(c.UsageRules), deref(c.Requirements))
}

// TokenEmbeddingText builds the text a design token is embedded from.
func TokenEmbeddingText(name, category string, description *string) string {
	return joinParts(name, category, deref(description))
}

func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, textSeparator)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SyncComponent upserts one component. An existing row is diffed field
// by field, a change-log entry is appended when anything differs, and
// omitted optional fields keep their stored values. The embedding is
// always regenerated and dependency edges are always rebuilt from the
// new code. Embedding provider errors surface verbatim; nothing is
// committed on failure.
func (e *Engine) SyncComponent(ctx context.Context, in *types.SyncInput) (*types.SyncResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := e.syncWithTx(ctx, tx, in)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) syncWithTx(ctx context.Context, tx storage.Tx, in *types.SyncInput) (*types.SyncResult, error) {
	existing, err := tx.GetComponentByName(ctx, in.Name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	vec, err := e.embed.Embed(ctx, EmbeddingText(in))
	if err != nil {
		return nil, err
	}
	blob := storage.SerializeVector(vec)

	var componentID int64
	isNew := existing == nil

	if existing != nil {
		changed := diffFields(existing, in)
		if len(changed) > 0 {
			entry := &storage.ChangeLogEntry{
				ComponentID:   existing.ID,
				Source:        string(in.Source),
				CodeBefore:    existing.Code,
				CodeAfter:     in.Code,
				FieldsChanged: changed,
			}
			if err := tx.AppendChangeLog(ctx, entry); err != nil {
				return nil, err
			}
		}

		updated := mergeInput(existing, in)
		updated.Embedding = blob
		updated.Dimension = len(vec)
		if err := tx.UpdateComponent(ctx, updated); err != nil {
			return nil, err
		}
		componentID = existing.ID
	} else {
		row := &storage.Component{
			Name:         in.Name,
			Tier:         string(in.Tier),
			Code:         in.Code,
			Source:       string(in.Source),
			Imports:      in.Imports,
			PropsSchema:  in.PropsSchema,
			UsageRules:   in.UsageRules,
			Requirements: in.Requirements,
			Examples:     in.Examples,
			Version:      in.Version,
			Embedding:    blob,
			Dimension:    len(vec),
		}
		if err := tx.InsertComponent(ctx, row); err != nil {
			return nil, err
		}
		componentID = row.ID
	}

	deps, err := rebuildWithStore(ctx, tx, componentID, in.Code)
	if err != nil {
		return nil, err
	}

	return &types.SyncResult{
		ID:                componentID,
		Name:              in.Name,
		IsNew:             isNew,
		DependenciesFound: deps,
	}, nil
}

// diffFields compares an input against the stored row. Code is always
// compared; optional text fields only when supplied. A supplied props
// schema always counts as changed since structural JSON is not
// deep-compared. Names use the storage column spelling.
func diffFields(old *storage.Component, in *types.SyncInput) []string {
	changed := make([]string, 0, 6)
	if old.Code != in.Code {
		changed = append(changed, "code")
	}
	if in.UsageRules != nil && !ptrEq(old.UsageRules, in.UsageRules) {
		changed = append(changed, "usage_rules")
	}
	if in.Requirements != nil && !ptrEq(old.Requirements, in.Requirements) {
		changed = append(changed, "requirements")
	}
	if in.Examples != nil && !ptrEq(old.Examples, in.Examples) {
		changed = append(changed, "examples")
	}
	if in.Imports != nil && !ptrEq(old.Imports, in.Imports) {
		changed = append(changed, "imports")
	}
	if in.PropsSchema != nil {
		changed = append(changed, "props_schema")
	}
	return changed
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// mergeInput applies an input over a stored row. Tier, code, and source
// always come from the input; omitted optional fields keep the stored
// value.
func mergeInput(old *storage.Component, in *types.SyncInput) *storage.Component {
	updated := *old
	updated.Tier = string(in.Tier)
	updated.Code = in.Code
	updated.Source = string(in.Source)
	if in.Imports != nil {
		updated.Imports = in.Imports
	}
	if in.PropsSchema != nil {
		updated.PropsSchema = in.PropsSchema
	}
	if in.UsageRules != nil {
		updated.UsageRules = in.UsageRules
	}
	if in.Requirements != nil {
		updated.Requirements = in.Requirements
	}
	if in.Examples != nil {
		updated.Examples = in.Examples
	}
	if in.Version != nil {
		updated.Version = in.Version
	}
	return &updated
}

// rebuildWithStore replaces all outgoing edges of componentID with the
// dependencies matched from code. Returns the matched names in order.
func rebuildWithStore(ctx context.Context, store storage.Storage, componentID int64, code string) ([]string, error) {
	matched, err := MatchDependencies(ctx, store, code, componentID)
	if err != nil {
		return nil, err
	}

	if err := store.ReplaceDependencies(ctx, componentID, matched); err != nil {
		return nil, err
	}

	names := make([]string, len(matched))
	for i, ref := range matched {
		names[i] = ref.Name
	}
	return names, nil
}

// RebuildDependencies re-parses a component's code and rebuilds its
// edge set in its own transaction.
func (e *Engine) RebuildDependencies(ctx context.Context, componentID int64, code string) ([]string, error) {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	deps, err := rebuildWithStore(ctx, tx, componentID, code)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return deps, nil
}

// BulkSync applies SyncComponent to each input strictly in sequence.
// The first failure aborts the batch; results accumulate in input order.
func (e *Engine) BulkSync(ctx context.Context, inputs []types.SyncInput) ([]*types.SyncResult, error) {
	results := make([]*types.SyncResult, 0, len(inputs))
	for i := range inputs {
		result, err := e.SyncComponent(ctx, &inputs[i])
		if err != nil {
			return nil, fmt.Errorf("sync %q: %w", inputs[i].Name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// UpdateContext updates the descriptive fields of a component and
// regenerates its embedding. At least one field must be supplied;
// omitted fields keep their stored values.
func (e *Engine) UpdateContext(ctx context.Context, name string, usageRules, requirements, examples *string) (*storage.Component, error) {
	if usageRules == nil && requirements == nil && examples == nil {
		return nil, ErrNoFields
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := tx.GetComponentByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if usageRules != nil {
		existing.UsageRules = usageRules
	}
	if requirements != nil {
		existing.Requirements = requirements
	}
	if examples != nil {
		existing.Examples = examples
	}

	vec, err := e.embed.Embed(ctx, ComponentEmbeddingText(existing))
	if err != nil {
		return nil, err
	}
	existing.Embedding = storage.SerializeVector(vec)
	existing.Dimension = len(vec)

	if err := tx.UpdateComponent(ctx, existing); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return existing, nil
}

// AddToken inserts a design token with a freshly generated embedding.
func (e *Engine) AddToken(ctx context.Context, tok *storage.Token) error {
	vec, err := e.embed.Embed(ctx, TokenEmbeddingText(tok.Name, tok.Category, tok.Description))
	if err != nil {
		return err
	}
	tok.Embedding = storage.SerializeVector(vec)
	tok.Dimension = len(vec)
	return e.store.InsertToken(ctx, tok)
}
