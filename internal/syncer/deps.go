package syncer

import (
	"context"

	"github.com/uxforge/designctx-mcp/internal/extractor"
	"github.com/uxforge/designctx-mcp/internal/storage"
)

// MatchDependencies extracts referenced names from source text and
// resolves them against the catalog in a single set-membership lookup.
// Text yielding no names returns empty without touching storage.
// A row whose id equals excludeID is dropped so a component never
// depends on itself. Results come back in extraction order.
func MatchDependencies(ctx context.Context, store storage.Storage, code string, excludeID int64) ([]storage.ComponentRef, error) {
	names := extractor.ExtractNames(code)
	if len(names) == 0 {
		return []storage.ComponentRef{}, nil
	}

	refs, err := store.GetComponentsByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]storage.ComponentRef, len(refs))
	for _, ref := range refs {
		if ref.ID == excludeID {
			continue
		}
		byName[ref.Name] = ref
	}

	matched := make([]storage.ComponentRef, 0, len(byName))
	for _, name := range names {
		if ref, ok := byName[name]; ok {
			matched = append(matched, ref)
		}
	}
	return matched, nil
}
