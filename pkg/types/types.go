package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tier is the compositional level of a component.
type Tier string

const (
	TierAtom     Tier = "atom"
	TierMolecule Tier = "molecule"
	TierOrganism Tier = "organism"
)

// Valid reports whether the tier is one of the known levels.
func (t Tier) Valid() bool {
	switch t {
	case TierAtom, TierMolecule, TierOrganism:
		return true
	}
	return false
}

// Source records where the last write of a component came from.
type Source string

const (
	SourceFigma    Source = "figma"
	SourceCodebase Source = "codebase"
	SourceManual   Source = "manual"
)

// Valid reports whether the source is one of the known provenances.
func (s Source) Valid() bool {
	switch s {
	case SourceFigma, SourceCodebase, SourceManual:
		return true
	}
	return false
}

// SyncInput is a component definition arriving from any source.
// Pointer fields distinguish "not supplied" from "supplied empty": an
// omitted field keeps the stored value on update.
type SyncInput struct {
	Name         string          `json:"name"`
	Tier         Tier            `json:"tier"`
	Code         string          `json:"code"`
	Source       Source          `json:"source"`
	PropsSchema  json.RawMessage `json:"propsSchema,omitempty"`
	UsageRules   *string         `json:"usageRules,omitempty"`
	Requirements *string         `json:"requirements,omitempty"`
	Examples     *string         `json:"examples,omitempty"`
	Version      *string         `json:"version,omitempty"`
	Imports      *string         `json:"imports,omitempty"`
}

// Validate checks the required fields of a sync input.
func (in *SyncInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !in.Tier.Valid() {
		return fmt.Errorf("invalid tier %q", in.Tier)
	}
	if in.Code == "" {
		return fmt.Errorf("code is required")
	}
	if !in.Source.Valid() {
		return fmt.Errorf("invalid source %q", in.Source)
	}
	return nil
}

// SyncResult is the outcome of one component sync.
type SyncResult struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	IsNew             bool     `json:"isNew"`
	DependenciesFound []string `json:"dependenciesFound"`
}

// ComponentDetail is the outward shape of a component row. The stored
// embedding vector is stripped everywhere results cross the tool boundary.
type ComponentDetail struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Tier         Tier            `json:"tier"`
	Code         string          `json:"code"`
	Imports      *string         `json:"imports"`
	PropsSchema  json.RawMessage `json:"propsSchema"`
	UsageRules   *string         `json:"usageRules"`
	Requirements *string         `json:"requirements"`
	Examples     *string         `json:"examples"`
	Version      *string         `json:"version"`
	Source       Source          `json:"source"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ComponentSummary is the row shape returned by list_components.
type ComponentSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tier      Tier      `json:"tier"`
	Version   *string   `json:"version"`
	Source    Source    `json:"source"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DependencyRow is one edge endpoint with the edge's free-text context.
type DependencyRow struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Tier    Tier    `json:"tier"`
	Context *string `json:"context"`
}

// TokenDetail is the outward shape of a design token row.
type TokenDetail struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Value       string  `json:"value"`
	Description *string `json:"description"`
}

// ComponentTokenRow describes one token used by a component.
type ComponentTokenRow struct {
	TokenID   int64   `json:"tokenId"`
	TokenName string  `json:"tokenName"`
	Category  string  `json:"category"`
	Value     string  `json:"value"`
	Property  *string `json:"property"`
}

// TokenUsageRow describes one component using a token.
type TokenUsageRow struct {
	ComponentID   int64   `json:"componentId"`
	ComponentName string  `json:"componentName"`
	Tier          Tier    `json:"tier"`
	Property      *string `json:"property"`
}

// ChangeLogRow is one append-only history entry for a component.
type ChangeLogRow struct {
	ID            int64     `json:"id"`
	ComponentID   int64     `json:"componentId"`
	Source        Source    `json:"source"`
	CodeBefore    string    `json:"codeBefore"`
	CodeAfter     string    `json:"codeAfter"`
	FieldsChanged []string  `json:"fieldsChanged"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ComponentHit is one ranked component search result.
type ComponentHit struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Tier         Tier    `json:"tier"`
	UsageRules   *string `json:"usageRules"`
	Requirements *string `json:"requirements"`
	Examples     *string `json:"examples"`
	Similarity   float64 `json:"similarity"`
}

// TokenHit is one ranked token search result.
type TokenHit struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Value       string  `json:"value"`
	Description *string `json:"description"`
	Similarity  float64 `json:"similarity"`
}
