package storage

import (
	"context"
	"time"
)

// Storage defines the catalog operations the sync engine, searcher, and
// tool layer depend on. Every method is atomic at the single-statement
// level; multi-step writes go through BeginTx.
type Storage interface {
	// Component operations
	InsertComponent(ctx context.Context, c *Component) error
	UpdateComponent(ctx context.Context, c *Component) error
	UpdateComponentEmbedding(ctx context.Context, id int64, embedding []byte, dimension int) error
	GetComponentByName(ctx context.Context, name string) (*Component, error)
	GetComponentByID(ctx context.Context, id int64) (*Component, error)
	GetComponentsByNames(ctx context.Context, names []string) ([]ComponentRef, error)
	ListComponents(ctx context.Context, tier string) ([]*ComponentSummary, error)
	ListAllComponents(ctx context.Context) ([]*Component, error)
	DeleteComponent(ctx context.Context, id int64) error

	// Dependency edges (owned by the sync engine)
	ReplaceDependencies(ctx context.Context, parentID int64, children []ComponentRef) error
	ListDependencies(ctx context.Context, parentID int64) ([]*DependencyRow, error)
	ListDependents(ctx context.Context, childID int64) ([]*DependencyRow, error)

	// Change log (append-only)
	AppendChangeLog(ctx context.Context, entry *ChangeLogEntry) error
	ListChangeLog(ctx context.Context, componentID int64, limit int) ([]*ChangeLogEntry, error)

	// Token operations
	InsertToken(ctx context.Context, tok *Token) error
	UpdateTokenEmbedding(ctx context.Context, id int64, embedding []byte, dimension int) error
	GetTokenByName(ctx context.Context, name string) (*Token, error)
	ListTokens(ctx context.Context) ([]*Token, error)
	UpsertTokenUsage(ctx context.Context, u *TokenUsage) error
	ListComponentTokens(ctx context.Context, componentID int64) ([]*ComponentTokenRow, error)
	ListTokenUsage(ctx context.Context, tokenID int64) ([]*TokenUsageRow, error)

	// Vector search (similarity computed over stored embeddings)
	SearchComponents(ctx context.Context, queryVector []float32, opts SearchOptions) ([]ComponentHit, error)
	SearchTokens(ctx context.Context, queryVector []float32, opts SearchOptions) ([]TokenHit, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction over the same operation set.
type Tx interface {
	Commit() error
	Rollback() error
	Storage
}

// Component is a catalog row. Embedding holds the serialized float32
// vector; it never leaves the storage layer in outward-facing results.
type Component struct {
	ID           int64
	Name         string
	Tier         string
	Code         string
	Imports      *string
	PropsSchema  []byte // JSON, nullable
	UsageRules   *string
	Requirements *string
	Examples     *string
	Version      *string
	Source       string
	Embedding    []byte
	Dimension    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ComponentSummary is the projection returned by ListComponents.
type ComponentSummary struct {
	ID        int64
	Name      string
	Tier      string
	Version   *string
	Source    string
	UpdatedAt time.Time
}

// ComponentRef is an (id, name) pair used for dependency matching.
type ComponentRef struct {
	ID   int64
	Name string
}

// DependencyRow is one dependency edge joined with the far endpoint.
type DependencyRow struct {
	ID      int64
	Name    string
	Tier    string
	Context *string
}

// ChangeLogEntry records one field-level edit to a component.
type ChangeLogEntry struct {
	ID            int64
	ComponentID   int64
	Source        string
	CodeBefore    string
	CodeAfter     string
	FieldsChanged []string
	CreatedAt     time.Time
}

// Token is a design token row.
type Token struct {
	ID          int64
	Name        string
	Category    string
	Value       string
	Description *string
	Embedding   []byte
	Dimension   int
	CreatedAt   time.Time
}

// TokenUsage links a component to a token for one CSS property.
type TokenUsage struct {
	ComponentID int64
	TokenID     int64
	Property    *string
}

// ComponentTokenRow is a token usage joined from the component side.
type ComponentTokenRow struct {
	TokenID   int64
	TokenName string
	Category  string
	Value     string
	Property  *string
}

// TokenUsageRow is a token usage joined from the token side.
type TokenUsageRow struct {
	ComponentID   int64
	ComponentName string
	Tier          string
	Property      *string
}

// SearchOptions narrows a vector search.
type SearchOptions struct {
	Tier      string  // exact tier filter, empty for all
	Limit     int     // max rows returned
	Threshold float64 // rows must score strictly above this
}

// ComponentHit is a component row with its similarity score.
type ComponentHit struct {
	ID           int64
	Name         string
	Tier         string
	UsageRules   *string
	Requirements *string
	Examples     *string
	Similarity   float64
}

// TokenHit is a token row with its similarity score.
type TokenHit struct {
	ID          int64
	Name        string
	Category    string
	Value       string
	Description *string
	Similarity  float64
}
