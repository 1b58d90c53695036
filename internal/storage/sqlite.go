package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys so edge and log rows cascade with their component
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStorage) querier() querier {
	return s.db
}

// nullableString adapts an optional field for a SQL parameter.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a scanned nullable column back to an optional field.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Component operations

const componentColumns = `id, name, tier, code, imports, props_schema, usage_rules,
       requirements, examples, version, source, embedding, dimension, created_at, updated_at`

func scanComponent(scan func(dest ...interface{}) error) (*Component, error) {
	var c Component
	var imports, usageRules, requirements, examples, version sql.NullString
	var propsSchema, embedding []byte

	err := scan(
		&c.ID, &c.Name, &c.Tier, &c.Code, &imports, &propsSchema, &usageRules,
		&requirements, &examples, &version, &c.Source, &embedding, &c.Dimension,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Imports = stringPtr(imports)
	c.PropsSchema = propsSchema
	c.UsageRules = stringPtr(usageRules)
	c.Requirements = stringPtr(requirements)
	c.Examples = stringPtr(examples)
	c.Version = stringPtr(version)
	c.Embedding = embedding
	return &c, nil
}

func (s *SQLiteStorage) insertComponentWithQuerier(ctx context.Context, q querier, c *Component) error {
	query := `
		INSERT INTO components (name, tier, code, imports, props_schema, usage_rules,
		                        requirements, examples, version, source, embedding, dimension,
		                        created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	var props interface{}
	if c.PropsSchema != nil {
		props = string(c.PropsSchema)
	}
	result, err := q.ExecContext(ctx, query,
		c.Name, c.Tier, c.Code, nullableString(c.Imports), props,
		nullableString(c.UsageRules), nullableString(c.Requirements),
		nullableString(c.Examples), nullableString(c.Version), c.Source,
		c.Embedding, c.Dimension, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert component: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertComponent(ctx context.Context, c *Component) error {
	return s.insertComponentWithQuerier(ctx, s.querier(), c)
}

func (s *SQLiteStorage) updateComponentWithQuerier(ctx context.Context, q querier, c *Component) error {
	query := `
		UPDATE components
		SET tier = ?, code = ?, imports = ?, props_schema = ?, usage_rules = ?,
		    requirements = ?, examples = ?, version = ?, source = ?,
		    embedding = ?, dimension = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	var props interface{}
	if c.PropsSchema != nil {
		props = string(c.PropsSchema)
	}
	_, err := q.ExecContext(ctx, query,
		c.Tier, c.Code, nullableString(c.Imports), props,
		nullableString(c.UsageRules), nullableString(c.Requirements),
		nullableString(c.Examples), nullableString(c.Version), c.Source,
		c.Embedding, c.Dimension, now, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update component: %w", err)
	}
	c.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateComponent(ctx context.Context, c *Component) error {
	return s.updateComponentWithQuerier(ctx, s.querier(), c)
}

func (s *SQLiteStorage) updateComponentEmbeddingWithQuerier(ctx context.Context, q querier, id int64, embedding []byte, dimension int) error {
	query := `UPDATE components SET embedding = ?, dimension = ?, updated_at = ? WHERE id = ?`
	_, err := q.ExecContext(ctx, query, embedding, dimension, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update component embedding: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpdateComponentEmbedding(ctx context.Context, id int64, embedding []byte, dimension int) error {
	return s.updateComponentEmbeddingWithQuerier(ctx, s.querier(), id, embedding, dimension)
}

func (s *SQLiteStorage) getComponentByNameWithQuerier(ctx context.Context, q querier, name string) (*Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE name = ?`
	c, err := scanComponent(q.QueryRowContext(ctx, query, name).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStorage) GetComponentByName(ctx context.Context, name string) (*Component, error) {
	return s.getComponentByNameWithQuerier(ctx, s.querier(), name)
}

func (s *SQLiteStorage) getComponentByIDWithQuerier(ctx context.Context, q querier, id int64) (*Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = ?`
	c, err := scanComponent(q.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStorage) GetComponentByID(ctx context.Context, id int64) (*Component, error) {
	return s.getComponentByIDWithQuerier(ctx, s.querier(), id)
}

// getComponentsByNamesWithQuerier resolves a name set in one IN query.
func (s *SQLiteStorage) getComponentsByNamesWithQuerier(ctx context.Context, q querier, names []string) ([]ComponentRef, error) {
	if len(names) == 0 {
		return []ComponentRef{}, nil
	}

	placeholders := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		args[i] = name
	}

	query := `SELECT id, name FROM components WHERE name IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	refs := make([]ComponentRef, 0, len(names))
	for rows.Next() {
		var ref ComponentRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *SQLiteStorage) GetComponentsByNames(ctx context.Context, names []string) ([]ComponentRef, error) {
	return s.getComponentsByNamesWithQuerier(ctx, s.querier(), names)
}

func (s *SQLiteStorage) listComponentsWithQuerier(ctx context.Context, q querier, tier string) ([]*ComponentSummary, error) {
	query := `SELECT id, name, tier, version, source, updated_at FROM components`
	args := []interface{}{}
	if tier != "" {
		query += ` WHERE tier = ?`
		args = append(args, tier)
	}
	query += ` ORDER BY name`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]*ComponentSummary, 0)
	for rows.Next() {
		var cs ComponentSummary
		var version sql.NullString
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Tier, &version, &cs.Source, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		cs.Version = stringPtr(version)
		summaries = append(summaries, &cs)
	}
	return summaries, rows.Err()
}

func (s *SQLiteStorage) ListComponents(ctx context.Context, tier string) ([]*ComponentSummary, error) {
	return s.listComponentsWithQuerier(ctx, s.querier(), tier)
}

func (s *SQLiteStorage) listAllComponentsWithQuerier(ctx context.Context, q querier) ([]*Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components ORDER BY id`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	components := make([]*Component, 0)
	for rows.Next() {
		c, err := scanComponent(rows.Scan)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func (s *SQLiteStorage) ListAllComponents(ctx context.Context) ([]*Component, error) {
	return s.listAllComponentsWithQuerier(ctx, s.querier())
}

func (s *SQLiteStorage) deleteComponentWithQuerier(ctx context.Context, q querier, id int64) error {
	// Edges, token usage, and log entries cascade via foreign keys
	_, err := q.ExecContext(ctx, `DELETE FROM components WHERE id = ?`, id)
	return err
}

func (s *SQLiteStorage) DeleteComponent(ctx context.Context, id int64) error {
	return s.deleteComponentWithQuerier(ctx, s.querier(), id)
}

// Dependency operations

// replaceDependenciesWithQuerier deletes all outgoing edges then inserts
// the fresh set. Full replace, not an incremental diff.
func (s *SQLiteStorage) replaceDependenciesWithQuerier(ctx context.Context, q querier, parentID int64, children []ComponentRef) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM component_dependencies WHERE parent_id = ?`, parentID); err != nil {
		return fmt.Errorf("failed to delete dependencies: %w", err)
	}

	if len(children) == 0 {
		return nil
	}

	values := make([]string, len(children))
	args := make([]interface{}, 0, len(children)*2)
	for i, child := range children {
		values[i] = "(?, ?)"
		args = append(args, parentID, child.ID)
	}

	query := `INSERT INTO component_dependencies (parent_id, child_id) VALUES ` + strings.Join(values, ",")
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert dependencies: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ReplaceDependencies(ctx context.Context, parentID int64, children []ComponentRef) error {
	return s.replaceDependenciesWithQuerier(ctx, s.querier(), parentID, children)
}

func (s *SQLiteStorage) listDependenciesWithQuerier(ctx context.Context, q querier, parentID int64) ([]*DependencyRow, error) {
	query := `
		SELECT c.id, c.name, c.tier, d.context
		FROM component_dependencies d
		INNER JOIN components c ON c.id = d.child_id
		WHERE d.parent_id = ?
		ORDER BY d.id
	`
	return s.queryDependencyRows(ctx, q, query, parentID)
}

func (s *SQLiteStorage) ListDependencies(ctx context.Context, parentID int64) ([]*DependencyRow, error) {
	return s.listDependenciesWithQuerier(ctx, s.querier(), parentID)
}

func (s *SQLiteStorage) listDependentsWithQuerier(ctx context.Context, q querier, childID int64) ([]*DependencyRow, error) {
	query := `
		SELECT c.id, c.name, c.tier, d.context
		FROM component_dependencies d
		INNER JOIN components c ON c.id = d.parent_id
		WHERE d.child_id = ?
		ORDER BY d.id
	`
	return s.queryDependencyRows(ctx, q, query, childID)
}

func (s *SQLiteStorage) ListDependents(ctx context.Context, childID int64) ([]*DependencyRow, error) {
	return s.listDependentsWithQuerier(ctx, s.querier(), childID)
}

func (s *SQLiteStorage) queryDependencyRows(ctx context.Context, q querier, query string, id int64) ([]*DependencyRow, error) {
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	deps := make([]*DependencyRow, 0)
	for rows.Next() {
		var d DependencyRow
		var edgeContext sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.Tier, &edgeContext); err != nil {
			return nil, err
		}
		d.Context = stringPtr(edgeContext)
		deps = append(deps, &d)
	}
	return deps, rows.Err()
}

// Change log operations

func (s *SQLiteStorage) appendChangeLogWithQuerier(ctx context.Context, q querier, entry *ChangeLogEntry) error {
	fields, err := json.Marshal(entry.FieldsChanged)
	if err != nil {
		return fmt.Errorf("failed to encode changed fields: %w", err)
	}

	query := `
		INSERT INTO component_change_log (component_id, source, code_before, code_after, fields_changed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		entry.ComponentID, entry.Source, entry.CodeBefore, entry.CodeAfter, string(fields), now)
	if err != nil {
		return fmt.Errorf("failed to append change log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	entry.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) AppendChangeLog(ctx context.Context, entry *ChangeLogEntry) error {
	return s.appendChangeLogWithQuerier(ctx, s.querier(), entry)
}

func (s *SQLiteStorage) listChangeLogWithQuerier(ctx context.Context, q querier, componentID int64, limit int) ([]*ChangeLogEntry, error) {
	query := `
		SELECT id, component_id, source, code_before, code_after, fields_changed, created_at
		FROM component_change_log
		WHERE component_id = ?
		ORDER BY created_at, id
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, componentID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*ChangeLogEntry, 0)
	for rows.Next() {
		var e ChangeLogEntry
		var source, codeBefore, codeAfter sql.NullString
		var fields string
		if err := rows.Scan(&e.ID, &e.ComponentID, &source, &codeBefore, &codeAfter, &fields, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Source = source.String
		e.CodeBefore = codeBefore.String
		e.CodeAfter = codeAfter.String
		if err := json.Unmarshal([]byte(fields), &e.FieldsChanged); err != nil {
			return nil, fmt.Errorf("failed to decode changed fields: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStorage) ListChangeLog(ctx context.Context, componentID int64, limit int) ([]*ChangeLogEntry, error) {
	return s.listChangeLogWithQuerier(ctx, s.querier(), componentID, limit)
}

// Token operations

func (s *SQLiteStorage) insertTokenWithQuerier(ctx context.Context, q querier, tok *Token) error {
	query := `
		INSERT INTO tokens (name, category, value, description, embedding, dimension, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		tok.Name, tok.Category, tok.Value, nullableString(tok.Description),
		tok.Embedding, tok.Dimension, now)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tok.ID = id
	tok.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertToken(ctx context.Context, tok *Token) error {
	return s.insertTokenWithQuerier(ctx, s.querier(), tok)
}

func (s *SQLiteStorage) updateTokenEmbeddingWithQuerier(ctx context.Context, q querier, id int64, embedding []byte, dimension int) error {
	query := `UPDATE tokens SET embedding = ?, dimension = ? WHERE id = ?`
	_, err := q.ExecContext(ctx, query, embedding, dimension, id)
	if err != nil {
		return fmt.Errorf("failed to update token embedding: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpdateTokenEmbedding(ctx context.Context, id int64, embedding []byte, dimension int) error {
	return s.updateTokenEmbeddingWithQuerier(ctx, s.querier(), id, embedding, dimension)
}

func (s *SQLiteStorage) getTokenByNameWithQuerier(ctx context.Context, q querier, name string) (*Token, error) {
	query := `SELECT id, name, category, value, description, embedding, dimension, created_at FROM tokens WHERE name = ?`
	var tok Token
	var description sql.NullString
	err := q.QueryRowContext(ctx, query, name).Scan(
		&tok.ID, &tok.Name, &tok.Category, &tok.Value, &description,
		&tok.Embedding, &tok.Dimension, &tok.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	tok.Description = stringPtr(description)
	return &tok, nil
}

func (s *SQLiteStorage) GetTokenByName(ctx context.Context, name string) (*Token, error) {
	return s.getTokenByNameWithQuerier(ctx, s.querier(), name)
}

func (s *SQLiteStorage) listTokensWithQuerier(ctx context.Context, q querier) ([]*Token, error) {
	query := `SELECT id, name, category, value, description, embedding, dimension, created_at FROM tokens ORDER BY id`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	toks := make([]*Token, 0)
	for rows.Next() {
		var tok Token
		var description sql.NullString
		if err := rows.Scan(&tok.ID, &tok.Name, &tok.Category, &tok.Value, &description,
			&tok.Embedding, &tok.Dimension, &tok.CreatedAt); err != nil {
			return nil, err
		}
		tok.Description = stringPtr(description)
		toks = append(toks, &tok)
	}
	return toks, rows.Err()
}

func (s *SQLiteStorage) ListTokens(ctx context.Context) ([]*Token, error) {
	return s.listTokensWithQuerier(ctx, s.querier())
}

func (s *SQLiteStorage) upsertTokenUsageWithQuerier(ctx context.Context, q querier, u *TokenUsage) error {
	// NULL properties never conflict in SQLite, so duplicates with a NULL
	// property are tolerated; rows with a property are deduplicated.
	query := `
		INSERT INTO component_token_usage (component_id, token_id, property)
		VALUES (?, ?, ?)
		ON CONFLICT(component_id, token_id, property) DO NOTHING
	`
	_, err := q.ExecContext(ctx, query, u.ComponentID, u.TokenID, nullableString(u.Property))
	if err != nil {
		return fmt.Errorf("failed to upsert token usage: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertTokenUsage(ctx context.Context, u *TokenUsage) error {
	return s.upsertTokenUsageWithQuerier(ctx, s.querier(), u)
}

func (s *SQLiteStorage) listComponentTokensWithQuerier(ctx context.Context, q querier, componentID int64) ([]*ComponentTokenRow, error) {
	query := `
		SELECT t.id, t.name, t.category, t.value, u.property
		FROM component_token_usage u
		INNER JOIN tokens t ON t.id = u.token_id
		WHERE u.component_id = ?
		ORDER BY u.id
	`
	rows, err := q.QueryContext(ctx, query, componentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	usages := make([]*ComponentTokenRow, 0)
	for rows.Next() {
		var row ComponentTokenRow
		var property sql.NullString
		if err := rows.Scan(&row.TokenID, &row.TokenName, &row.Category, &row.Value, &property); err != nil {
			return nil, err
		}
		row.Property = stringPtr(property)
		usages = append(usages, &row)
	}
	return usages, rows.Err()
}

func (s *SQLiteStorage) ListComponentTokens(ctx context.Context, componentID int64) ([]*ComponentTokenRow, error) {
	return s.listComponentTokensWithQuerier(ctx, s.querier(), componentID)
}

func (s *SQLiteStorage) listTokenUsageWithQuerier(ctx context.Context, q querier, tokenID int64) ([]*TokenUsageRow, error) {
	query := `
		SELECT c.id, c.name, c.tier, u.property
		FROM component_token_usage u
		INNER JOIN components c ON c.id = u.component_id
		WHERE u.token_id = ?
		ORDER BY u.id
	`
	rows, err := q.QueryContext(ctx, query, tokenID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	usages := make([]*TokenUsageRow, 0)
	for rows.Next() {
		var row TokenUsageRow
		var property sql.NullString
		if err := rows.Scan(&row.ComponentID, &row.ComponentName, &row.Tier, &property); err != nil {
			return nil, err
		}
		row.Property = stringPtr(property)
		usages = append(usages, &row)
	}
	return usages, rows.Err()
}

func (s *SQLiteStorage) ListTokenUsage(ctx context.Context, tokenID int64) ([]*TokenUsageRow, error) {
	return s.listTokenUsageWithQuerier(ctx, s.querier(), tokenID)
}

// Search operations

func (s *SQLiteStorage) SearchComponents(ctx context.Context, queryVector []float32, opts SearchOptions) ([]ComponentHit, error) {
	return searchComponents(ctx, s.querier(), queryVector, opts)
}

func (s *SQLiteStorage) SearchTokens(ctx context.Context, queryVector []float32, opts SearchOptions) ([]TokenHit, error) {
	return searchTokens(ctx, s.querier(), queryVector, opts)
}

// Transaction implementations delegate to the internal helpers that
// accept a querier, so every operation works inside or outside a Tx.

func (t *sqliteTx) InsertComponent(ctx context.Context, c *Component) error {
	return t.storage.insertComponentWithQuerier(ctx, t.querier(), c)
}

func (t *sqliteTx) UpdateComponent(ctx context.Context, c *Component) error {
	return t.storage.updateComponentWithQuerier(ctx, t.querier(), c)
}

func (t *sqliteTx) UpdateComponentEmbedding(ctx context.Context, id int64, embedding []byte, dimension int) error {
	return t.storage.updateComponentEmbeddingWithQuerier(ctx, t.querier(), id, embedding, dimension)
}

func (t *sqliteTx) GetComponentByName(ctx context.Context, name string) (*Component, error) {
	return t.storage.getComponentByNameWithQuerier(ctx, t.querier(), name)
}

func (t *sqliteTx) GetComponentByID(ctx context.Context, id int64) (*Component, error) {
	return t.storage.getComponentByIDWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) GetComponentsByNames(ctx context.Context, names []string) ([]ComponentRef, error) {
	return t.storage.getComponentsByNamesWithQuerier(ctx, t.querier(), names)
}

func (t *sqliteTx) ListComponents(ctx context.Context, tier string) ([]*ComponentSummary, error) {
	return t.storage.listComponentsWithQuerier(ctx, t.querier(), tier)
}

func (t *sqliteTx) ListAllComponents(ctx context.Context) ([]*Component, error) {
	return t.storage.listAllComponentsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) DeleteComponent(ctx context.Context, id int64) error {
	return t.storage.deleteComponentWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) ReplaceDependencies(ctx context.Context, parentID int64, children []ComponentRef) error {
	return t.storage.replaceDependenciesWithQuerier(ctx, t.querier(), parentID, children)
}

func (t *sqliteTx) ListDependencies(ctx context.Context, parentID int64) ([]*DependencyRow, error) {
	return t.storage.listDependenciesWithQuerier(ctx, t.querier(), parentID)
}

func (t *sqliteTx) ListDependents(ctx context.Context, childID int64) ([]*DependencyRow, error) {
	return t.storage.listDependentsWithQuerier(ctx, t.querier(), childID)
}

func (t *sqliteTx) AppendChangeLog(ctx context.Context, entry *ChangeLogEntry) error {
	return t.storage.appendChangeLogWithQuerier(ctx, t.querier(), entry)
}

func (t *sqliteTx) ListChangeLog(ctx context.Context, componentID int64, limit int) ([]*ChangeLogEntry, error) {
	return t.storage.listChangeLogWithQuerier(ctx, t.querier(), componentID, limit)
}

func (t *sqliteTx) InsertToken(ctx context.Context, tok *Token) error {
	return t.storage.insertTokenWithQuerier(ctx, t.querier(), tok)
}

func (t *sqliteTx) UpdateTokenEmbedding(ctx context.Context, id int64, embedding []byte, dimension int) error {
	return t.storage.updateTokenEmbeddingWithQuerier(ctx, t.querier(), id, embedding, dimension)
}

func (t *sqliteTx) GetTokenByName(ctx context.Context, name string) (*Token, error) {
	return t.storage.getTokenByNameWithQuerier(ctx, t.querier(), name)
}

func (t *sqliteTx) ListTokens(ctx context.Context) ([]*Token, error) {
	return t.storage.listTokensWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) UpsertTokenUsage(ctx context.Context, u *TokenUsage) error {
	return t.storage.upsertTokenUsageWithQuerier(ctx, t.querier(), u)
}

func (t *sqliteTx) ListComponentTokens(ctx context.Context, componentID int64) ([]*ComponentTokenRow, error) {
	return t.storage.listComponentTokensWithQuerier(ctx, t.querier(), componentID)
}

func (t *sqliteTx) ListTokenUsage(ctx context.Context, tokenID int64) ([]*TokenUsageRow, error) {
	return t.storage.listTokenUsageWithQuerier(ctx, t.querier(), tokenID)
}

func (t *sqliteTx) SearchComponents(ctx context.Context, queryVector []float32, opts SearchOptions) ([]ComponentHit, error) {
	return searchComponents(ctx, t.querier(), queryVector, opts)
}

func (t *sqliteTx) SearchTokens(ctx context.Context, queryVector []float32, opts SearchOptions) ([]TokenHit, error) {
	return searchTokens(ctx, t.querier(), queryVector, opts)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
