// Package engine implements the generic resource engines: SimpleEngine for
// single-key entities, LinkedEngine for two-key entities that still carry
// their own non-key fields (e.g. flight_plan_parcel), and LinkEngine for
// pure link tables. All three are generic over a schema.ResourceDefinition
// and operate through the Store abstraction in this file, so the same
// engine code runs against a real database or the in-memory fallback.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/aetheric-oss/svc-storage/internal/apperr"
	"github.com/aetheric-oss/svc-storage/internal/schema"
	"github.com/aetheric-oss/svc-storage/internal/search"
	"github.com/aetheric-oss/svc-storage/internal/sqlgen"
)

// Store is what an engine needs from its backing storage: run a synthesized
// statement, or run a synthesized search and get rows back. SQLStore and
// MemoryStore are the two implementations; an engine is constructed with
// whichever one its caller (cmd/storage-server) wired up.
type Store interface {
	// Exec runs an Insert/Update/SoftDelete/HardDelete statement. For
	// statements with a RETURNING clause, the returned row holds the
	// returned columns; otherwise it is nil.
	Exec(ctx context.Context, def schema.ResourceDefinition, stmt sqlgen.Statement, returning []string) (search.Row, error)

	// SelectOne runs a SelectByKey statement and returns the single
	// matching row, or apperr.NotFound if there isn't one.
	SelectOne(ctx context.Context, def schema.ResourceDefinition, stmt sqlgen.Statement) (search.Row, error)

	// Search runs an AdvancedSearchFilter against def and returns matching
	// rows.
	Search(ctx context.Context, def schema.ResourceDefinition, f search.AdvancedSearchFilter) ([]search.Row, error)

	// WithTx runs fn against a Store bound to a single transaction,
	// committing on success and rolling back on any error fn returns.
	// Used by LinkEngine.ReplaceLinked.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// SQLStore is the real-database-backed Store, over a *sql.DB or *sql.Tx.
type SQLStore struct {
	db sqlExecutor
}

type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLStore wraps db (a *sql.DB, satisfies sqlExecutor) as a Store.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Exec(ctx context.Context, def schema.ResourceDefinition, stmt sqlgen.Statement, returning []string) (search.Row, error) {
	if len(returning) == 0 {
		res, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return nil, apperr.Database(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, apperr.Database(err)
		}
		if n == 0 {
			return nil, apperr.NotFound(def.TableName)
		}
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, stmt.SQL, stmt.Args...)
	dest := make([]any, len(returning))
	ptrs := make([]any, len(returning))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := row.Scan(ptrs...); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound(def.TableName)
		}
		return nil, apperr.Database(err)
	}
	out := make(search.Row, len(returning))
	for i, col := range returning {
		out[col] = dest[i]
	}
	return out, nil
}

func (s *SQLStore) SelectOne(ctx context.Context, def schema.ResourceDefinition, stmt sqlgen.Statement) (search.Row, error) {
	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, apperr.Database(err)
	}
	if len(out) == 0 {
		return nil, apperr.NotFound(def.TableName)
	}
	return out[0], nil
}

func (s *SQLStore) Search(ctx context.Context, def schema.ResourceDefinition, f search.AdvancedSearchFilter) ([]search.Row, error) {
	compiled, err := search.Compile(def, f, 1)
	if err != nil {
		return nil, apperr.Malformed(err.Error())
	}
	sqlStr := "SELECT * FROM " + sqlgen.QuoteIdent(def.TableName)
	if compiled.WhereSQL != "" {
		sqlStr += " " + compiled.WhereSQL
	}
	if compiled.OrderSQL != "" {
		sqlStr += " " + compiled.OrderSQL
	}
	if compiled.LimitSQL != "" {
		sqlStr += " " + compiled.LimitSQL
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, compiled.Args...)
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, apperr.Database(err)
	}
	return out, nil
}

func (s *SQLStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return fn(s)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Database(err)
	}
	if err := fn(&SQLStore{db: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Database(err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]search.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []search.Row
	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(search.Row, len(cols))
		for i, c := range cols {
			row[c] = dest[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MemoryStore is the in-memory fallback Store, keyed by table name. It
// exists so the service can run (and be tested) with no database
// configured, per the dual SQL / in-memory evaluation design shared with
// internal/search.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]search.Row
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]search.Row)}
}

func (m *MemoryStore) keyMatches(def schema.ResourceDefinition, row search.Row, keyValues map[string]any) bool {
	for _, k := range def.KeyColumns {
		// Validated UUID columns hold uuid.UUID while lookups pass the id
		// as a string, so keys compare by their printed form.
		if fmt.Sprint(row[k]) != fmt.Sprint(keyValues[k]) {
			return false
		}
	}
	return true
}

func (m *MemoryStore) Exec(ctx context.Context, def schema.ResourceDefinition, stmt sqlgen.Statement, returning []string) (search.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return nil, apperr.SchemaMismatchf("engine: MemoryStore.Exec must not be called directly; use the typed helpers")
}

func (m *MemoryStore) SelectOne(ctx context.Context, def schema.ResourceDefinition, stmt sqlgen.Statement) (search.Row, error) {
	return nil, apperr.SchemaMismatchf("engine: MemoryStore.SelectOne must not be called directly; use the typed helpers")
}

func (m *MemoryStore) Search(ctx context.Context, def schema.ResourceDefinition, f search.AdvancedSearchFilter) ([]search.Row, error) {
	m.mu.RLock()
	rows := append([]search.Row(nil), m.tables[def.TableName]...)
	m.mu.RUnlock()
	return search.Evaluate(rows, f, def.HasDeletedAt())
}

func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

// -- direct row operations used by the engines' memory path --

func (m *MemoryStore) insertRow(table string, row search.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], row)
}

func (m *MemoryStore) findRow(def schema.ResourceDefinition, keyValues map[string]any) (int, search.Row, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i, r := range m.tables[def.TableName] {
		if m.keyMatches(def, r, keyValues) {
			return i, r, true
		}
	}
	return -1, nil, false
}

func (m *MemoryStore) updateRow(table string, idx int, cols map[string]any) search.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.tables[table][idx]
	out := make(search.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	for k, v := range cols {
		out[k] = v
	}
	m.tables[table][idx] = out
	return out
}

func (m *MemoryStore) deleteRowAt(table string, idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	m.tables[table] = append(rows[:idx], rows[idx+1:]...)
}
