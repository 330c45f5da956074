// Package sqlgen synthesizes parameterized SQL statements from a
// schema.ResourceDefinition and a column value map produced by
// internal/validate. It never imports internal/validate directly, it only
// depends on schema.ResourceDefinition and geo.WKT() so it can be
// exercised from tests without constructing a full validation pass.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/aetheric-oss/svc-storage/internal/geo"
	"github.com/aetheric-oss/svc-storage/internal/schema"
)

// Values is a column name -> typed Go value map, the shape
// internal/validate.Result.Columns already has.
type Values map[string]any

// wktString returns the WKT literal for v if v is one of the geometry
// types, and whether v was a geometry value at all.
func wktString(v any) (string, bool) {
	switch g := v.(type) {
	case geo.PointZ:
		return g.WKT(), true
	case geo.LineStringZ:
		return g.WKT(), true
	case geo.PolygonZ:
		return g.WKT(), true
	default:
		return "", false
	}
}

// Statement is a synthesized SQL string plus its positional bind
// parameters, in $1, $2, ... order matching Postgres placeholder syntax.
type Statement struct {
	SQL  string
	Args []any
}

// QuoteIdent double-quotes a table or column name Postgres-style, so
// reserved words used as entity names (user, group) stay valid identifiers.
// Exported so internal/engine's raw "SELECT * FROM ..." assembly and
// internal/search's WHERE/ORDER BY compilation quote consistently with
// every statement sqlgen itself emits.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteIdents quotes every name in names.
func QuoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = QuoteIdent(n)
	}
	return out
}

// Insert builds an INSERT INTO statement for def, iterating def.FieldOrder
// so the column list is deterministic. Only columns present in cols are
// emitted; geometry columns are inlined via ST_GeomFromText(...) rather
// than bound as placeholders. The statement ends with RETURNING over
// def.KeyColumns.
func Insert(def schema.ResourceDefinition, cols Values) Statement {
	var names []string
	var placeholders []string
	var args []any
	n := 1

	for _, name := range def.FieldOrder {
		v, ok := cols[name]
		if !ok {
			continue
		}
		names = append(names, QuoteIdent(name))
		if wkt, isGeom := wktString(v); isGeom {
			placeholders = append(placeholders, geo.GeomFromText(wkt))
			continue
		}
		placeholders = append(placeholders, fmt.Sprintf("$%d", n))
		args = append(args, v)
		n++
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		QuoteIdent(def.TableName),
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(QuoteIdents(def.KeyColumns), ", "),
	)
	return Statement{SQL: sql, Args: args}
}

// Update builds an UPDATE statement that only touches the columns present
// in cols (the field mask), in def.FieldOrder order, keyed by keyValues
// (one entry per def.KeyColumns). If def has a deleted_at column the WHERE
// clause additionally requires it to be NULL, so an update can never
// resurrect an archived row.
func Update(def schema.ResourceDefinition, keyValues map[string]any, cols Values) (Statement, error) {
	if len(cols) == 0 {
		return Statement{}, fmt.Errorf("sqlgen: update of %s has no fields to set", def.TableName)
	}

	var sets []string
	var args []any
	n := 1

	for _, name := range def.FieldOrder {
		v, ok := cols[name]
		if !ok {
			continue
		}
		if wkt, isGeom := wktString(v); isGeom {
			sets = append(sets, fmt.Sprintf("%s = %s", QuoteIdent(name), geo.GeomFromText(wkt)))
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", QuoteIdent(name), n))
		args = append(args, v)
		n++
	}

	var where []string
	for _, key := range def.KeyColumns {
		where = append(where, fmt.Sprintf("%s = $%d", QuoteIdent(key), n))
		args = append(args, keyValues[key])
		n++
	}
	if def.HasDeletedAt() {
		where = append(where, `"deleted_at" IS NULL`)
	}

	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s",
		QuoteIdent(def.TableName),
		strings.Join(sets, ", "),
		strings.Join(where, " AND "),
	)
	return Statement{SQL: sql, Args: args}, nil
}

// SelectByKey builds a SELECT * statement for a single row identified by
// keyValues. When includeArchived is false and def has a deleted_at
// column, the WHERE clause excludes archived rows.
func SelectByKey(def schema.ResourceDefinition, keyValues map[string]any, includeArchived bool) Statement {
	var where []string
	var args []any
	n := 1
	for _, key := range def.KeyColumns {
		where = append(where, fmt.Sprintf("%s = $%d", QuoteIdent(key), n))
		args = append(args, keyValues[key])
		n++
	}
	if !includeArchived && def.HasDeletedAt() {
		where = append(where, `"deleted_at" IS NULL`)
	}
	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s", QuoteIdent(def.TableName), strings.Join(where, " AND "))
	return Statement{SQL: sql, Args: args}
}

// SoftDelete builds the UPDATE that archives a row by setting deleted_at.
// Callers must check def.HasDeletedAt() first; archiving an entity with no
// deleted_at column is a programmer error, not something sqlgen decides.
func SoftDelete(def schema.ResourceDefinition, keyValues map[string]any) Statement {
	var where []string
	var args []any
	n := 1
	for _, key := range def.KeyColumns {
		where = append(where, fmt.Sprintf("%s = $%d", QuoteIdent(key), n))
		args = append(args, keyValues[key])
		n++
	}
	where = append(where, `"deleted_at" IS NULL`)
	sql := fmt.Sprintf(
		`UPDATE %s SET "deleted_at" = CURRENT_TIMESTAMP WHERE %s RETURNING %s`,
		QuoteIdent(def.TableName), strings.Join(where, " AND "), strings.Join(QuoteIdents(def.KeyColumns), ", "),
	)
	return Statement{SQL: sql, Args: args}
}

// HardDelete builds a DELETE FROM statement, used for entities with no
// soft-delete column and for link-table unlink operations.
func HardDelete(def schema.ResourceDefinition, keyValues map[string]any) Statement {
	var where []string
	var args []any
	n := 1
	for _, key := range def.KeyColumns {
		where = append(where, fmt.Sprintf("%s = $%d", QuoteIdent(key), n))
		args = append(args, keyValues[key])
		n++
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", QuoteIdent(def.TableName), strings.Join(where, " AND "))
	return Statement{SQL: sql, Args: args}
}
