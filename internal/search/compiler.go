package search

import (
	"fmt"
	"strings"

	"github.com/aetheric-oss/svc-storage/internal/geo"
	"github.com/aetheric-oss/svc-storage/internal/schema"
)

// quoteIdent double-quotes a column name Postgres-style, matching
// sqlgen.QuoteIdent, so a WHERE/ORDER BY clause stays valid against
// reserved-word columns even though this package never imports sqlgen.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Compiled is a WHERE/ORDER BY/LIMIT fragment plus its positional args,
// ready to be appended after a base "SELECT * FROM table" statement.
type Compiled struct {
	WhereSQL string
	OrderSQL string
	LimitSQL string
	Args     []any
}

// Compile renders f against def into a parameterized SQL fragment.
// Placeholders start at startArg (1-based) so callers can compile a filter
// after already having bound earlier parameters (e.g. a link-table join
// key) in the same statement.
func Compile(def schema.ResourceDefinition, f AdvancedSearchFilter, startArg int) (Compiled, error) {
	var args []any
	n := startArg
	var chain string

	for i, opt := range f.Filters {
		if !def.HasField(opt.Column) {
			return Compiled{}, fmt.Errorf("search: %s has no field %q", def.TableName, opt.Column)
		}
		cond, a, next := compileOption(opt, n)
		args = append(args, a...)
		n = next

		if i == 0 {
			chain = cond
			continue
		}
		joiner := "AND"
		if opt.Combinator == Or {
			joiner = "OR"
		}
		chain = fmt.Sprintf("(%s %s %s)", chain, joiner, cond)
	}

	var conds []string
	if chain != "" {
		conds = append(conds, chain)
	}
	if !f.IncludeArchived && def.HasDeletedAt() {
		conds = append(conds, `"deleted_at" IS NULL`)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var orderParts []string
	for _, s := range f.Sort {
		dir := "ASC"
		if s.Direction == Descending {
			dir = "DESC"
		}
		orderParts = append(orderParts, fmt.Sprintf("%s %s", quoteIdent(s.Column), dir))
	}
	order := ""
	if len(orderParts) > 0 {
		order = "ORDER BY " + strings.Join(orderParts, ", ")
	}

	limit := ""
	if f.Limit > 0 {
		limit = fmt.Sprintf("LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	return Compiled{WhereSQL: where, OrderSQL: order, LimitSQL: limit, Args: args}, nil
}

// compileOption renders a single FilterOption, returning its SQL fragment,
// the args it consumes, and the next free placeholder index.
func compileOption(opt FilterOption, n int) (string, []any, int) {
	switch opt.Predicate {
	case IsNull:
		return fmt.Sprintf("%s IS NULL", quoteIdent(opt.Column)), nil, n
	case IsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", quoteIdent(opt.Column)), nil, n
	case In, NotIn:
		op := "IN"
		if opt.Predicate == NotIn {
			op = "NOT IN"
		}
		placeholders := make([]string, len(opt.Values))
		for i := range opt.Values {
			placeholders[i] = fmt.Sprintf("$%d", n)
			n++
		}
		return fmt.Sprintf("%s %s (%s)", quoteIdent(opt.Column), op, strings.Join(placeholders, ", ")), opt.Values, n
	case Between:
		cond := fmt.Sprintf("%s BETWEEN $%d AND $%d", quoteIdent(opt.Column), n, n+1)
		return cond, opt.Values[:2], n + 2
	case Contains:
		return fmt.Sprintf("%s @> $%d", quoteIdent(opt.Column), n), opt.Values[:1], n + 1
	case Overlaps:
		return fmt.Sprintf("%s && $%d", quoteIdent(opt.Column), n), opt.Values[:1], n + 1
	case GeoIntersect, GeoWithin, GeoDisjoint:
		return compileGeoPredicate(opt), nil, n
	default:
		return compileMultiValue(opt, n)
	}
}

// compileGeoPredicate renders a spatial predicate against an inlined WKT
// literal, the same way internal/sqlgen inlines geometry on writes rather
// than binding it as a driver parameter.
func compileGeoPredicate(opt FilterOption) string {
	var wkt string
	if len(opt.Values) > 0 {
		wkt = geoWKT(opt.Values[0])
	}
	lit := geo.GeomFromText(wkt)
	col := quoteIdent(opt.Column)
	switch opt.Predicate {
	case GeoIntersect:
		return fmt.Sprintf("ST_Intersects(%s, %s)", col, lit)
	case GeoWithin:
		return fmt.Sprintf("ST_Within(%s, %s)", col, lit)
	case GeoDisjoint:
		return fmt.Sprintf("ST_Disjoint(%s, %s)", col, lit)
	default:
		return "FALSE"
	}
}

func geoWKT(v any) string {
	switch g := v.(type) {
	case geo.PointZ:
		return g.WKT()
	case geo.LineStringZ:
		return g.WKT()
	case geo.PolygonZ:
		return g.WKT()
	default:
		return ""
	}
}

// compileMultiValue handles the scalar predicates (Equals, Like, etc.)
// which accept more than one Value joined by opt.Combinator, e.g.
// status = $1 OR status = $2.
func compileMultiValue(opt FilterOption, n int) (string, []any, int) {
	sym := predicateSymbol(opt.Predicate)
	var parts []string
	var args []any
	for _, v := range opt.Values {
		parts = append(parts, fmt.Sprintf("%s %s $%d", quoteIdent(opt.Column), sym, n))
		args = append(args, v)
		n++
	}
	joiner := " AND "
	if opt.Combinator == Or {
		joiner = " OR "
	}
	cond := strings.Join(parts, joiner)
	if len(parts) > 1 {
		cond = "(" + cond + ")"
	}
	return cond, args, n
}

func predicateSymbol(p Predicate) string {
	switch p {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Like:
		return "LIKE"
	case ILike:
		return "ILIKE"
	default:
		return "="
	}
}
