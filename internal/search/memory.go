package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aetheric-oss/svc-storage/internal/geo"
)

// Row is one in-memory record, column name -> value, the shape the
// in-memory fallback store in internal/engine keeps its rows in.
type Row map[string]any

// Evaluate applies f to rows directly, without going through SQL. This is
// the fallback path used when an engine has no live database connection
// (internal/engine's in-memory store), and must produce results consistent
// with what Compile would have asked a real database for.
func Evaluate(rows []Row, f AdvancedSearchFilter, hasDeletedAt bool) ([]Row, error) {
	var out []Row
	for _, r := range rows {
		if !f.IncludeArchived && hasDeletedAt {
			if v, ok := r["deleted_at"]; ok && v != nil {
				continue
			}
		}
		match, err := matchAll(r, f.Filters)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, r)
		}
	}

	if len(f.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return lessBySort(out[i], out[j], f.Sort)
		})
	}

	if f.Limit > 0 {
		start := int(f.Offset)
		if start > len(out) {
			start = len(out)
		}
		end := start + int(f.Limit)
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}

	return out, nil
}

// matchAll folds every FilterOption against row left to right: option i's
// Combinator says how its result joins the accumulated result of options
// before it, mirroring Compile's ((a OR b) AND c)-style chaining so the
// in-memory evaluator agrees with the compiled-SQL path on mixed And/Or
// filter sets.
func matchAll(row Row, opts []FilterOption) (bool, error) {
	if len(opts) == 0 {
		return true, nil
	}

	result, err := matchOption(row[opts[0].Column], opts[0])
	if err != nil {
		return false, err
	}

	for _, opt := range opts[1:] {
		ok, err := matchOption(row[opt.Column], opt)
		if err != nil {
			return false, err
		}
		if opt.Combinator == Or {
			result = result || ok
		} else {
			result = result && ok
		}
	}
	return result, nil
}

func matchOption(field any, opt FilterOption) (bool, error) {
	switch opt.Predicate {
	case IsNull:
		return field == nil, nil
	case IsNotNull:
		return field != nil, nil
	case In:
		for _, v := range opt.Values {
			if equal(field, v) {
				return true, nil
			}
		}
		return false, nil
	case NotIn:
		for _, v := range opt.Values {
			if equal(field, v) {
				return false, nil
			}
		}
		return true, nil
	case Between:
		if len(opt.Values) != 2 {
			return false, fmt.Errorf("search: Between requires exactly 2 values")
		}
		return compare(field, opt.Values[0]) >= 0 && compare(field, opt.Values[1]) <= 0, nil
	case GeoIntersect, GeoWithin, GeoDisjoint:
		if len(opt.Values) == 0 {
			return false, nil
		}
		return matchGeoPredicate(field, opt.Predicate, opt.Values[0]), nil
	default:
		return matchMultiValue(field, opt)
	}
}

// matchGeoPredicate approximates a spatial predicate with a bounding-box
// test; see geo.BBox for why this is an approximation rather than exact
// geometry, acceptable for the in-memory fallback store.
func matchGeoPredicate(field any, p Predicate, v any) bool {
	fb, ok := geoBBox(field)
	if !ok {
		return false
	}
	vb, ok := geoBBox(v)
	if !ok {
		return false
	}
	switch p {
	case GeoIntersect:
		return fb.Intersects(vb)
	case GeoWithin:
		return fb.Within(vb)
	case GeoDisjoint:
		return !fb.Intersects(vb)
	default:
		return false
	}
}

func geoBBox(v any) (geo.BBox, bool) {
	switch g := v.(type) {
	case geo.PointZ:
		return g.BBox(), true
	case geo.LineStringZ:
		return g.BBox(), true
	case geo.PolygonZ:
		return g.BBox(), true
	default:
		return geo.BBox{}, false
	}
}

func matchMultiValue(field any, opt FilterOption) (bool, error) {
	results := make([]bool, len(opt.Values))
	for i, v := range opt.Values {
		results[i] = matchScalar(field, opt.Predicate, v)
	}
	if opt.Combinator == Or {
		for _, r := range results {
			if r {
				return true, nil
			}
		}
		return false, nil
	}
	for _, r := range results {
		if !r {
			return false, nil
		}
	}
	return true, nil
}

func matchScalar(field any, p Predicate, v any) bool {
	switch p {
	case Equals:
		return equal(field, v)
	case NotEquals:
		return !equal(field, v)
	case GreaterThan:
		return compare(field, v) > 0
	case GreaterThanOrEqual:
		return compare(field, v) >= 0
	case LessThan:
		return compare(field, v) < 0
	case LessThanOrEqual:
		return compare(field, v) <= 0
	case Like, ILike:
		fs, okf := field.(string)
		vs, okv := v.(string)
		if !okf || !okv {
			return false
		}
		pattern := strings.ReplaceAll(vs, "%", "")
		if p == ILike {
			return strings.Contains(strings.ToLower(fs), strings.ToLower(pattern))
		}
		return strings.Contains(fs, pattern)
	case Contains, Overlaps:
		return containsAny(field, v)
	default:
		return false
	}
}

func containsAny(field, v any) bool {
	list, ok := field.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if equal(item, v) {
			return true
		}
	}
	return false
}

func equal(a, b any) bool {
	return compare(a, b) == 0
}

// compare does a best-effort ordering across the scalar types that show up
// in entity column values (numbers, strings, comparable times). Values
// that can't be compared are treated as unequal in a stable but arbitrary
// direction; callers should never hand us mixed types for the same column.
func compare(a, b any) int {
	switch av := a.(type) {
	case int64:
		bv, _ := toInt64(b)
		return cmpInt64(av, bv)
	case int32:
		bv, _ := toInt64(b)
		return cmpInt64(int64(av), bv)
	case int:
		bv, _ := toInt64(b)
		return cmpInt64(int64(av), bv)
	case float64:
		bv, _ := toFloat64(b)
		return cmpFloat64(av, bv)
	case string:
		bv, ok := b.(string)
		if !ok {
			return -1
		}
		return strings.Compare(av, bv)
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return -1
		}
		if av == bv {
			return 0
		}
		if av {
			return 1
		}
		return -1
	default:
		if fmt.Sprint(a) == fmt.Sprint(b) {
			return 0
		}
		return -1
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func lessBySort(a, b Row, sorts []SortOption) bool {
	for _, s := range sorts {
		c := compare(a[s.Column], b[s.Column])
		if c == 0 {
			continue
		}
		if s.Direction == Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}
