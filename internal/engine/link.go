package engine

import (
	"context"

	"github.com/aetheric-oss/svc-storage/internal/apperr"
	"github.com/aetheric-oss/svc-storage/internal/schema"
	"github.com/aetheric-oss/svc-storage/internal/search"
	"github.com/aetheric-oss/svc-storage/internal/sqlgen"
)

// LinkEngine implements the pure link-table operations: link, unlink,
// replace_linked (a single atomic swap of every row for one side of the
// key), and the two read shapes (ids only, resolved B-side objects). Pure
// link tables (itinerary_flight_plan, user_group, vehicle_group,
// vertiport_group, vertipad_group) have no fields of their own beyond the
// two key columns.
type LinkEngine struct {
	Def   schema.ResourceDefinition
	Store Store

	// ResolveB fetches the full B-side entity row by id, used by GetLinked
	// to turn link rows into real objects instead of bare ids. Left nil for
	// call sites that only need Link/Unlink/ReplaceLinked/GetLinkedIDs.
	ResolveB func(ctx context.Context, id string, includeArchived bool) (search.Row, error)
}

// Link inserts one (a, b) pair. Re-linking an existing pair is idempotent:
// the insert is skipped rather than erroring.
func (e LinkEngine) Link(ctx context.Context, a, b string) error {
	keys := e.keyValues(a, b)

	if mem, ok := e.Store.(*MemoryStore); ok {
		if _, _, found := mem.findRow(e.Def, keys); found {
			return nil
		}
		mem.insertRow(e.Def.TableName, search.Row{
			e.Def.KeyColumns[0]: a,
			e.Def.KeyColumns[1]: b,
		})
		return nil
	}

	existing, err := e.Store.Search(ctx, e.Def, search.AdvancedSearchFilter{
		Filters: []search.FilterOption{
			{Column: e.Def.KeyColumns[0], Predicate: search.Equals, Values: []any{a}},
			{Column: e.Def.KeyColumns[1], Predicate: search.Equals, Values: []any{b}},
		},
		IncludeArchived: true,
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	stmt := sqlgen.Insert(e.Def, sqlgen.Values{
		e.Def.KeyColumns[0]: a,
		e.Def.KeyColumns[1]: b,
	})
	_, err = e.Store.Exec(ctx, e.Def, stmt, nil)
	return err
}

// Unlink removes the (a, b) pair, if present.
func (e LinkEngine) Unlink(ctx context.Context, a, b string) error {
	keys := e.keyValues(a, b)

	if mem, ok := e.Store.(*MemoryStore); ok {
		idx, _, found := mem.findRow(e.Def, keys)
		if !found {
			return nil
		}
		mem.deleteRowAt(e.Def.TableName, idx)
		return nil
	}

	stmt := sqlgen.HardDelete(e.Def, keys)
	_, err := e.Store.Exec(ctx, e.Def, stmt, nil)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil
	}
	return err
}

// ReplaceLinked replaces every row keyed on a's side of the table with
// exactly the set of b values given, inside Store.WithTx. On SQLStore that
// is a single transaction, so readers never observe a partial link set;
// MemoryStore.WithTx runs the unlinks and links one at a time with no
// isolation, so a concurrent reader there can see an intermediate set.
func (e LinkEngine) ReplaceLinked(ctx context.Context, a string, bs []string) error {
	return e.Store.WithTx(ctx, func(tx Store) error {
		txEngine := LinkEngine{Def: e.Def, Store: tx}
		current, err := txEngine.GetLinkedIDs(ctx, a)
		if err != nil {
			return err
		}

		want := make(map[string]bool, len(bs))
		for _, b := range bs {
			want[b] = true
		}
		have := make(map[string]bool, len(current))
		for _, b := range current {
			have[b] = true
		}

		for _, b := range current {
			if !want[b] {
				if err := txEngine.Unlink(ctx, a, b); err != nil {
					return err
				}
			}
		}
		for _, b := range bs {
			if !have[b] {
				if err := txEngine.Link(ctx, a, b); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// GetLinkedIDs returns every b value linked to a.
func (e LinkEngine) GetLinkedIDs(ctx context.Context, a string) ([]string, error) {
	rows, err := e.getLinkedRows(ctx, a)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[e.Def.KeyColumns[1]].(string))
	}
	return out, nil
}

// GetLinked resolves every b-side entity linked to a via ResolveB, rather
// than returning the link table's own rows (which, for a pure link table,
// only ever hold the two key columns anyway). A linked id that no longer
// resolves (deleted, or never loaded) is skipped rather than failing the
// whole call.
func (e LinkEngine) GetLinked(ctx context.Context, a string) ([]search.Row, error) {
	if e.ResolveB == nil {
		return nil, apperr.SchemaMismatchf("engine: %s has no ResolveB wired for GetLinked", e.Def.TableName)
	}

	ids, err := e.GetLinkedIDs(ctx, a)
	if err != nil {
		return nil, err
	}

	out := make([]search.Row, 0, len(ids))
	for _, id := range ids {
		row, err := e.ResolveB(ctx, id, false)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (e LinkEngine) getLinkedRows(ctx context.Context, a string) ([]search.Row, error) {
	f := search.AdvancedSearchFilter{
		Filters: []search.FilterOption{{
			Column:    e.Def.KeyColumns[0],
			Predicate: search.Equals,
			Values:    []any{a},
		}},
		IncludeArchived: true,
	}
	return e.Store.Search(ctx, e.Def, f)
}

func (e LinkEngine) keyValues(a, b string) map[string]any {
	return map[string]any{e.Def.KeyColumns[0]: a, e.Def.KeyColumns[1]: b}
}
