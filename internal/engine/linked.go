package engine

import (
	"context"

	"github.com/aetheric-oss/svc-storage/internal/apperr"
	"github.com/aetheric-oss/svc-storage/internal/schema"
	"github.com/aetheric-oss/svc-storage/internal/search"
	"github.com/aetheric-oss/svc-storage/internal/sqlgen"
	"github.com/aetheric-oss/svc-storage/internal/validate"
)

// LinkedEngine is a SimpleEngine variant for two-key entities that still
// carry their own non-key fields, e.g. flight_plan_parcel (keyed on
// flight_plan_id + parcel_id, but also holding acquire/deliver positions).
// It never supplies its own generated key: both key columns must be
// present in the validated payload.
type LinkedEngine struct {
	Def   schema.ResourceDefinition
	Store Store
}

func (e LinkedEngine) keyValues(a, b string) map[string]any {
	return map[string]any{e.Def.KeyColumns[0]: a, e.Def.KeyColumns[1]: b}
}

// Create validates and inserts a linked row. Both key columns must be
// present as mandatory fields on src.
func (e LinkedEngine) Create(ctx context.Context, src validate.Source) (search.Row, apperr.ValidationResult, error) {
	res, err := validate.Validate(e.Def, src)
	if err != nil {
		return nil, apperr.ValidationResult{}, err
	}
	if !res.Result.Success {
		return nil, res.Result, nil
	}

	if mem, ok := e.Store.(*MemoryStore); ok {
		row := make(search.Row, len(res.Columns))
		for k, v := range res.Columns {
			row[k] = v
		}
		mem.insertRow(e.Def.TableName, row)
		return row, res.Result, nil
	}

	stmt := sqlgen.Insert(e.Def, sqlgen.Values(res.Columns))
	row, err := e.Store.Exec(ctx, e.Def, stmt, e.Def.KeyColumns)
	return row, res.Result, err
}

// Get fetches the row identified by the composite key (a, b).
func (e LinkedEngine) Get(ctx context.Context, a, b string, includeArchived bool) (search.Row, error) {
	keys := e.keyValues(a, b)

	if mem, ok := e.Store.(*MemoryStore); ok {
		_, row, found := mem.findRow(e.Def, keys)
		if !found {
			return nil, apperr.NotFound(e.Def.TableName)
		}
		return row, nil
	}

	stmt := sqlgen.SelectByKey(e.Def, keys, includeArchived)
	return e.Store.SelectOne(ctx, e.Def, stmt)
}

// Update applies a field mask to the row identified by (a, b): as in
// SimpleEngine.Update, a mandatory field src leaves absent is neither
// validated nor written.
func (e LinkedEngine) Update(ctx context.Context, a, b string, src validate.Source) (search.Row, apperr.ValidationResult, error) {
	def := e.Def
	def.FieldOrder = nil
	for _, name := range e.Def.FieldOrder {
		if v := src.GetFieldValue(name); e.Def.Fields[name].Mandatory && (v == nil || v.IsNone()) {
			continue
		}
		def.FieldOrder = append(def.FieldOrder, name)
	}
	res, err := validate.Validate(def, src)
	if err != nil {
		return nil, apperr.ValidationResult{}, err
	}
	if !res.Result.Success {
		return nil, res.Result, nil
	}
	if len(res.Columns) == 0 {
		return nil, apperr.ValidationResult{}, apperr.Malformed("update supplies no fields")
	}

	keys := e.keyValues(a, b)

	if mem, ok := e.Store.(*MemoryStore); ok {
		idx, _, found := mem.findRow(e.Def, keys)
		if !found {
			return nil, apperr.ValidationResult{}, apperr.NotFound(e.Def.TableName)
		}
		updated := mem.updateRow(e.Def.TableName, idx, res.Columns)
		return updated, res.Result, nil
	}

	stmt, err := sqlgen.Update(e.Def, keys, sqlgen.Values(res.Columns))
	if err != nil {
		return nil, apperr.ValidationResult{}, apperr.Malformed(err.Error())
	}
	if _, err := e.Store.Exec(ctx, e.Def, stmt, nil); err != nil {
		return nil, apperr.ValidationResult{}, err
	}
	row, err := e.Get(ctx, a, b, true)
	return row, res.Result, err
}

// Delete removes the linked row outright; linked resources in this
// catalog (flight_plan_parcel) have no deleted_at column.
func (e LinkedEngine) Delete(ctx context.Context, a, b string) error {
	keys := e.keyValues(a, b)

	if mem, ok := e.Store.(*MemoryStore); ok {
		idx, _, found := mem.findRow(e.Def, keys)
		if !found {
			return apperr.NotFound(e.Def.TableName)
		}
		mem.deleteRowAt(e.Def.TableName, idx)
		return nil
	}

	stmt := sqlgen.HardDelete(e.Def, keys)
	_, err := e.Store.Exec(ctx, e.Def, stmt, nil)
	return err
}

// Search runs f against e.Def.
func (e LinkedEngine) Search(ctx context.Context, f search.AdvancedSearchFilter) ([]search.Row, error) {
	return e.Store.Search(ctx, e.Def, f)
}
