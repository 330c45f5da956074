package engine

import (
	"context"
	"time"

	"github.com/aetheric-oss/svc-storage/internal/apperr"
	"github.com/aetheric-oss/svc-storage/internal/schema"
	"github.com/aetheric-oss/svc-storage/internal/search"
	"github.com/aetheric-oss/svc-storage/internal/sqlgen"
	"github.com/aetheric-oss/svc-storage/internal/validate"
)

// SimpleEngine implements create/get/update/archive/search for a
// single-key entity (vehicle, pilot, vertiport, ...). It is generic over
// def: one SimpleEngine value is constructed per entity at startup.
type SimpleEngine struct {
	Def   schema.ResourceDefinition
	Store Store

	// NewID produces the primary key for Create when the key column isn't
	// supplied by the caller. Entities key on a UUID, so the HTTP router
	// (internal/transport/http.NewRouter) wires this to uuid.New().String.
	NewID func() string
}

// Create validates src against e.Def, assigns a new key if the caller
// didn't supply one, and inserts the row.
func (e SimpleEngine) Create(ctx context.Context, src validate.Source) (search.Row, apperr.ValidationResult, error) {
	res, err := validate.Validate(e.Def, src)
	if err != nil {
		return nil, apperr.ValidationResult{}, err
	}
	if !res.Result.Success {
		return nil, res.Result, nil
	}

	key := e.Def.KeyColumns[0]
	if _, ok := res.Columns[key]; !ok && e.NewID != nil {
		res.Columns[key] = e.NewID()
	}

	if mem, ok := e.Store.(*MemoryStore); ok {
		row := make(search.Row, len(res.Columns)+1)
		for k, v := range res.Columns {
			row[k] = v
		}
		row["created_at"] = time.Now().UTC()
		row["updated_at"] = time.Now().UTC()
		mem.insertRow(e.Def.TableName, row)
		return row, res.Result, nil
	}

	stmt := sqlgen.Insert(e.Def, sqlgen.Values(res.Columns))
	row, err := e.Store.Exec(ctx, e.Def, stmt, e.Def.KeyColumns)
	return row, res.Result, err
}

// Get fetches one row by id. includeArchived controls whether a
// soft-deleted row is still visible.
func (e SimpleEngine) Get(ctx context.Context, id string, includeArchived bool) (search.Row, error) {
	key := e.Def.KeyColumns[0]
	keyValues := map[string]any{key: id}

	if mem, ok := e.Store.(*MemoryStore); ok {
		_, row, found := mem.findRow(e.Def, keyValues)
		if !found {
			return nil, apperr.NotFound(e.Def.TableName)
		}
		if !includeArchived && e.Def.HasDeletedAt() && row["deleted_at"] != nil {
			return nil, apperr.NotFound(e.Def.TableName)
		}
		return row, nil
	}

	stmt := sqlgen.SelectByKey(e.Def, keyValues, includeArchived)
	return e.Store.SelectOne(ctx, e.Def, stmt)
}

// Update applies a field mask: only the fields src actually supplies are
// written. A mandatory field src leaves absent (nil or None) is dropped
// from the definition src is validated against; supplied mandatory fields
// are bare values and optional ones Some, exactly as on Create.
func (e SimpleEngine) Update(ctx context.Context, id string, src validate.Source) (search.Row, apperr.ValidationResult, error) {
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

	key := e.Def.KeyColumns[0]
	keyValues := map[string]any{key: id}

	if mem, ok := e.Store.(*MemoryStore); ok {
		idx, row, found := mem.findRow(e.Def, keyValues)
		if !found {
			return nil, apperr.ValidationResult{}, apperr.NotFound(e.Def.TableName)
		}
		if e.Def.HasDeletedAt() && row["deleted_at"] != nil {
			return nil, apperr.ValidationResult{}, apperr.AlreadyArchived()
		}
		res.Columns["updated_at"] = time.Now().UTC()
		updated := mem.updateRow(e.Def.TableName, idx, res.Columns)
		return updated, res.Result, nil
	}

	stmt, err := sqlgen.Update(e.Def, keyValues, sqlgen.Values(res.Columns))
	if err != nil {
		return nil, apperr.ValidationResult{}, apperr.Malformed(err.Error())
	}
	_, err = e.Store.Exec(ctx, e.Def, stmt, nil)
	if err != nil {
		return nil, apperr.ValidationResult{}, err
	}
	row, err := e.Get(ctx, id, true)
	return row, res.Result, err
}

// Delete archives the row if e.Def supports soft-delete, otherwise removes
// it outright. Archiving an already-archived row returns AlreadyArchived.
func (e SimpleEngine) Delete(ctx context.Context, id string) error {
	key := e.Def.KeyColumns[0]
	keyValues := map[string]any{key: id}

	if mem, ok := e.Store.(*MemoryStore); ok {
		idx, row, found := mem.findRow(e.Def, keyValues)
		if !found {
			return apperr.NotFound(e.Def.TableName)
		}
		if e.Def.HasDeletedAt() {
			if row["deleted_at"] != nil {
				return apperr.AlreadyArchived()
			}
			mem.updateRow(e.Def.TableName, idx, map[string]any{"deleted_at": time.Now().UTC()})
			return nil
		}
		mem.deleteRowAt(e.Def.TableName, idx)
		return nil
	}

	if e.Def.HasDeletedAt() {
		stmt := sqlgen.SoftDelete(e.Def, keyValues)
		_, err := e.Store.Exec(ctx, e.Def, stmt, e.Def.KeyColumns)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				// The WHERE clause requires deleted_at IS NULL, so zero
				// rows affected means either no such row or it's already
				// archived; distinguish with an archived-inclusive lookup.
				if _, getErr := e.Get(ctx, id, true); getErr == nil {
					return apperr.AlreadyArchived()
				}
				return apperr.NotFound(e.Def.TableName)
			}
			return err
		}
		return nil
	}

	stmt := sqlgen.HardDelete(e.Def, keyValues)
	_, err := e.Store.Exec(ctx, e.Def, stmt, nil)
	return err
}

// Search runs f against e.Def.
func (e SimpleEngine) Search(ctx context.Context, f search.AdvancedSearchFilter) ([]search.Row, error) {
	return e.Store.Search(ctx, e.Def, f)
}
