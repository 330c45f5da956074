// Package validate converts a typed entity payload into a column -> typed
// value map, accumulating every field error rather than short-circuiting
// on the first one.
package validate

import (
	"fmt"

	"github.com/aetheric-oss/svc-storage/internal/apperr"
	"github.com/aetheric-oss/svc-storage/internal/fieldvalue"
	"github.com/aetheric-oss/svc-storage/internal/geo"
	"github.com/aetheric-oss/svc-storage/internal/schema"
)

// Source is what an entity payload must provide to be validated: a way to
// fetch the raw fieldvalue.Value for a named column. internal/entities
// payload types implement this directly.
type Source interface {
	GetFieldValue(name string) fieldvalue.Value
}

// ColumnValues is the validator's output: column name -> the typed Go
// value ready for C4 (sqlgen) to bind or inline.
type ColumnValues map[string]any

// Result bundles the column map with the accumulated ValidationResult.
type Result struct {
	Columns ColumnValues
	Result  apperr.ValidationResult
}

// Validate walks def's fields in declaration order, skipping internal and
// read-only fields, and returns the column value map plus the accumulated
// validation result.
//
// A mandatory field that arrives wrapped in Option, or an optional field
// that arrives bare, is a programmer error and is returned as a
// *apperr.Error of KindSchemaMismatch rather than folded into the
// ValidationResult, the caller (internal/engine) should treat a non-nil
// error here as a 500-class failure, not a validation failure.
func Validate(def schema.ResourceDefinition, src Source) (Result, error) {
	cols := make(ColumnValues)
	var errs []apperr.FieldError

	for _, name := range def.FieldOrder {
		f := def.Fields[name]
		if f.Internal || f.ReadOnly {
			continue
		}

		raw := src.GetFieldValue(name)
		opt, isOption := raw.(fieldvalue.OptionValue)

		if f.Mandatory {
			if isOption {
				return Result{}, apperr.SchemaMismatchf(
					"field %q is declared mandatory but arrived as Option", name)
			}
		} else {
			if !isOption {
				return Result{}, apperr.SchemaMismatchf(
					"field %q is declared optional but arrived as a bare value", name)
			}
			if opt.IsNone() {
				// Optional + absent: skip, no column emitted.
				continue
			}
			raw = opt.Inner
		}

		val, fieldErrs := validateField(name, f.Type, raw, def)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		cols[name] = val
	}

	return Result{Columns: cols, Result: apperr.NewValidationResult(errs)}, nil
}

func validateField(name string, tag schema.TypeTag, v fieldvalue.Value, def schema.ResourceDefinition) (any, []apperr.FieldError) {
	switch tag {
	case schema.UUID:
		s := v.AsString()
		id, err := parseUUID(s)
		if err != nil {
			return nil, []apperr.FieldError{{Field: name, Error: fmt.Sprintf("Could not convert [%s] to UUID: %v", s, err)}}
		}
		return id, nil

	case schema.TimestampTZ:
		ts := v.AsTimestamp()
		if ts.Unix() < 0 {
			return nil, []apperr.FieldError{{Field: name, Error: fmt.Sprintf("Could not convert [%s] to DateTime: %v", name, ts)}}
		}
		return ts, nil

	case schema.AnyEnum:
		raw := int32(v.AsI64())
		str, ok := def.EnumString(name, raw)
		if !ok {
			return nil, []apperr.FieldError{{Field: name, Error: fmt.Sprintf("Could not convert enum [%s] to string: value %d not found", name, raw)}}
		}
		return str, nil

	case schema.PointZ:
		p, ok := v.AsPointZ()
		if !ok {
			return nil, []apperr.FieldError{{Field: name, Error: fmt.Sprintf("Could not convert [%s] to POINT_Z: wrong variant", name)}}
		}
		var errs []apperr.FieldError
		errs = append(errs, validatePoint(name, p)...)
		if len(errs) > 0 {
			return nil, errs
		}
		return p, nil

	case schema.LineStringZ:
		l, ok := v.AsLineStringZ()
		if !ok {
			return nil, []apperr.FieldError{{Field: name, Error: fmt.Sprintf("Could not convert [%s] to LINESTRING_Z: wrong variant", name)}}
		}
		errs := validateLineString(name, l)
		if len(errs) > 0 {
			return nil, errs
		}
		return l, nil

	case schema.PolygonZ:
		poly, ok := v.AsPolygonZ()
		if !ok {
			return nil, []apperr.FieldError{{Field: name, Error: fmt.Sprintf("Could not convert [%s] to POLYGON_Z: wrong variant", name)}}
		}
		errs := validatePolygon(name, poly)
		if len(errs) > 0 {
			return nil, errs
		}
		return poly, nil

	case schema.Bool:
		return v.AsBool(), nil
	case schema.Int2:
		return v.AsI16(), nil
	case schema.Int4:
		return v.AsI32(), nil
	case schema.Int8:
		return v.AsI64(), nil
	case schema.Float4:
		return v.AsF32(), nil
	case schema.Float8:
		return v.AsF64(), nil
	case schema.Text:
		return v.AsString(), nil
	case schema.Bytea:
		return v.AsBytes(), nil
	case schema.Int8Array:
		return v.AsI64List(), nil
	case schema.JSON:
		return v.AsI64List(), nil
	default:
		return nil, []apperr.FieldError{{Field: name, Error: fmt.Sprintf("unsupported field type for %q", name)}}
	}
}

// validatePoint checks longitude in [-180,180] and latitude in [-90,90].
// Each out-of-range axis yields its own FieldError.
func validatePoint(field string, p geo.PointZ) []apperr.FieldError {
	var errs []apperr.FieldError
	if !geo.ValidateLongitude(p.X) {
		errs = append(errs, apperr.FieldError{
			Field: field,
			Error: fmt.Sprintf("Could not convert [%s] to POINT: The provided value contains an invalid Long value, [%v] is out of range.", field, p.X),
		})
	}
	if !geo.ValidateLatitude(p.Y) {
		errs = append(errs, apperr.FieldError{
			Field: field,
			Error: fmt.Sprintf("Could not convert [%s] to POINT: The provided value contains an invalid Lat value, [%v] is out of range.", field, p.Y),
		})
	}
	return errs
}

// validateLineString checks that there are at least 2 points and every
// point is valid.
func validateLineString(field string, l geo.LineStringZ) []apperr.FieldError {
	var errs []apperr.FieldError
	if len(l.Points) < 2 {
		errs = append(errs, apperr.FieldError{
			Field: field,
			Error: fmt.Sprintf("Could not convert [%s] to LINESTRING: needs at least 2 points, found %d", field, len(l.Points)),
		})
	}
	for _, p := range l.Points {
		errs = append(errs, validatePoint(field, p)...)
	}
	return errs
}

// validatePolygon checks that there is at least one ring, every ring has
// >= 4 points and is closed, and every point is valid.
func validatePolygon(field string, poly geo.PolygonZ) []apperr.FieldError {
	var errs []apperr.FieldError
	if len(poly.Rings) == 0 {
		errs = append(errs, apperr.FieldError{
			Field: field,
			Error: fmt.Sprintf("Could not convert [%s] to POLYGON: contains no rings.", field),
		})
	}
	for _, ring := range poly.Rings {
		if len(ring.Points) < 4 {
			errs = append(errs, apperr.FieldError{
				Field: field,
				Error: fmt.Sprintf("Could not convert [%s] to POLYGON: a ring does not have enough points (need >= 4, found %d).", field, len(ring.Points)),
			})
		} else if !ring.Closed() {
			errs = append(errs, apperr.FieldError{
				Field: field,
				Error: fmt.Sprintf("Could not convert [%s] to POLYGON: a ring is not closed.", field),
			})
		}
		errs = append(errs, validateLineString(field, ring)...)
	}
	return errs
}
