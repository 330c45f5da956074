// Package schema implements the per-entity metadata registry. A
// ResourceDefinition is built once per entity at process startup (see
// internal/entities) and is read-only for the lifetime of the process,
// every other component consults it on every request but never mutates
// it, which is what keeps it safe to share across goroutines without a
// lock.
package schema

import "fmt"

// TypeTag enumerates the storage-level types a column can have.
type TypeTag int

const (
	Bool TypeTag = iota
	Int2
	Int4
	Int8
	Float4
	Float8
	Text
	Bytea
	UUID
	TimestampTZ
	AnyEnum
	PointZ
	PolygonZ
	LineStringZ
	Int8Array
	JSON
)

func (t TypeTag) String() string {
	switch t {
	case Bool:
		return "BOOL"
	case Int2:
		return "INT2"
	case Int4:
		return "INT4"
	case Int8:
		return "INT8"
	case Float4:
		return "FLOAT4"
	case Float8:
		return "FLOAT8"
	case Text:
		return "TEXT"
	case Bytea:
		return "BYTEA"
	case UUID:
		return "UUID"
	case TimestampTZ:
		return "TIMESTAMPTZ"
	case AnyEnum:
		return "ANYENUM"
	case PointZ:
		return "POINT_Z"
	case PolygonZ:
		return "POLYGON_Z"
	case LineStringZ:
		return "LINESTRING_Z"
	case Int8Array:
		return "INT8_ARRAY"
	case JSON:
		return "JSON"
	default:
		return "UNKNOWN"
	}
}

// IsGeometry reports whether values of this type are rendered as a WKT
// literal wrapped in ST_GeomFromText(...) rather than bound as a
// placeholder parameter.
func (t TypeTag) IsGeometry() bool {
	switch t {
	case PointZ, PolygonZ, LineStringZ:
		return true
	default:
		return false
	}
}

// FieldDefinition describes one column of one entity.
type FieldDefinition struct {
	Type TypeTag

	// Mandatory fields must arrive as a bare (non-Option) fieldvalue.Value;
	// a mandatory field arriving wrapped in Option is a programmer error,
	// not a validation error.
	Mandatory bool

	// Internal fields are never exposed on the wire and are server-managed
	// (created_at, updated_at, deleted_at).
	Internal bool

	// ReadOnly fields are exposed on read but rejected on write — excluded
	// from insert/update synthesis even if supplied.
	ReadOnly bool

	// DefaultSQL, if non-empty, is a literal SQL fragment used as the
	// column's DEFAULT in DDL (e.g. "CURRENT_TIMESTAMP", "'DRAFT'").
	DefaultSQL string
}

// EnumDecoder maps the wire integer representation of an enum column to its
// canonical uppercase string. The registry's decoder is the single source
// of truth for this mapping.
type EnumDecoder func(value int32) (string, bool)

// ResourceDefinition is the immutable, per-entity metadata record held by
// the Registry.
type ResourceDefinition struct {
	TableName string

	// KeyColumns is ordered: one column for a simple resource, two for a
	// linked resource / link table (A's column first, then B's).
	KeyColumns []string

	// Fields maps column name -> definition. FieldOrder preserves
	// declaration order so SQL synthesis iterates the column list
	// deterministically.
	Fields     map[string]FieldDefinition
	FieldOrder []string

	// IndicesDDL holds any CREATE INDEX / ADD CONSTRAINT statements beyond
	// the implicit primary key, run once at migration time.
	IndicesDDL []string

	// EnumDecoders maps a column name to its EnumDecoder, for every
	// AnyEnum-typed column in Fields.
	EnumDecoders map[string]EnumDecoder
}

// HasField reports whether name is a declared column.
func (d ResourceDefinition) HasField(name string) bool {
	_, ok := d.Fields[name]
	return ok
}

// GetField returns the definition for name, or an error if it is not a
// declared column of this entity.
func (d ResourceDefinition) GetField(name string) (FieldDefinition, error) {
	f, ok := d.Fields[name]
	if !ok {
		return FieldDefinition{}, fmt.Errorf("schema: %q has no field %q", d.TableName, name)
	}
	return f, nil
}

// HasDeletedAt reports whether this entity supports soft-delete: the
// policy is expressed entirely by the presence of a "deleted_at" column
// marked Internal.
func (d ResourceDefinition) HasDeletedAt() bool {
	f, ok := d.Fields["deleted_at"]
	return ok && f.Internal
}

// IsLinked reports whether this entity has a two-column composite key.
func (d ResourceDefinition) IsLinked() bool {
	return len(d.KeyColumns) == 2
}

// EnumString resolves the canonical uppercase string for an enum column's
// integer wire value, using the registry's decoder for that column.
func (d ResourceDefinition) EnumString(column string, value int32) (string, bool) {
	dec, ok := d.EnumDecoders[column]
	if !ok {
		return "", false
	}
	return dec(value)
}

// Registry holds one ResourceDefinition per entity, keyed by a short entity
// name (e.g. "vehicle", "flight_plan_parcel"). It is built once at startup
// via NewRegistry and is never mutated afterward.
type Registry struct {
	defs map[string]ResourceDefinition
}

// NewRegistry constructs a Registry from a fixed set of entity definitions.
// It is not a package-level singleton: entities.Registry() builds one on
// each call, and the HTTP router asks it for the link tables' definitions.
func NewRegistry(defs map[string]ResourceDefinition) *Registry {
	out := make(map[string]ResourceDefinition, len(defs))
	for k, v := range defs {
		out[k] = v
	}
	return &Registry{defs: out}
}

// Definition returns the ResourceDefinition registered under name.
func (r *Registry) Definition(name string) (ResourceDefinition, error) {
	d, ok := r.defs[name]
	if !ok {
		return ResourceDefinition{}, fmt.Errorf("schema: no resource registered under %q", name)
	}
	return d, nil
}

// Names returns every registered entity name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.defs))
	for k := range r.defs {
		out = append(out, k)
	}
	return out
}
