// Package fieldvalue implements the tagged-value protocol that is the sole
// bridge between typed entity payloads and the storage layer. Every entity
// payload in internal/entities implements GetFieldValue(name) and returns
// one of the concrete types defined here.
//
// Coercions between variants are total and live on the type itself rather
// than in switch statements scattered across call sites.
package fieldvalue

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aetheric-oss/svc-storage/internal/geo"
)

// Value is the closed sum type. Only the concrete types defined in this
// file implement it; the unexported marker method prevents other packages
// from adding variants, which would defeat the closed-union contract.
type Value interface {
	fieldValue()

	// AsString renders the value for text columns / LIKE comparisons. For
	// the String variant this is the string itself, for Timestamp an
	// RFC3339 string, for the geometry variants their WKT, and for Option
	// the inner value's rendering ("" for None); the remaining variants
	// give a debug-style "Tag(value)" rendering, not a parseable scalar.
	AsString() string
	AsBytes() []byte
	AsBool() bool
	AsI16() int16
	AsI32() int32
	AsI64() int64
	AsU32() uint32
	AsF32() float32
	AsF64() float64
	// AsTimestamp returns the wrapped time for the Timestamp variant, or
	// time.Now().UTC() for every other variant, a fallback that is only
	// safe to rely on for read paths, never for write paths.
	AsTimestamp() time.Time
	AsStringList() []string
	AsI64List() []int64
	AsU32List() []uint32
	AsPointZ() (geo.PointZ, bool)
	AsLineStringZ() (geo.LineStringZ, bool)
	AsPolygonZ() (geo.PolygonZ, bool)

	// IsNone reports whether this value represents an absent optional
	// field (Option wrapping nil, or the bare None variant).
	IsNone() bool
}

// base provides zero-value implementations of every accessor so each
// concrete variant only has to override the handful that mean something
// for it. This is what makes the coercion table total without repeating
// seventeen no-op methods per variant.
type base struct{}

func (base) fieldValue()                                  {}
func (base) AsString() string                              { return "" }
func (base) AsBytes() []byte                                { return nil }
func (base) AsBool() bool                                   { return false }
func (base) AsI16() int16                                   { return 0 }
func (base) AsI32() int32                                   { return 0 }
func (base) AsI64() int64                                   { return 0 }
func (base) AsU32() uint32                                  { return 0 }
func (base) AsF32() float32                                 { return 0 }
func (base) AsF64() float64                                 { return 0 }
func (base) AsTimestamp() time.Time                         { return time.Now().UTC() }
func (base) AsStringList() []string                         { return nil }
func (base) AsI64List() []int64                             { return nil }
func (base) AsU32List() []uint32                            { return nil }
func (base) AsPointZ() (geo.PointZ, bool)                   { return geo.PointZ{}, false }
func (base) AsLineStringZ() (geo.LineStringZ, bool)         { return geo.LineStringZ{}, false }
func (base) AsPolygonZ() (geo.PolygonZ, bool)               { return geo.PolygonZ{}, false }
func (base) IsNone() bool                                   { return false }

func debugString(tag string, v any) string { return fmt.Sprintf("%s(%v)", tag, v) }

// --- Bytes ---

type BytesValue struct {
	base
	V []byte
}

func Bytes(v []byte) Value { return BytesValue{V: v} }

func (v BytesValue) AsBytes() []byte    { return v.V }
func (v BytesValue) AsString() string   { return debugString("Bytes", v.V) }
func (v BytesValue) AsStringList() []string { return []string{v.AsString()} }

// --- String ---

type StringValue struct {
	base
	V string
}

func String(v string) Value { return StringValue{V: v} }

func (v StringValue) AsString() string       { return v.V }
func (v StringValue) AsBytes() []byte        { return []byte(v.V) }
func (v StringValue) AsStringList() []string { return []string{v.V} }
func (v StringValue) AsI64() int64 {
	n, err := strconv.ParseInt(v.V, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
func (v StringValue) AsI32() int32 { return int32(v.AsI64()) }
func (v StringValue) AsI16() int16 { return int16(v.AsI64()) }
func (v StringValue) AsU32() uint32 {
	n, err := strconv.ParseUint(v.V, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}
func (v StringValue) AsF64() float64 {
	f, err := strconv.ParseFloat(v.V, 64)
	if err != nil {
		return 0
	}
	return f
}
func (v StringValue) AsF32() float32 { return float32(v.AsF64()) }
func (v StringValue) AsBool() bool {
	b, err := strconv.ParseBool(v.V)
	return err == nil && b
}

// --- I16 ---

type I16Value struct {
	base
	V int16
}

func I16(v int16) Value { return I16Value{V: v} }

func (v I16Value) AsI16() int16       { return v.V }
func (v I16Value) AsI32() int32       { return int32(v.V) }
func (v I16Value) AsI64() int64       { return int64(v.V) }
func (v I16Value) AsF32() float32     { return float32(v.V) }
func (v I16Value) AsF64() float64     { return float64(v.V) }
func (v I16Value) AsString() string   { return debugString("I16", v.V) }
func (v I16Value) AsStringList() []string { return []string{v.AsString()} }

// --- I32 ---

type I32Value struct {
	base
	V int32
}

func I32(v int32) Value { return I32Value{V: v} }

func (v I32Value) AsI32() int32       { return v.V }
func (v I32Value) AsI64() int64       { return int64(v.V) }
func (v I32Value) AsI16() int16       { return int16(v.V) }
func (v I32Value) AsF32() float32     { return float32(v.V) }
func (v I32Value) AsF64() float64     { return float64(v.V) }
func (v I32Value) AsString() string   { return debugString("I32", v.V) }
func (v I32Value) AsStringList() []string { return []string{v.AsString()} }

// --- I64 ---

type I64Value struct {
	base
	V int64
}

func I64(v int64) Value { return I64Value{V: v} }

func (v I64Value) AsI64() int64       { return v.V }
func (v I64Value) AsI32() int32       { return int32(v.V) }
func (v I64Value) AsI16() int16       { return int16(v.V) }
func (v I64Value) AsF64() float64     { return float64(v.V) }
func (v I64Value) AsF32() float32     { return float32(v.V) }
func (v I64Value) AsString() string   { return debugString("I64", v.V) }
func (v I64Value) AsStringList() []string { return []string{v.AsString()} }

// --- U32 ---

type U32Value struct {
	base
	V uint32
}

func U32(v uint32) Value { return U32Value{V: v} }

func (v U32Value) AsU32() uint32      { return v.V }
func (v U32Value) AsI64() int64       { return int64(v.V) }
func (v U32Value) AsI32() int32       { return int32(v.V) }
func (v U32Value) AsF64() float64     { return float64(v.V) }
func (v U32Value) AsString() string   { return debugString("U32", v.V) }
func (v U32Value) AsStringList() []string { return []string{v.AsString()} }

// --- F32 ---

type F32Value struct {
	base
	V float32
}

func F32(v float32) Value { return F32Value{V: v} }

func (v F32Value) AsF32() float32     { return v.V }
func (v F32Value) AsF64() float64     { return float64(v.V) }
func (v F32Value) AsI64() int64       { return int64(v.V) }
func (v F32Value) AsString() string   { return debugString("F32", v.V) }
func (v F32Value) AsStringList() []string { return []string{v.AsString()} }

// --- F64 ---

type F64Value struct {
	base
	V float64
}

func F64(v float64) Value { return F64Value{V: v} }

func (v F64Value) AsF64() float64     { return v.V }
func (v F64Value) AsF32() float32     { return float32(v.V) }
func (v F64Value) AsI64() int64       { return int64(v.V) }
func (v F64Value) AsString() string   { return debugString("F64", v.V) }
func (v F64Value) AsStringList() []string { return []string{v.AsString()} }

// --- Bool ---

type BoolValue struct {
	base
	V bool
}

func Bool(v bool) Value { return BoolValue{V: v} }

func (v BoolValue) AsBool() bool      { return v.V }
func (v BoolValue) AsI64() int64 {
	if v.V {
		return 1
	}
	return 0
}
func (v BoolValue) AsString() string   { return debugString("Bool", v.V) }
func (v BoolValue) AsStringList() []string { return []string{v.AsString()} }

// --- Timestamp ---

type TimestampValue struct {
	base
	V time.Time
}

func Timestamp(v time.Time) Value { return TimestampValue{V: v} }

func (v TimestampValue) AsTimestamp() time.Time { return v.V }
func (v TimestampValue) AsI64() int64           { return v.V.Unix() }
func (v TimestampValue) AsString() string       { return v.V.UTC().Format(time.RFC3339) }
func (v TimestampValue) AsStringList() []string { return []string{v.AsString()} }

// --- Geometry ---

type PointZValue struct {
	base
	V geo.PointZ
}

func PointZ(v geo.PointZ) Value { return PointZValue{V: v} }

func (v PointZValue) AsPointZ() (geo.PointZ, bool) { return v.V, true }
func (v PointZValue) AsString() string             { return v.V.WKT() }

type LineStringZValue struct {
	base
	V geo.LineStringZ
}

func LineStringZ(v geo.LineStringZ) Value { return LineStringZValue{V: v} }

func (v LineStringZValue) AsLineStringZ() (geo.LineStringZ, bool) { return v.V, true }
func (v LineStringZValue) AsString() string                       { return v.V.WKT() }

type PolygonZValue struct {
	base
	V geo.PolygonZ
}

func PolygonZ(v geo.PolygonZ) Value { return PolygonZValue{V: v} }

func (v PolygonZValue) AsPolygonZ() (geo.PolygonZ, bool) { return v.V, true }
func (v PolygonZValue) AsString() string                 { return v.V.WKT() }

// --- Lists ---

type I64ListValue struct {
	base
	V []int64
}

func I64List(v []int64) Value { return I64ListValue{V: v} }

func (v I64ListValue) AsI64List() []int64 { return v.V }
func (v I64ListValue) AsString() string   { return debugString("I64List", v.V) }

type U32ListValue struct {
	base
	V []uint32
}

func U32List(v []uint32) Value { return U32ListValue{V: v} }

func (v U32ListValue) AsU32List() []uint32 { return v.V }
func (v U32ListValue) AsString() string    { return debugString("U32List", v.V) }

type StringListValue struct {
	base
	V []string
}

func StringList(v []string) Value { return StringListValue{V: v} }

func (v StringListValue) AsStringList() []string { return v.V }
func (v StringListValue) AsString() string        { return debugString("StringList", v.V) }

// --- Option / None ---

// OptionValue wraps an optional field. Inner == nil represents None.
type OptionValue struct {
	base
	Inner Value
}

// Some wraps a present optional value.
func Some(v Value) Value { return OptionValue{Inner: v} }

// None represents an absent optional value with no known inner type.
func None() Value { return OptionValue{Inner: nil} }

func (v OptionValue) IsNone() bool { return v.Inner == nil }

func (v OptionValue) AsString() string {
	if v.Inner == nil {
		return ""
	}
	return v.Inner.AsString()
}
func (v OptionValue) AsBytes() []byte {
	if v.Inner == nil {
		return nil
	}
	return v.Inner.AsBytes()
}
func (v OptionValue) AsBool() bool {
	if v.Inner == nil {
		return false
	}
	return v.Inner.AsBool()
}
func (v OptionValue) AsI16() int16 {
	if v.Inner == nil {
		return 0
	}
	return v.Inner.AsI16()
}
func (v OptionValue) AsI32() int32 {
	if v.Inner == nil {
		return 0
	}
	return v.Inner.AsI32()
}
func (v OptionValue) AsI64() int64 {
	if v.Inner == nil {
		return 0
	}
	return v.Inner.AsI64()
}
func (v OptionValue) AsU32() uint32 {
	if v.Inner == nil {
		return 0
	}
	return v.Inner.AsU32()
}
func (v OptionValue) AsF32() float32 {
	if v.Inner == nil {
		return 0
	}
	return v.Inner.AsF32()
}
func (v OptionValue) AsF64() float64 {
	if v.Inner == nil {
		return 0
	}
	return v.Inner.AsF64()
}
func (v OptionValue) AsTimestamp() time.Time {
	if v.Inner == nil {
		return time.Now().UTC()
	}
	return v.Inner.AsTimestamp()
}
func (v OptionValue) AsStringList() []string {
	if v.Inner == nil {
		return nil
	}
	return v.Inner.AsStringList()
}
func (v OptionValue) AsI64List() []int64 {
	if v.Inner == nil {
		return nil
	}
	return v.Inner.AsI64List()
}
func (v OptionValue) AsU32List() []uint32 {
	if v.Inner == nil {
		return nil
	}
	return v.Inner.AsU32List()
}
func (v OptionValue) AsPointZ() (geo.PointZ, bool) {
	if v.Inner == nil {
		return geo.PointZ{}, false
	}
	return v.Inner.AsPointZ()
}
func (v OptionValue) AsLineStringZ() (geo.LineStringZ, bool) {
	if v.Inner == nil {
		return geo.LineStringZ{}, false
	}
	return v.Inner.AsLineStringZ()
}
func (v OptionValue) AsPolygonZ() (geo.PolygonZ, bool) {
	if v.Inner == nil {
		return geo.PolygonZ{}, false
	}
	return v.Inner.AsPolygonZ()
}
