package validate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetheric-oss/svc-storage/internal/fieldvalue"
	"github.com/aetheric-oss/svc-storage/internal/geo"
	"github.com/aetheric-oss/svc-storage/internal/schema"
)

type fakeSource map[string]fieldvalue.Value

func (f fakeSource) GetFieldValue(name string) fieldvalue.Value { return f[name] }

func widgetDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "widget",
		KeyColumns: []string{"widget_id"},
		Fields: map[string]schema.FieldDefinition{
			"widget_id":  {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"name":       {Type: schema.Text, Mandatory: true},
			"status":     {Type: schema.AnyEnum, Mandatory: true},
			"location":   {Type: schema.PointZ},
			"created_at": {Type: schema.TimestampTZ, Internal: true},
		},
		FieldOrder: []string{"widget_id", "name", "status", "location", "created_at"},
		EnumDecoders: map[string]schema.EnumDecoder{
			"status": func(v int32) (string, bool) {
				if v == 0 {
					return "DRAFT", true
				}
				return "", false
			},
		},
	}
}

func TestValidateSkipsInternalAndReadOnly(t *testing.T) {
	def := widgetDef()
	id := uuid.New()
	src := fakeSource{
		"widget_id":  fieldvalue.String(id.String()),
		"name":       fieldvalue.String("thing"),
		"status":     fieldvalue.I32(0),
		"location":   fieldvalue.None(),
		"created_at": fieldvalue.Timestamp(time.Now()),
	}
	res, err := Validate(def, src)
	require.NoError(t, err)
	assert.True(t, res.Result.Success)
	_, hasID := res.Columns["widget_id"]
	assert.False(t, hasID)
	_, hasCreated := res.Columns["created_at"]
	assert.False(t, hasCreated)
	assert.Equal(t, "thing", res.Columns["name"])
	assert.Equal(t, "DRAFT", res.Columns["status"])
}

func TestValidateMandatoryAsOptionIsSchemaMismatch(t *testing.T) {
	def := widgetDef()
	src := fakeSource{
		"name":     fieldvalue.Some(fieldvalue.String("thing")),
		"status":   fieldvalue.I32(0),
		"location": fieldvalue.None(),
	}
	_, err := Validate(def, src)
	require.Error(t, err)
}

func TestValidateOptionalBareIsSchemaMismatch(t *testing.T) {
	def := widgetDef()
	src := fakeSource{
		"name":     fieldvalue.String("thing"),
		"status":   fieldvalue.I32(0),
		"location": fieldvalue.PointZ(geo.PointZ{}),
	}
	_, err := Validate(def, src)
	require.Error(t, err)
}

func TestValidateUnknownEnumValue(t *testing.T) {
	def := widgetDef()
	src := fakeSource{
		"name":     fieldvalue.String("thing"),
		"status":   fieldvalue.I32(99),
		"location": fieldvalue.None(),
	}
	res, err := Validate(def, src)
	require.NoError(t, err)
	assert.False(t, res.Result.Success)
	assert.Contains(t, res.Result.Errors[0].Error, "status")
}

func TestValidatePointOutOfRange(t *testing.T) {
	def := widgetDef()
	src := fakeSource{
		"name":     fieldvalue.String("thing"),
		"status":   fieldvalue.I32(0),
		"location": fieldvalue.Some(fieldvalue.PointZ(geo.PointZ{X: 200, Y: -95, Z: 0})),
	}
	res, err := Validate(def, src)
	require.NoError(t, err)
	assert.False(t, res.Result.Success)
	assert.Len(t, res.Result.Errors, 2)
}

func TestValidatePointWithinRange(t *testing.T) {
	def := widgetDef()
	src := fakeSource{
		"name":     fieldvalue.String("thing"),
		"status":   fieldvalue.I32(0),
		"location": fieldvalue.Some(fieldvalue.PointZ(geo.PointZ{X: 10, Y: 20, Z: 30})),
	}
	res, err := Validate(def, src)
	require.NoError(t, err)
	assert.True(t, res.Result.Success)
	p, ok := res.Columns["location"].(geo.PointZ)
	require.True(t, ok)
	assert.Equal(t, 10.0, p.X)
}

func TestValidateBadUUID(t *testing.T) {
	def := schema.ResourceDefinition{
		TableName:  "widget",
		KeyColumns: []string{"widget_id"},
		Fields: map[string]schema.FieldDefinition{
			"owner_id": {Type: schema.UUID, Mandatory: true},
		},
		FieldOrder: []string{"owner_id"},
	}
	src := fakeSource{"owner_id": fieldvalue.String("not-a-uuid")}
	res, err := Validate(def, src)
	require.NoError(t, err)
	assert.False(t, res.Result.Success)
	assert.Contains(t, res.Result.Errors[0].Error, "Could not convert")
}

func TestValidatePolygonUnclosedRing(t *testing.T) {
	def := schema.ResourceDefinition{
		TableName:  "zone",
		KeyColumns: []string{"zone_id"},
		Fields: map[string]schema.FieldDefinition{
			"boundary": {Type: schema.PolygonZ, Mandatory: true},
		},
		FieldOrder: []string{"boundary"},
	}
	ring := geo.LineStringZ{Points: []geo.PointZ{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}}
	src := fakeSource{"boundary": fieldvalue.PolygonZ(geo.PolygonZ{Rings: []geo.LineStringZ{ring}})}
	res, err := Validate(def, src)
	require.NoError(t, err)
	assert.False(t, res.Result.Success)
}

func TestValidatePolygonClosedRingValid(t *testing.T) {
	def := schema.ResourceDefinition{
		TableName:  "zone",
		KeyColumns: []string{"zone_id"},
		Fields: map[string]schema.FieldDefinition{
			"boundary": {Type: schema.PolygonZ, Mandatory: true},
		},
		FieldOrder: []string{"boundary"},
	}
	ring := geo.LineStringZ{Points: []geo.PointZ{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0},
	}}
	src := fakeSource{"boundary": fieldvalue.PolygonZ(geo.PolygonZ{Rings: []geo.LineStringZ{ring}})}
	res, err := Validate(def, src)
	require.NoError(t, err)
	assert.True(t, res.Result.Success)
}
