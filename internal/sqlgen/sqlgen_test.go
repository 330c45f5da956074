package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetheric-oss/svc-storage/internal/geo"
	"github.com/aetheric-oss/svc-storage/internal/schema"
)

func vehicleDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "vehicle",
		KeyColumns: []string{"vehicle_id"},
		Fields: map[string]schema.FieldDefinition{
			"vehicle_id": {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"serial":     {Type: schema.Text, Mandatory: true},
			"last_known": {Type: schema.PointZ},
			"deleted_at": {Type: schema.TimestampTZ, Internal: true},
		},
		FieldOrder: []string{"vehicle_id", "serial", "last_known", "deleted_at"},
	}
}

func TestInsertDeterministicOrderAndGeometryInlining(t *testing.T) {
	def := vehicleDef()
	stmt := Insert(def, Values{
		"serial":     "N12345",
		"last_known": geo.PointZ{X: 1, Y: 2, Z: 3},
	})
	assert.Contains(t, stmt.SQL, `INSERT INTO "vehicle" ("serial", "last_known")`)
	assert.Contains(t, stmt.SQL, "ST_GeomFromText('POINTZ(1 2 3)', 4326)")
	assert.Contains(t, stmt.SQL, `RETURNING "vehicle_id"`)
	assert.Equal(t, []any{"N12345"}, stmt.Args)
}

func TestUpdateOnlyTouchesSuppliedColumns(t *testing.T) {
	def := vehicleDef()
	stmt, err := Update(def, map[string]any{"vehicle_id": "abc"}, Values{"serial": "N99999"})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "vehicle" SET "serial" = $1 WHERE "vehicle_id" = $2 AND "deleted_at" IS NULL`, stmt.SQL)
	assert.Equal(t, []any{"N99999", "abc"}, stmt.Args)
}

func TestUpdateEmptyColsIsError(t *testing.T) {
	def := vehicleDef()
	_, err := Update(def, map[string]any{"vehicle_id": "abc"}, Values{})
	assert.Error(t, err)
}

func TestSelectByKeyExcludesArchivedByDefault(t *testing.T) {
	def := vehicleDef()
	stmt := SelectByKey(def, map[string]any{"vehicle_id": "abc"}, false)
	assert.Equal(t, `SELECT * FROM "vehicle" WHERE "vehicle_id" = $1 AND "deleted_at" IS NULL`, stmt.SQL)

	stmt = SelectByKey(def, map[string]any{"vehicle_id": "abc"}, true)
	assert.Equal(t, `SELECT * FROM "vehicle" WHERE "vehicle_id" = $1`, stmt.SQL)
}

func TestSoftDelete(t *testing.T) {
	def := vehicleDef()
	stmt := SoftDelete(def, map[string]any{"vehicle_id": "abc"})
	assert.Contains(t, stmt.SQL, `SET "deleted_at" = CURRENT_TIMESTAMP`)
	assert.Contains(t, stmt.SQL, `"deleted_at" IS NULL`)
}

func TestHardDeleteNoSoftDeleteClause(t *testing.T) {
	def := schema.ResourceDefinition{
		TableName:  "itinerary_flight_plan",
		KeyColumns: []string{"itinerary_id", "flight_plan_id"},
	}
	stmt := HardDelete(def, map[string]any{"itinerary_id": "a", "flight_plan_id": "b"})
	assert.Equal(t, `DELETE FROM "itinerary_flight_plan" WHERE "itinerary_id" = $1 AND "flight_plan_id" = $2`, stmt.SQL)
	assert.Equal(t, []any{"a", "b"}, stmt.Args)
}

func TestReservedWordTableNameIsQuoted(t *testing.T) {
	def := schema.ResourceDefinition{
		TableName:  "user",
		KeyColumns: []string{"user_id"},
		Fields: map[string]schema.FieldDefinition{
			"user_id":      {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"display_name": {Type: schema.Text, Mandatory: true},
		},
		FieldOrder: []string{"user_id", "display_name"},
	}
	stmt := Insert(def, Values{"display_name": "Ada"})
	assert.Contains(t, stmt.SQL, `INSERT INTO "user"`)
	assert.Contains(t, stmt.SQL, `"display_name"`)
}
