package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetheric-oss/svc-storage/internal/apperr"
	"github.com/aetheric-oss/svc-storage/internal/fieldvalue"
	"github.com/aetheric-oss/svc-storage/internal/schema"
)

type payload map[string]fieldvalue.Value

func (p payload) GetFieldValue(name string) fieldvalue.Value { return p[name] }

func widgetDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "widget",
		KeyColumns: []string{"widget_id"},
		Fields: map[string]schema.FieldDefinition{
			"widget_id":  {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"name":       {Type: schema.Text, Mandatory: true},
			"created_at": {Type: schema.TimestampTZ, Internal: true},
			"updated_at": {Type: schema.TimestampTZ, Internal: true},
			"deleted_at": {Type: schema.TimestampTZ, Internal: true},
		},
		FieldOrder: []string{"widget_id", "name", "created_at", "updated_at", "deleted_at"},
	}
}

func TestSimpleEngineCreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	e := SimpleEngine{Def: widgetDef(), Store: NewMemoryStore(), NewID: func() string { return "w-1" }}

	row, vr, err := e.Create(ctx, payload{"name": fieldvalue.String("thing")})
	require.NoError(t, err)
	assert.True(t, vr.Success)
	assert.Equal(t, "w-1", row["widget_id"])

	got, err := e.Get(ctx, "w-1", false)
	require.NoError(t, err)
	assert.Equal(t, "thing", got["name"])

	_, vr, err = e.Update(ctx, "w-1", payload{"name": fieldvalue.String("renamed")})
	require.NoError(t, err)
	assert.True(t, vr.Success)

	got, err = e.Get(ctx, "w-1", false)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got["name"])

	require.NoError(t, e.Delete(ctx, "w-1"))

	_, err = e.Get(ctx, "w-1", false)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = e.Get(ctx, "w-1", true)
	require.NoError(t, err)
}

func TestSimpleEngineDeleteTwiceIsAlreadyArchived(t *testing.T) {
	ctx := context.Background()
	e := SimpleEngine{Def: widgetDef(), Store: NewMemoryStore(), NewID: func() string { return "w-2" }}

	_, _, err := e.Create(ctx, payload{"name": fieldvalue.String("thing")})
	require.NoError(t, err)

	require.NoError(t, e.Delete(ctx, "w-2"))
	err = e.Delete(ctx, "w-2")
	assert.Equal(t, apperr.KindAlreadyArchived, apperr.KindOf(err))
}

func TestSimpleEngineUpdateArchivedIsAlreadyArchived(t *testing.T) {
	ctx := context.Background()
	e := SimpleEngine{Def: widgetDef(), Store: NewMemoryStore(), NewID: func() string { return "w-3" }}

	_, _, err := e.Create(ctx, payload{"name": fieldvalue.String("thing")})
	require.NoError(t, err)
	require.NoError(t, e.Delete(ctx, "w-3"))

	_, _, err = e.Update(ctx, "w-3", payload{"name": fieldvalue.String("x")})
	assert.Equal(t, apperr.KindAlreadyArchived, apperr.KindOf(err))
}

func TestSimpleEngineValidationFailureNotAnError(t *testing.T) {
	ctx := context.Background()
	def := widgetDef()
	def.Fields["owner_id"] = schema.FieldDefinition{Type: schema.UUID, Mandatory: true}
	def.FieldOrder = append(def.FieldOrder, "owner_id")
	e := SimpleEngine{Def: def, Store: NewMemoryStore(), NewID: func() string { return "w-4" }}

	_, vr, err := e.Create(ctx, payload{
		"name":     fieldvalue.String("thing"),
		"owner_id": fieldvalue.String("not-a-uuid"),
	})
	require.NoError(t, err)
	assert.False(t, vr.Success)
}

func flightPlanParcelDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "flight_plan_parcel",
		KeyColumns: []string{"flight_plan_id", "parcel_id"},
		Fields: map[string]schema.FieldDefinition{
			"flight_plan_id":  {Type: schema.UUID, Mandatory: true},
			"parcel_id":       {Type: schema.UUID, Mandatory: true},
			"acquire_vertipad_id": {Type: schema.UUID, Mandatory: true},
		},
		FieldOrder: []string{"flight_plan_id", "parcel_id", "acquire_vertipad_id"},
	}
}

func TestLinkedEngineCreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	e := LinkedEngine{Def: flightPlanParcelDef(), Store: NewMemoryStore()}

	const (
		fp  = "00000000-0000-0000-0000-0000000000f1"
		pc  = "00000000-0000-0000-0000-0000000000c1"
		vp1 = "00000000-0000-0000-0000-0000000000a1"
		vp2 = "00000000-0000-0000-0000-0000000000a2"
	)

	_, vr, err := e.Create(ctx, payload{
		"flight_plan_id":      fieldvalue.String(fp),
		"parcel_id":           fieldvalue.String(pc),
		"acquire_vertipad_id": fieldvalue.String(vp1),
	})
	require.NoError(t, err)
	assert.True(t, vr.Success)

	row, err := e.Get(ctx, fp, pc, false)
	require.NoError(t, err)
	assert.Equal(t, vp1, fmt.Sprint(row["acquire_vertipad_id"]))

	_, vr, err = e.Update(ctx, fp, pc, payload{
		"flight_plan_id":      fieldvalue.String(fp),
		"parcel_id":           fieldvalue.String(pc),
		"acquire_vertipad_id": fieldvalue.String(vp2),
	})
	require.NoError(t, err)
	assert.True(t, vr.Success)

	row, err = e.Get(ctx, fp, pc, false)
	require.NoError(t, err)
	assert.Equal(t, vp2, fmt.Sprint(row["acquire_vertipad_id"]))

	require.NoError(t, e.Delete(ctx, fp, pc))
	_, err = e.Get(ctx, fp, pc, false)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func linkDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "itinerary_flight_plan",
		KeyColumns: []string{"itinerary_id", "flight_plan_id"},
	}
}

func TestLinkEngineLinkUnlinkIdempotent(t *testing.T) {
	ctx := context.Background()
	e := LinkEngine{Def: linkDef(), Store: NewMemoryStore()}

	require.NoError(t, e.Link(ctx, "it-1", "fp-1"))
	require.NoError(t, e.Link(ctx, "it-1", "fp-1"))

	ids, err := e.GetLinkedIDs(ctx, "it-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"fp-1"}, ids)

	require.NoError(t, e.Unlink(ctx, "it-1", "fp-1"))
	ids, err = e.GetLinkedIDs(ctx, "it-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLinkEngineReplaceLinked(t *testing.T) {
	ctx := context.Background()
	e := LinkEngine{Def: linkDef(), Store: NewMemoryStore()}

	require.NoError(t, e.Link(ctx, "it-1", "fp-1"))
	require.NoError(t, e.Link(ctx, "it-1", "fp-2"))

	require.NoError(t, e.ReplaceLinked(ctx, "it-1", []string{"fp-2", "fp-3"}))

	ids, err := e.GetLinkedIDs(ctx, "it-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fp-2", "fp-3"}, ids)
}
