package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aetheric-oss/svc-storage/internal/engine"
	"github.com/aetheric-oss/svc-storage/internal/entities"
	"github.com/aetheric-oss/svc-storage/internal/fieldvalue"
	"github.com/aetheric-oss/svc-storage/internal/geo"
	"github.com/aetheric-oss/svc-storage/internal/search"
	"github.com/aetheric-oss/svc-storage/internal/store"
)

type payload map[string]fieldvalue.Value

func (p payload) GetFieldValue(name string) fieldvalue.Value {
	if v, ok := p[name]; ok {
		return v
	}
	return fieldvalue.None()
}

func setupPostgres(t *testing.T) *store.Config {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgis/postgis:16-3.4-alpine",
		postgres.WithDatabase("storage"),
		postgres.WithUsername("storage"),
		postgres.WithPassword("storage"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return &store.Config{DSN: dsn}
}

// TestVertipadLifecycleAgainstRealPostgres creates a vertiport and a
// geo-tagged vertipad, round-trips the vertipad's geometry through
// ST_GeomFromText, reads and searches it back, then archives it.
func TestVertipadLifecycleAgainstRealPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := setupPostgres(t)
	db, err := store.New(*cfg)
	require.NoError(t, err)
	defer db.Close()

	backend := engine.NewSQLStore(db)
	def := entities.Registry()

	vertiportDef, err := def.Definition("vertiport")
	require.NoError(t, err)
	vertipadDef, err := def.Definition("vertipad")
	require.NoError(t, err)

	vertiportEngine := engine.SimpleEngine{Def: vertiportDef, Store: backend, NewID: func() string { return uuid.New().String() }}
	vertipadEngine := engine.SimpleEngine{Def: vertipadDef, Store: backend, NewID: func() string { return uuid.New().String() }}

	ring := geo.LineStringZ{Points: []geo.PointZ{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 0},
	}}
	vertiportRow, vr, err := vertiportEngine.Create(context.Background(), payload{
		"name":         fieldvalue.String("Test Vertiport"),
		"description":  fieldvalue.String("integration test fixture"),
		"geo_location": fieldvalue.PolygonZ(geo.PolygonZ{Rings: []geo.LineStringZ{ring}}),
		"schedule":     fieldvalue.None(),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)
	vertiportID := vertiportRow["vertiport_id"].(string)

	vertipadRow, vr, err := vertipadEngine.Create(context.Background(), payload{
		"vertiport_id": fieldvalue.String(vertiportID),
		"name":         fieldvalue.String("Pad A"),
		"geo_location": fieldvalue.PointZ(geo.PointZ{X: 0.5, Y: 0.5, Z: 5}),
		"enabled":      fieldvalue.Bool(true),
		"occupied":     fieldvalue.Bool(false),
		"schedule":     fieldvalue.None(),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)
	vertipadID := vertipadRow["vertipad_id"].(string)

	got, err := vertipadEngine.Get(context.Background(), vertipadID, false)
	require.NoError(t, err)
	assert.Equal(t, vertipadID, got["vertipad_id"])

	rows, err := vertipadEngine.Search(context.Background(), search.AdvancedSearchFilter{
		Filters: []search.FilterOption{{
			Column:    "vertiport_id",
			Predicate: search.Equals,
			Values:    []any{vertiportID},
		}},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, vertipadEngine.Delete(context.Background(), vertipadID))
	_, err = vertipadEngine.Get(context.Background(), vertipadID, false)
	assert.Error(t, err)
}

// TestReservedWordTableCRUDAgainstRealPostgres exercises CRUD against the
// user and group entities, whose table names are Postgres reserved words,
// proving the synthesized SQL quotes identifiers rather than emitting a
// bare "user"/"group" the server would reject as a syntax error.
func TestReservedWordTableCRUDAgainstRealPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := setupPostgres(t)
	db, err := store.New(*cfg)
	require.NoError(t, err)
	defer db.Close()

	backend := engine.NewSQLStore(db)
	userDef, err := entities.Registry().Definition("user")
	require.NoError(t, err)
	groupDef, err := entities.Registry().Definition("group")
	require.NoError(t, err)

	userEngine := engine.SimpleEngine{Def: userDef, Store: backend, NewID: func() string { return uuid.New().String() }}
	groupEngine := engine.SimpleEngine{Def: groupDef, Store: backend, NewID: func() string { return uuid.New().String() }}

	userRow, vr, err := userEngine.Create(context.Background(), payload{
		"auth_method":  fieldvalue.I32(0),
		"display_name": fieldvalue.String("Ada Lovelace"),
		"email":        fieldvalue.String("ada@example.com"),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)
	userID := userRow["user_id"].(string)

	groupRow, vr, err := groupEngine.Create(context.Background(), payload{
		"name":        fieldvalue.String("Admins"),
		"description": fieldvalue.None(),
		"group_type":  fieldvalue.I32(0),
		"is_admin":    fieldvalue.Bool(true),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)
	groupID := groupRow["group_id"].(string)

	updated, vr, err := userEngine.Update(context.Background(), userID, payload{
		"display_name": fieldvalue.String("Ada Byron"),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)
	assert.Equal(t, "Ada Byron", updated["display_name"])

	require.NoError(t, userEngine.Delete(context.Background(), userID))
	_, err = userEngine.Get(context.Background(), userID, false)
	assert.Error(t, err)

	require.NoError(t, groupEngine.Delete(context.Background(), groupID))
}

// TestGeoIntersectSearchAgainstRealPostgres exercises the GeoIntersect
// predicate: it compiles to ST_Intersects and finds only the vertipad whose
// point falls inside the query polygon.
func TestGeoIntersectSearchAgainstRealPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := setupPostgres(t)
	db, err := store.New(*cfg)
	require.NoError(t, err)
	defer db.Close()

	backend := engine.NewSQLStore(db)
	reg := entities.Registry()
	vertiportDef, err := reg.Definition("vertiport")
	require.NoError(t, err)
	vertipadDef, err := reg.Definition("vertipad")
	require.NoError(t, err)

	vertiportEngine := engine.SimpleEngine{Def: vertiportDef, Store: backend, NewID: func() string { return uuid.New().String() }}
	vertipadEngine := engine.SimpleEngine{Def: vertipadDef, Store: backend, NewID: func() string { return uuid.New().String() }}

	ring := geo.LineStringZ{Points: []geo.PointZ{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 10, Z: 0}, {X: 10, Y: 10, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0},
	}}
	vertiportRow, vr, err := vertiportEngine.Create(context.Background(), payload{
		"name":         fieldvalue.String("Geo Vertiport"),
		"description":  fieldvalue.String("geo intersect fixture"),
		"geo_location": fieldvalue.PolygonZ(geo.PolygonZ{Rings: []geo.LineStringZ{ring}}),
		"schedule":     fieldvalue.None(),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)
	vertiportID := vertiportRow["vertiport_id"].(string)

	insideRow, vr, err := vertipadEngine.Create(context.Background(), payload{
		"vertiport_id": fieldvalue.String(vertiportID),
		"name":         fieldvalue.String("Inside Pad"),
		"geo_location": fieldvalue.PointZ(geo.PointZ{X: 5, Y: 5, Z: 0}),
		"enabled":      fieldvalue.Bool(true),
		"occupied":     fieldvalue.Bool(false),
		"schedule":     fieldvalue.None(),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)
	insideID := insideRow["vertipad_id"].(string)

	_, vr, err = vertipadEngine.Create(context.Background(), payload{
		"vertiport_id": fieldvalue.String(vertiportID),
		"name":         fieldvalue.String("Outside Pad"),
		"geo_location": fieldvalue.PointZ(geo.PointZ{X: 50, Y: 50, Z: 0}),
		"enabled":      fieldvalue.Bool(true),
		"occupied":     fieldvalue.Bool(false),
		"schedule":     fieldvalue.None(),
	})
	require.NoError(t, err)
	require.True(t, vr.Success, "%+v", vr.Errors)

	queryArea := geo.PolygonZ{Rings: []geo.LineStringZ{{Points: []geo.PointZ{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 8, Z: 0}, {X: 8, Y: 8, Z: 0}, {X: 8, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0},
	}}}}

	rows, err := vertipadEngine.Search(context.Background(), search.AdvancedSearchFilter{
		Filters: []search.FilterOption{{
			Column:    "geo_location",
			Predicate: search.GeoIntersect,
			Values:    []any{queryArea},
		}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, insideID, rows[0]["vertipad_id"])
}

// TestInvalidPolygonRejectedBeforeReachingPostgres exercises scenario 5:
// an unclosed ring never produces SQL at all, it fails validation.
func TestInvalidPolygonRejectedBeforeReachingPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := setupPostgres(t)
	db, err := store.New(*cfg)
	require.NoError(t, err)
	defer db.Close()

	backend := engine.NewSQLStore(db)
	def, err := entities.Registry().Definition("vertiport")
	require.NoError(t, err)
	eng := engine.SimpleEngine{Def: def, Store: backend, NewID: func() string { return uuid.New().String() }}

	openRing := geo.LineStringZ{Points: []geo.PointZ{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
	}}
	_, vr, err := eng.Create(context.Background(), payload{
		"name":         fieldvalue.String("Bad Vertiport"),
		"description":  fieldvalue.String("unclosed ring"),
		"geo_location": fieldvalue.PolygonZ(geo.PolygonZ{Rings: []geo.LineStringZ{openRing}}),
		"schedule":     fieldvalue.None(),
	})
	require.NoError(t, err)
	assert.False(t, vr.Success)
}
