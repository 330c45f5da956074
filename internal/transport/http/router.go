package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aetheric-oss/svc-storage/internal/engine"
	"github.com/aetheric-oss/svc-storage/internal/entities"
)

// linkMount describes where a pure link table's sub-routes are mounted:
// /{parentPath}/{id}/{subPath}, and which simple entity the b-side key
// resolves against for GetLinked.
type linkMount struct {
	entity      string
	parentPath  string
	subPath     string
	childEntity string
}

// linkMounts is the fixed wiring from each link-table entity to the two
// simple resources it connects. itinerary_flight_plan is mounted once,
// under the itinerary side; a consumer wanting the inverse lookup uses
// flight_plan's own linked itinerary_flight_plan entry with the columns
// swapped, which this catalog does not need since flight plans query by
// itinerary, not the reverse.
var linkMounts = []linkMount{
	{entity: "itinerary_flight_plan", parentPath: "itineraries", subPath: "flight-plans", childEntity: "flight_plan"},
	{entity: "user_group", parentPath: "users", subPath: "groups", childEntity: "group"},
	{entity: "vehicle_group", parentPath: "vehicles", subPath: "groups", childEntity: "group"},
	{entity: "vertiport_group", parentPath: "vertiports", subPath: "groups", childEntity: "group"},
	{entity: "vertipad_group", parentPath: "vertipads", subPath: "groups", childEntity: "group"},
}

// resourcePaths maps each simple/linked entity name to its plural URL path
// segment.
var resourcePaths = map[string]string{
	"vehicle":            "vehicles",
	"pilot":              "pilots",
	"vertiport":          "vertiports",
	"vertipad":           "vertipads",
	"flight_plan":        "flight-plans",
	"parcel":             "parcels",
	"user":               "users",
	"group":              "groups",
	"itinerary":          "itineraries",
	"adsb":               "adsb-reports",
	"scan":               "scans",
	"flight_plan_parcel": "flight-plan-parcels",
}

// NewRouter builds the full chi router: one CRUD+search surface per
// registered entity, link-table sub-routes mounted on their parent
// resources, and a readiness probe.
func NewRouter(store engine.Store, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
			ok(w, map[string]string{"status": "ready"})
		})

		simpleEngines := make(map[string]engine.SimpleEngine)

		for _, e := range entities.All() {
			switch e.Kind {
			case entities.KindSimple:
				path := resourcePaths[e.Name]
				se := engine.SimpleEngine{
					Def:   e.Def,
					Store: store,
					NewID: func() string { return uuid.New().String() },
				}
				simpleEngines[e.Name] = se
				SimpleResource(v1, path, e.Def, se)
			case entities.KindLinked:
				path := resourcePaths[e.Name]
				LinkedResource(v1, path, e.Def, engine.LinkedEngine{Def: e.Def, Store: store})
			case entities.KindLink:
				// mounted below, under its parent resource
			}
		}

		for _, lm := range linkMounts {
			def, err := entities.Registry().Definition(lm.entity)
			if err != nil {
				log.Fatal("link table not registered", zap.String("entity", lm.entity), zap.Error(err))
			}
			childEng, ok := simpleEngines[lm.childEntity]
			if !ok {
				log.Fatal("link child entity not registered", zap.String("entity", lm.childEntity))
			}
			le := engine.LinkEngine{Def: def, Store: store, ResolveB: childEng.Get}
			LinkSubRoutes(v1, lm.parentPath, lm.subPath, le, childEng.Def)
		}
	})

	return r
}
