package entities

import "github.com/aetheric-oss/svc-storage/internal/schema"

// Kind classifies how an entity's engine should be constructed.
type Kind int

const (
	// KindSimple: single key column, may carry its own fields.
	KindSimple Kind = iota
	// KindLinked: two key columns, but still carries its own fields
	// (flight_plan_parcel).
	KindLinked
	// KindLink: two key columns, no fields beyond the key itself.
	KindLink
)

// Entry pairs a ResourceDefinition with how it should be engined.
type Entry struct {
	Name string
	Def  schema.ResourceDefinition
	Kind Kind
}

// All returns the full catalog: 11 simple resources, 1 linked resource,
// and 5 pure link tables.
func All() []Entry {
	return []Entry{
		{Name: "vehicle", Def: vehicleDef(), Kind: KindSimple},
		{Name: "pilot", Def: pilotDef(), Kind: KindSimple},
		{Name: "vertiport", Def: vertiportDef(), Kind: KindSimple},
		{Name: "vertipad", Def: vertipadDef(), Kind: KindSimple},
		{Name: "flight_plan", Def: flightPlanDef(), Kind: KindSimple},
		{Name: "parcel", Def: parcelDef(), Kind: KindSimple},
		{Name: "user", Def: userDef(), Kind: KindSimple},
		{Name: "group", Def: groupDef(), Kind: KindSimple},
		{Name: "itinerary", Def: itineraryDef(), Kind: KindSimple},
		{Name: "adsb", Def: adsbDef(), Kind: KindSimple},
		{Name: "scan", Def: scanDef(), Kind: KindSimple},

		{Name: "flight_plan_parcel", Def: flightPlanParcelDef(), Kind: KindLinked},

		{Name: "itinerary_flight_plan", Def: itineraryFlightPlanDef(), Kind: KindLink},
		{Name: "user_group", Def: userGroupDef(), Kind: KindLink},
		{Name: "vehicle_group", Def: vehicleGroupDef(), Kind: KindLink},
		{Name: "vertiport_group", Def: vertiportGroupDef(), Kind: KindLink},
		{Name: "vertipad_group", Def: vertipadGroupDef(), Kind: KindLink},
	}
}

// Registry builds a schema.Registry from the full catalog.
func Registry() *schema.Registry {
	defs := make(map[string]schema.ResourceDefinition)
	for _, e := range All() {
		defs[e.Name] = e.Def
	}
	return schema.NewRegistry(defs)
}
