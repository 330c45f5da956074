package entities

import "github.com/aetheric-oss/svc-storage/internal/schema"

func linkTableDef(table, colA, colB string) schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  table,
		KeyColumns: []string{colA, colB},
		Fields: map[string]schema.FieldDefinition{
			colA: {Type: schema.UUID, Mandatory: true},
			colB: {Type: schema.UUID, Mandatory: true},
		},
		FieldOrder: []string{colA, colB},
	}
}

func itineraryFlightPlanDef() schema.ResourceDefinition {
	return linkTableDef("itinerary_flight_plan", "itinerary_id", "flight_plan_id")
}

func userGroupDef() schema.ResourceDefinition {
	return linkTableDef("user_group", "user_id", "group_id")
}

func vehicleGroupDef() schema.ResourceDefinition {
	return linkTableDef("vehicle_group", "vehicle_id", "group_id")
}

func vertiportGroupDef() schema.ResourceDefinition {
	return linkTableDef("vertiport_group", "vertiport_id", "group_id")
}

func vertipadGroupDef() schema.ResourceDefinition {
	return linkTableDef("vertipad_group", "vertipad_id", "group_id")
}
