package entities

import "github.com/aetheric-oss/svc-storage/internal/schema"

func flightPlanParcelDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "flight_plan_parcel",
		KeyColumns: []string{"flight_plan_id", "parcel_id"},
		Fields: map[string]schema.FieldDefinition{
			"flight_plan_id":      {Type: schema.UUID, Mandatory: true},
			"parcel_id":           {Type: schema.UUID, Mandatory: true},
			"acquire_vertipad_id": {Type: schema.UUID, Mandatory: true},
			"deliver_vertipad_id": {Type: schema.UUID, Mandatory: true},
		},
		FieldOrder: []string{"flight_plan_id", "parcel_id", "acquire_vertipad_id", "deliver_vertipad_id"},
	}
}
