package entities

import "github.com/aetheric-oss/svc-storage/internal/schema"

func flightStatusDecoder(v int32) (string, bool) {
	names := []string{"DRAFT", "PENDING", "APPROVED", "ACTIVE", "COMPLETE", "CANCELLED"}
	if v < 0 || int(v) >= len(names) {
		return "", false
	}
	return names[v], true
}

func flightPriorityDecoder(v int32) (string, bool) {
	names := []string{"LOW", "HIGH", "EMERGENCY"}
	if v < 0 || int(v) >= len(names) {
		return "", false
	}
	return names[v], true
}

func parcelStatusDecoder(v int32) (string, bool) {
	names := []string{"NOTDROPPEDOFF", "DROPOFF", "ENROUTE", "COMPLETE"}
	if v < 0 || int(v) >= len(names) {
		return "", false
	}
	return names[v], true
}

func authMethodDecoder(v int32) (string, bool) {
	names := []string{"LOCAL", "GOOGLE", "MICROSOFT"}
	if v < 0 || int(v) >= len(names) {
		return "", false
	}
	return names[v], true
}

func groupTypeDecoder(v int32) (string, bool) {
	names := []string{"ACL", "ORGANIZATION", "FLEET"}
	if v < 0 || int(v) >= len(names) {
		return "", false
	}
	return names[v], true
}

func itineraryStatusDecoder(v int32) (string, bool) {
	names := []string{"DRAFT", "ACTIVE", "COMPLETE", "CANCELLED"}
	if v < 0 || int(v) >= len(names) {
		return "", false
	}
	return names[v], true
}

func timestamps() map[string]schema.FieldDefinition {
	return map[string]schema.FieldDefinition{
		"created_at": {Type: schema.TimestampTZ, Internal: true, DefaultSQL: "CURRENT_TIMESTAMP"},
		"updated_at": {Type: schema.TimestampTZ, Internal: true, DefaultSQL: "CURRENT_TIMESTAMP"},
		"deleted_at": {Type: schema.TimestampTZ, Internal: true},
	}
}

func timestampOrder() []string { return []string{"created_at", "updated_at", "deleted_at"} }

func mergeFields(groups ...map[string]schema.FieldDefinition) map[string]schema.FieldDefinition {
	out := make(map[string]schema.FieldDefinition)
	for _, g := range groups {
		for k, v := range g {
			out[k] = v
		}
	}
	return out
}

func vehicleDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "vehicle",
		KeyColumns: []string{"vehicle_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"vehicle_id":          {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"vehicle_model_id":    {Type: schema.UUID, Mandatory: true},
			"serial_number":       {Type: schema.Text, Mandatory: true},
			"registration_number": {Type: schema.Text, Mandatory: true},
			"description":         {Type: schema.Text},
			"asset_group_id":      {Type: schema.UUID},
			"schedule":            {Type: schema.Text},
			"last_maintenance":    {Type: schema.TimestampTZ},
			"next_maintenance":    {Type: schema.TimestampTZ},
			"last_vertiport_id":   {Type: schema.UUID},
			"hangar_id":           {Type: schema.UUID},
			"hangar_bay_id":       {Type: schema.UUID},
		}, timestamps()),
		FieldOrder: append([]string{
			"vehicle_id", "vehicle_model_id", "serial_number", "registration_number",
			"description", "asset_group_id", "schedule", "last_maintenance",
			"next_maintenance", "last_vertiport_id", "hangar_id", "hangar_bay_id",
		}, timestampOrder()...),
	}
}

func pilotDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "pilot",
		KeyColumns: []string{"pilot_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"pilot_id":   {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"first_name": {Type: schema.Text, Mandatory: true},
			"last_name":  {Type: schema.Text, Mandatory: true},
		}, timestamps()),
		FieldOrder: append([]string{"pilot_id", "first_name", "last_name"}, timestampOrder()...),
	}
}

func vertiportDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "vertiport",
		KeyColumns: []string{"vertiport_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"vertiport_id": {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"name":         {Type: schema.Text, Mandatory: true},
			"description":  {Type: schema.Text, Mandatory: true},
			"geo_location": {Type: schema.PolygonZ, Mandatory: true},
			"schedule":     {Type: schema.Text},
		}, timestamps()),
		FieldOrder: append([]string{"vertiport_id", "name", "description", "geo_location", "schedule"}, timestampOrder()...),
	}
}

func vertipadDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "vertipad",
		KeyColumns: []string{"vertipad_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"vertipad_id":  {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"vertiport_id": {Type: schema.UUID, Mandatory: true},
			"name":         {Type: schema.Text, Mandatory: true},
			"geo_location": {Type: schema.PointZ, Mandatory: true},
			"enabled":      {Type: schema.Bool, Mandatory: true},
			"occupied":     {Type: schema.Bool, Mandatory: true},
			"schedule":     {Type: schema.Text},
		}, timestamps()),
		FieldOrder: append([]string{
			"vertipad_id", "vertiport_id", "name", "geo_location", "enabled", "occupied", "schedule",
		}, timestampOrder()...),
	}
}

func flightPlanDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "flight_plan",
		KeyColumns: []string{"flight_plan_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"flight_plan_id":           {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"pilot_id":                 {Type: schema.UUID, Mandatory: true},
			"vehicle_id":               {Type: schema.UUID, Mandatory: true},
			"flight_status":            {Type: schema.AnyEnum, Mandatory: true},
			"flight_priority":          {Type: schema.AnyEnum, Mandatory: true},
			"departure_vertiport_id":   {Type: schema.UUID},
			"departure_vertipad_id":    {Type: schema.UUID, Mandatory: true},
			"destination_vertiport_id": {Type: schema.UUID},
			"destination_vertipad_id":  {Type: schema.UUID, Mandatory: true},
			"scheduled_departure":      {Type: schema.TimestampTZ, Mandatory: true},
			"scheduled_arrival":        {Type: schema.TimestampTZ, Mandatory: true},
			"actual_departure":         {Type: schema.TimestampTZ},
			"actual_arrival":           {Type: schema.TimestampTZ},
			"flight_release_approval":  {Type: schema.TimestampTZ},
			"flight_plan_submitted":    {Type: schema.TimestampTZ},
			"approved_by":              {Type: schema.UUID},
			"path":                     {Type: schema.LineStringZ},
			"weather_conditions":       {Type: schema.Text},
		}, timestamps()),
		FieldOrder: append([]string{
			"flight_plan_id", "pilot_id", "vehicle_id", "flight_status", "flight_priority",
			"departure_vertiport_id", "departure_vertipad_id", "destination_vertiport_id",
			"destination_vertipad_id", "scheduled_departure", "scheduled_arrival",
			"actual_departure", "actual_arrival", "flight_release_approval",
			"flight_plan_submitted", "approved_by", "path", "weather_conditions",
		}, timestampOrder()...),
		EnumDecoders: map[string]schema.EnumDecoder{
			"flight_status":   flightStatusDecoder,
			"flight_priority": flightPriorityDecoder,
		},
	}
}

func parcelDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "parcel",
		KeyColumns: []string{"parcel_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"parcel_id":    {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"user_id":      {Type: schema.UUID, Mandatory: true},
			"weight_grams": {Type: schema.Float8, Mandatory: true},
			"status":       {Type: schema.AnyEnum, Mandatory: true},
		}, timestamps()),
		FieldOrder:   append([]string{"parcel_id", "user_id", "weight_grams", "status"}, timestampOrder()...),
		EnumDecoders: map[string]schema.EnumDecoder{"status": parcelStatusDecoder},
	}
}

func userDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "user",
		KeyColumns: []string{"user_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"user_id":      {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"auth_method":  {Type: schema.AnyEnum, Mandatory: true},
			"display_name": {Type: schema.Text, Mandatory: true},
			"email":        {Type: schema.Text, Mandatory: true},
		}, timestamps()),
		FieldOrder:   append([]string{"user_id", "auth_method", "display_name", "email"}, timestampOrder()...),
		EnumDecoders: map[string]schema.EnumDecoder{"auth_method": authMethodDecoder},
	}
}

func groupDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "group",
		KeyColumns: []string{"group_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"group_id":    {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"name":        {Type: schema.Text, Mandatory: true},
			"description": {Type: schema.Text},
			"group_type":  {Type: schema.AnyEnum, Mandatory: true},
			"is_admin":    {Type: schema.Bool, Mandatory: true},
		}, timestamps()),
		FieldOrder:   append([]string{"group_id", "name", "description", "group_type", "is_admin"}, timestampOrder()...),
		EnumDecoders: map[string]schema.EnumDecoder{"group_type": groupTypeDecoder},
	}
}

func itineraryDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "itinerary",
		KeyColumns: []string{"itinerary_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"itinerary_id": {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"user_id":      {Type: schema.UUID, Mandatory: true},
			"status":       {Type: schema.AnyEnum, Mandatory: true},
		}, timestamps()),
		FieldOrder:   append([]string{"itinerary_id", "user_id", "status"}, timestampOrder()...),
		EnumDecoders: map[string]schema.EnumDecoder{"status": itineraryStatusDecoder},
	}
}

func adsbDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "adsb",
		KeyColumns: []string{"adsb_id"},
		Fields: map[string]schema.FieldDefinition{
			"adsb_id":           {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"icao_address":      {Type: schema.Int8, Mandatory: true},
			"message_type":      {Type: schema.Int8, Mandatory: true},
			"network_timestamp": {Type: schema.TimestampTZ},
			"payload":           {Type: schema.Bytea, Mandatory: true},
			"created_at":        {Type: schema.TimestampTZ, Internal: true, DefaultSQL: "CURRENT_TIMESTAMP"},
		},
		FieldOrder: []string{"adsb_id", "icao_address", "message_type", "network_timestamp", "payload", "created_at"},
	}
}

func scanDef() schema.ResourceDefinition {
	return schema.ResourceDefinition{
		TableName:  "scan",
		KeyColumns: []string{"scan_id"},
		Fields: mergeFields(map[string]schema.FieldDefinition{
			"scan_id":      {Type: schema.UUID, Mandatory: true, ReadOnly: true},
			"vehicle_id":   {Type: schema.UUID},
			"vertiport_id": {Type: schema.UUID},
			"reader_id":    {Type: schema.UUID, Mandatory: true},
			"scanner_id":   {Type: schema.UUID, Mandatory: true},
			"geo_location": {Type: schema.PointZ},
		}, timestamps()),
		FieldOrder: append([]string{
			"scan_id", "vehicle_id", "vertiport_id", "reader_id", "scanner_id", "geo_location",
		}, timestampOrder()...),
	}
}
