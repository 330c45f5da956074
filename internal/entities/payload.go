// Package entities registers the ResourceDefinition for every entity and
// link table in the catalog, and provides the generic, schema-driven
// Payload type that every entity uses to implement validate.Source and
// fieldvalue-backed reads, instead of one hand-written struct per entity,
// since the field set for each entity is already fully described by its
// ResourceDefinition.
package entities

import "github.com/aetheric-oss/svc-storage/internal/fieldvalue"

// Payload is a generic column name -> fieldvalue.Value map. Transport
// handlers build one from the decoded request body; engines consume it
// through validate.Source.
type Payload map[string]fieldvalue.Value

// GetFieldValue implements validate.Source.
func (p Payload) GetFieldValue(name string) fieldvalue.Value {
	v, ok := p[name]
	if !ok {
		return fieldvalue.None()
	}
	return v
}

// Set stores v under name and returns p, so payloads can be built
// fluently: entities.NewPayload().Set("name", fieldvalue.String("x")).
func (p Payload) Set(name string, v fieldvalue.Value) Payload {
	p[name] = v
	return p
}

// NewPayload builds an empty Payload.
func NewPayload() Payload { return make(Payload) }
