package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aetheric-oss/svc-storage/internal/entities"
	"github.com/aetheric-oss/svc-storage/internal/fieldvalue"
	"github.com/aetheric-oss/svc-storage/internal/geo"
	"github.com/aetheric-oss/svc-storage/internal/schema"
)

// decodePayload turns a raw JSON object into an entities.Payload, giving
// each declared, writable field of def the fieldvalue.Value its TypeTag
// calls for, Option-wrapped when the field is optional. Fields absent
// from raw become None() for optional fields; a missing mandatory field
// is left absent too. On create, validate.Validate reports it as a schema
// mismatch; on update, the engines leave it out of validation and the
// write. This function only knows how to decode JSON, not which fields
// the request was required to supply.
func decodePayload(def schema.ResourceDefinition, raw map[string]json.RawMessage) (entities.Payload, error) {
	p := entities.NewPayload()

	for name, field := range def.Fields {
		if field.Internal || field.ReadOnly {
			continue
		}

		msg, present := raw[name]
		if !present {
			if !field.Mandatory {
				p.Set(name, fieldvalue.None())
			}
			continue
		}

		val, err := decodeValue(field.Type, msg)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		if field.Mandatory {
			p.Set(name, val)
		} else {
			p.Set(name, fieldvalue.Some(val))
		}
	}

	return p, nil
}

// updateEnvelope is the wire shape for a field-mask update: data carries
// the candidate field values, mask lists which of those fields should
// actually be written. A request with no mask (or an empty one) writes
// every field data supplies, the same behavior an update had before this
// envelope existed.
type updateEnvelope struct {
	Data map[string]json.RawMessage `json:"data"`
	Mask []string                   `json:"mask"`
}

// decodeUpdate parses a PATCH body's {data, mask} envelope and narrows the
// decoded payload to exactly the fields mask names, so a caller can send a
// data object wider than what it wants applied and have mask pick out the
// subset.
func decodeUpdate(def schema.ResourceDefinition, body []byte) (entities.Payload, error) {
	var env updateEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	raw := env.Data
	if len(env.Mask) > 0 {
		allowed := make(map[string]bool, len(env.Mask))
		for _, name := range env.Mask {
			allowed[name] = true
		}
		for name := range raw {
			if !allowed[name] {
				delete(raw, name)
			}
		}
	}

	return decodePayload(def, raw)
}

func decodeValue(tag schema.TypeTag, msg json.RawMessage) (fieldvalue.Value, error) {
	switch tag {
	case schema.Bool:
		var v bool
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.Bool(v), nil

	case schema.Int2:
		var v int16
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.I16(v), nil

	case schema.Int4, schema.AnyEnum:
		var v int32
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.I32(v), nil

	case schema.Int8:
		var v int64
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.I64(v), nil

	case schema.Float4:
		var v float32
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.F32(v), nil

	case schema.Float8:
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.F64(v), nil

	case schema.Text, schema.UUID:
		var v string
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.String(v), nil

	case schema.Bytea:
		var v []byte
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.Bytes(v), nil

	case schema.TimestampTZ:
		var v string
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		return fieldvalue.Timestamp(t), nil

	case schema.PointZ:
		var v geo.PointZ
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.PointZ(v), nil

	case schema.LineStringZ:
		var v geo.LineStringZ
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.LineStringZ(v), nil

	case schema.PolygonZ:
		var v geo.PolygonZ
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.PolygonZ(v), nil

	case schema.Int8Array:
		var v []int64
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, err
		}
		return fieldvalue.I64List(v), nil

	default:
		return nil, fmt.Errorf("unsupported field type %s", tag)
	}
}
