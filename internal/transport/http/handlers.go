package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aetheric-oss/svc-storage/internal/engine"
	"github.com/aetheric-oss/svc-storage/internal/schema"
	"github.com/aetheric-oss/svc-storage/internal/search"
)

// rowToWire re-decodes any AnyEnum column still carrying a raw integer
// into its canonical string. Rows written through validate.Validate
// already hold the string (the migration stores enum columns as TEXT), so
// for those the enum values pass through unchanged.
func rowToWire(def schema.ResourceDefinition, row search.Row) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	for col, field := range def.Fields {
		if field.Type != schema.AnyEnum {
			continue
		}
		raw, ok := out[col]
		if !ok {
			continue
		}
		var n int32
		switch rv := raw.(type) {
		case int32:
			n = rv
		case int64:
			n = int32(rv)
		default:
			continue
		}
		if s, ok := def.EnumString(col, n); ok {
			out[col] = s
		}
	}
	return out
}

func readRequestBody(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		errBadRequest(w, "invalid JSON body: "+err.Error())
		return nil, false
	}
	return raw, true
}

// readRawBody reads a PATCH body whole, since its {data, mask} envelope
// shape is decoded by decodeUpdate rather than straight into entity fields.
func readRawBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errBadRequest(w, "invalid request body: "+err.Error())
		return nil, false
	}
	return body, true
}

// SimpleResource mounts Create/Get/Update/Delete/Search handlers for a
// single-key entity under r at the given URL path segment.
func SimpleResource(r chi.Router, path string, def schema.ResourceDefinition, eng engine.SimpleEngine) {
	r.Route("/"+path, func(sub chi.Router) {
		sub.Post("/", func(w http.ResponseWriter, req *http.Request) {
			raw, ok := readRequestBody(w, req)
			if !ok {
				return
			}
			payload, err := decodePayload(def, raw)
			if err != nil {
				errBadRequest(w, err.Error())
				return
			}
			row, vr, err := eng.Create(req.Context(), payload)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			if !vr.Success {
				writeValidationFailure(w, vr)
				return
			}
			created(w, rowToWire(def, row))
		})

		sub.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			includeArchived := req.URL.Query().Get("include_archived") == "true"
			row, err := eng.Get(req.Context(), id, includeArchived)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			ok(w, rowToWire(def, row))
		})

		sub.Patch("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			body, ok := readRawBody(w, req)
			if !ok {
				return
			}
			payload, err := decodeUpdate(def, body)
			if err != nil {
				errBadRequest(w, err.Error())
				return
			}
			row, vr, err := eng.Update(req.Context(), id, payload)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			if !vr.Success {
				writeValidationFailure(w, vr)
				return
			}
			ok(w, rowToWire(def, row))
		})

		sub.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			if err := eng.Delete(req.Context(), id); err != nil {
				writeEngineError(w, err)
				return
			}
			noContent(w)
		})

		sub.Post("/search", func(w http.ResponseWriter, req *http.Request) {
			var f search.AdvancedSearchFilter
			if err := decodeJSON(w, req, &f); err != nil {
				errBadRequest(w, "invalid search filter: "+err.Error())
				return
			}
			rows, err := eng.Search(req.Context(), f)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			wire := make([]map[string]any, len(rows))
			for i, row := range rows {
				wire[i] = rowToWire(def, row)
			}
			ok(w, wire)
		})
	})
}

// LinkedResource mounts Create/Get/Update/Delete/Search handlers for a
// two-key entity that still carries its own fields (flight_plan_parcel),
// addressed as /{path}/{a}/{b}.
func LinkedResource(r chi.Router, path string, def schema.ResourceDefinition, eng engine.LinkedEngine) {
	r.Route("/"+path, func(sub chi.Router) {
		sub.Post("/", func(w http.ResponseWriter, req *http.Request) {
			raw, ok := readRequestBody(w, req)
			if !ok {
				return
			}
			payload, err := decodePayload(def, raw)
			if err != nil {
				errBadRequest(w, err.Error())
				return
			}
			row, vr, err := eng.Create(req.Context(), payload)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			if !vr.Success {
				writeValidationFailure(w, vr)
				return
			}
			created(w, rowToWire(def, row))
		})

		sub.Get("/{a}/{b}", func(w http.ResponseWriter, req *http.Request) {
			row, err := eng.Get(req.Context(), chi.URLParam(req, "a"), chi.URLParam(req, "b"), false)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			ok(w, rowToWire(def, row))
		})

		sub.Patch("/{a}/{b}", func(w http.ResponseWriter, req *http.Request) {
			body, okBody := readRawBody(w, req)
			if !okBody {
				return
			}
			payload, err := decodeUpdate(def, body)
			if err != nil {
				errBadRequest(w, err.Error())
				return
			}
			row, vr, err := eng.Update(req.Context(), chi.URLParam(req, "a"), chi.URLParam(req, "b"), payload)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			if !vr.Success {
				writeValidationFailure(w, vr)
				return
			}
			ok(w, rowToWire(def, row))
		})

		sub.Delete("/{a}/{b}", func(w http.ResponseWriter, req *http.Request) {
			if err := eng.Delete(req.Context(), chi.URLParam(req, "a"), chi.URLParam(req, "b")); err != nil {
				writeEngineError(w, err)
				return
			}
			noContent(w)
		})

		sub.Post("/search", func(w http.ResponseWriter, req *http.Request) {
			var f search.AdvancedSearchFilter
			if err := decodeJSON(w, req, &f); err != nil {
				errBadRequest(w, "invalid search filter: "+err.Error())
				return
			}
			rows, err := eng.Search(req.Context(), f)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			wire := make([]map[string]any, len(rows))
			for i, row := range rows {
				wire[i] = rowToWire(def, row)
			}
			ok(w, wire)
		})
	})
}

// LinkSubRoutes mounts the link-table operations as sub-routes of an
// already-mounted simple resource, e.g. /itineraries/{id}/flight-plans.
// childDef is the B-side entity's definition, used to decode the resolved
// objects GetLinked returns the same way every other read path does.
func LinkSubRoutes(r chi.Router, parentPath, subPath string, eng engine.LinkEngine, childDef schema.ResourceDefinition) {
	r.Route("/"+parentPath+"/{id}/"+subPath, func(sub chi.Router) {
		sub.Get("/", func(w http.ResponseWriter, req *http.Request) {
			ids, err := eng.GetLinkedIDs(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeEngineError(w, err)
				return
			}
			ok(w, ids)
		})

		sub.Get("/objects", func(w http.ResponseWriter, req *http.Request) {
			rows, err := eng.GetLinked(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeEngineError(w, err)
				return
			}
			wire := make([]map[string]any, len(rows))
			for i, row := range rows {
				wire[i] = rowToWire(childDef, row)
			}
			ok(w, wire)
		})

		sub.Put("/", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				IDs []string `json:"ids"`
			}
			if err := decodeJSON(w, req, &body); err != nil {
				errBadRequest(w, "invalid body: "+err.Error())
				return
			}
			if err := eng.ReplaceLinked(req.Context(), chi.URLParam(req, "id"), body.IDs); err != nil {
				writeEngineError(w, err)
				return
			}
			noContent(w)
		})

		sub.Post("/{otherID}", func(w http.ResponseWriter, req *http.Request) {
			if err := eng.Link(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "otherID")); err != nil {
				writeEngineError(w, err)
				return
			}
			noContent(w)
		})

		sub.Delete("/{otherID}", func(w http.ResponseWriter, req *http.Request) {
			if err := eng.Unlink(req.Context(), chi.URLParam(req, "id"), chi.URLParam(req, "otherID")); err != nil {
				writeEngineError(w, err)
				return
			}
			noContent(w)
		})
	})
}
