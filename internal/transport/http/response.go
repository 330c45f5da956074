// Package api implements the RPC dispatcher as JSON-over-HTTP using chi:
// a router, a JSON envelope for success/error responses, and the
// middleware stack wired around both.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/aetheric-oss/svc-storage/internal/apperr"
)

// envelope is the success-response shape: {"data": ...}.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{"data": data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{"data": data})
}

func noContent(w http.ResponseWriter) {
	writeJSON(w, http.StatusNoContent, nil)
}

// errorResponse is the failure-response shape: {"error": {"message", "code"}}.
type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func errJSON(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{"error": errorResponse{Message: message, Code: code}})
}

func errBadRequest(w http.ResponseWriter, msg string) { errJSON(w, http.StatusBadRequest, "malformed_request", msg) }
func errInternal(w http.ResponseWriter, msg string)    { errJSON(w, http.StatusInternalServerError, "database_error", msg) }

// writeEngineError maps an apperr.Error to a transport status code.
// ValidationFailure never reaches here, callers check
// apperr.ValidationResult.Success before calling writeEngineError.
func writeEngineError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		errJSON(w, http.StatusNotFound, "not_found", err.Error())
	case apperr.KindAlreadyArchived:
		// Deliberately 500/INTERNAL, not 409: archiving an already-archived
		// row is treated as an internal contract violation by this service
		// rather than a client-correctable conflict. Do not "fix" this
		// toward 409, see DESIGN.md.
		errJSON(w, http.StatusInternalServerError, "already_archived", err.Error())
	case apperr.KindMalformedRequest:
		errJSON(w, http.StatusBadRequest, "malformed_request", err.Error())
	case apperr.KindSchemaMismatch:
		errJSON(w, http.StatusInternalServerError, "schema_mismatch", err.Error())
	default:
		errInternal(w, "internal error")
	}
}

// writeValidationFailure folds a ValidationResult into a 200-class
// response, per the error handling design: validation failures travel in
// the success envelope, not as a transport error.
func writeValidationFailure(w http.ResponseWriter, vr apperr.ValidationResult) {
	writeJSON(w, http.StatusOK, envelope{"data": nil, "validation": vr})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
