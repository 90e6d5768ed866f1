package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"records-service/internal/integrity"
)

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithDomainError maps the integrity taxonomy to HTTP status codes and
// writes the error. Unknown errors become 500 without leaking internals.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, integrity.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, integrity.ErrDuplicateKey),
		errors.Is(err, integrity.ErrReferentialBlock):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, integrity.ErrRoleViolation),
		errors.Is(err, integrity.ErrPrerequisiteViolation):
		RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, integrity.ErrContention):
		RespondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
