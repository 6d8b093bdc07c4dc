// Package httpapi is the HTTP surface of the server: router, middleware,
// and JSON handlers under /api/v1.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mbelozerov/eventkeeper/internal/common"
)

// errorResponse is the only failure body shape the API produces. Internal
// detail stays in the logs.
type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeServiceError maps the sentinel taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, common.ErrorConflict):
		writeError(w, http.StatusConflict, "Conflict")
	default:
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
