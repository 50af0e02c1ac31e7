package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/taskpilot/pkg/apperrors"
)

// Client-facing error messages. Internal detail is logged, never returned.
const (
	msgNotFound         = "Resource not found"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Internal server error"
	msgInvalidJSON      = "Request body must be a JSON object"
)

// envelope is the top-level shape of every response.
type envelope map[string]any

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeSuccess writes {success: true, ...fields}.
func writeSuccess(w http.ResponseWriter, status int, fields envelope) {
	body := envelope{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// writeError writes {success: false, error: message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "error": message})
}

// writeAppError maps an application error onto the error envelope.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := apperrors.IsValidation(err); ok {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	if apperrors.IsNotFound(err) {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	s.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
