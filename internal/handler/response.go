package handler

// Response helpers: one place that turns domain errors into HTTP statuses
// and keeps every JSON body the same shape. Handlers call writeJSON /
// writeError and stay free of status-code switches.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/schedule-arranger/internal/apperror"
)

// ErrorResponse is the standard error format returned by the JSON endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body — once Encode calls
// Write, the headers are on the wire.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// httpStatus maps a domain error to an HTTP status and a machine-readable
// error type.
//
// FORBIDDEN BECOMES 404:
// A non-creator probing /schedules/{id}/edit must not learn whether the
// schedule exists, so a permission failure is indistinguishable from a
// missing schedule. Schedule URLs being unguessable only helps if we don't
// confirm guesses.
func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError maps a domain error to HTTP and sends it as JSON.
// Internal errors get a generic message — no database detail leaks to the
// client; the real error is already in the server log.
func writeError(w http.ResponseWriter, err error) {
	status, errorType := httpStatus(err)

	message := "an internal error occurred"
	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status == http.StatusNotFound {
		message = "指定された予定は見つかりません"
	}

	writeJSON(w, status, ErrorResponse{Error: errorType, Message: message})
}
