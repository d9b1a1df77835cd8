package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/schedule-arranger/internal/service"
)

// AvailabilityHandler is the JSON endpoint behind the detail page's toggle
// buttons.
type AvailabilityHandler struct {
	availabilities *service.AvailabilityService
	logger         *slog.Logger
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(availabilities *service.AvailabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{availabilities: availabilities, logger: logger}
}

// availabilityResponse is the exact body the toggle client expects.
type availabilityResponse struct {
	Status       string `json:"status"`
	Availability int    `json:"availability"`
}

// HandleUpdate upserts one availability cell.
//
// HTTP: POST /schedules/{scheduleID}/users/{userID}/candidates/{candidateID}
// FORM: availability (0/1/2; missing means 0)
//
// The client computes the next value — (current+1) mod 3 — and posts the
// absolute number; the server stores whatever arrives. Response:
// {"status":"OK","availability":N}.
func (h *AvailabilityHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("scheduleID")

	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"bad_request","message":"invalid user id"}`, http.StatusBadRequest)
		return
	}

	candidateID, err := strconv.ParseInt(r.PathValue("candidateID"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"bad_request","message":"invalid candidate id"}`, http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, `{"error":"bad_request","message":"invalid form body"}`, http.StatusBadRequest)
		return
	}

	// Missing or unparsable value means absent — same default as the column.
	value := 0
	if raw := r.PostFormValue("availability"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			value = parsed
		}
	}

	stored, err := h.availabilities.Set(r.Context(), scheduleID, userID, candidateID, value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{Status: "OK", Availability: stored})
}
