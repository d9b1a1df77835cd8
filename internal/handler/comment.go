package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/schedule-arranger/internal/service"
)

// CommentHandler is the JSON endpoint for posting a comment on a schedule.
type CommentHandler struct {
	comments *service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(comments *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// commentResponse is the exact body the comment client expects.
type commentResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// HandleUpdate upserts the user's comment on a schedule.
//
// HTTP: POST /schedules/{scheduleID}/users/{userID}/comments
// FORM: comment (≤255 characters)
//
// One comment per (schedule, user) — posting again replaces the previous
// one. Response: {"status":"OK","comment":"..."}.
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("scheduleID")

	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"bad_request","message":"invalid user id"}`, http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, `{"error":"bad_request","message":"invalid form body"}`, http.StatusBadRequest)
		return
	}

	stored, err := h.comments.Set(r.Context(), scheduleID, userID, r.PostFormValue("comment"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, commentResponse{Status: "OK", Comment: stored})
}
