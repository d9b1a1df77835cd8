package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/auth"
	"github.com/sakif/schedule-arranger/internal/service"
)

// ScheduleHandler serves the schedule pages: creation form, detail view
// with the availability matrix, edit form, and the edit/delete POST target.
//
// All routes here sit behind RequireAuth, so auth.UserFromContext always
// succeeds; the ok-check is only a guard against future wiring mistakes.
type ScheduleHandler struct {
	renderer  *Renderer
	schedules *service.ScheduleService
	logger    *slog.Logger
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(renderer *Renderer, schedules *service.ScheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{renderer: renderer, schedules: schedules, logger: logger}
}

// HandleNewForm serves the schedule creation form.
//
// HTTP: GET /schedules/new
func (h *ScheduleHandler) HandleNewForm(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "new.html", map[string]any{
		"Title": "予定の作成",
		"User":  user,
	})
}

// HandleCreate creates a schedule from the submitted form.
//
// HTTP: POST /schedules
// FORM: scheduleName, memo, candidates (newline-separated)
//
// Redirects 303 to the new schedule's detail page. 303 See Other tells the
// browser to follow with a GET, which is exactly what we want after a form
// POST (the POST-redirect-GET pattern).
func (h *ScheduleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, apperror.BadRequest("リクエストが正しくありません"))
		return
	}

	schedule, err := h.schedules.Create(r.Context(),
		user.ID,
		r.PostFormValue("scheduleName"),
		r.PostFormValue("memo"),
		r.PostFormValue("candidates"),
	)
	if err != nil {
		h.renderer.RenderError(w, err)
		return
	}

	http.Redirect(w, r, "/schedules/"+schedule.ID, http.StatusSeeOther)
}

// HandleDetail serves a schedule's detail page: candidates, the
// user × candidate availability matrix, and comments.
//
// HTTP: GET /schedules/{scheduleID}
func (h *ScheduleHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	detail, err := h.schedules.Detail(r.Context(), user, r.PathValue("scheduleID"))
	if err != nil {
		h.renderer.RenderError(w, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "schedule.html", map[string]any{
		"Title":      detail.Schedule.Name,
		"User":       user,
		"Schedule":   detail.Schedule,
		"Candidates": detail.Candidates,
		"Matrix":     detail.Matrix,
		"Comments":   detail.Comments,
		"IsCreator":  detail.Schedule.CreatedBy == user.ID,
	})
}

// HandleEditForm serves the edit form, creator only.
//
// HTTP: GET /schedules/{scheduleID}/edit
//
// Non-creators get a 404 — RenderError maps the service's Forbidden to
// NotFound so the page's existence isn't confirmed.
func (h *ScheduleHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	schedule, candidates, err := h.schedules.GetForEdit(r.Context(), user.ID, r.PathValue("scheduleID"))
	if err != nil {
		h.renderer.RenderError(w, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "edit.html", map[string]any{
		"Title":      "予定の編集",
		"User":       user,
		"Schedule":   schedule,
		"Candidates": candidates,
	})
}

// HandleUpdateOrDelete is the POST target of both the edit form and the
// delete button, distinguished by query parameter. Plain HTML forms can only
// GET and POST, so the verb rides in the query string.
//
// HTTP: POST /schedules/{scheduleID}?edit=1   → update, append candidates
// HTTP: POST /schedules/{scheduleID}?delete=1 → cascading delete
// Anything else → 400.
func (h *ScheduleHandler) HandleUpdateOrDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	scheduleID := r.PathValue("scheduleID")
	query := r.URL.Query()

	switch {
	case query.Get("edit") == "1":
		if err := r.ParseForm(); err != nil {
			h.renderer.RenderError(w, apperror.BadRequest("リクエストが正しくありません"))
			return
		}
		err := h.schedules.Update(r.Context(),
			user.ID,
			scheduleID,
			r.PostFormValue("scheduleName"),
			r.PostFormValue("memo"),
			r.PostFormValue("candidates"),
		)
		if err != nil {
			h.renderer.RenderError(w, err)
			return
		}
		http.Redirect(w, r, "/schedules/"+scheduleID, http.StatusSeeOther)

	case query.Get("delete") == "1":
		if err := h.schedules.Delete(r.Context(), user.ID, scheduleID); err != nil {
			h.renderer.RenderError(w, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		h.renderer.RenderError(w, apperror.BadRequest("不正なリクエストです"))
	}
}
