package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/schedule-arranger/internal/auth"
	"github.com/sakif/schedule-arranger/internal/service"
)

// loginFromCookie remembers where an unauthenticated user was heading so the
// OAuth callback can send them back there after login.
const loginFromCookie = "loginFrom"

// PageHandler serves the public pages: the home page and the login page.
type PageHandler struct {
	renderer  *Renderer
	schedules *service.ScheduleService
	logger    *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(renderer *Renderer, schedules *service.ScheduleService, logger *slog.Logger) *PageHandler {
	return &PageHandler{renderer: renderer, schedules: schedules, logger: logger}
}

// HandleHome serves the home page.
//
// HTTP: GET /
// Anonymous visitors get a welcome page with a login link; logged-in users
// also see their own schedules, most recently updated first.
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "予定調整くん",
	}

	if user, ok := auth.UserFromContext(r.Context()); ok {
		schedules, err := h.schedules.ListMine(r.Context(), user.ID)
		if err != nil {
			h.renderer.RenderError(w, err)
			return
		}
		data["User"] = user
		data["Schedules"] = schedules
	}

	h.renderer.Render(w, http.StatusOK, "index.html", data)
}

// HandleLogin serves the login page.
//
// HTTP: GET /login?from=<redirect target>
//
// When the auth middleware bounces an unauthenticated request here, the
// original URL arrives in the "from" query parameter. We stash it in a
// short-lived cookie; the OAuth callback reads it after GitHub redirects
// back, by which point the query parameter is long gone.
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if from := r.URL.Query().Get("from"); from != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     loginFromCookie,
			Value:    from,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	data := map[string]any{
		"Title": "ログイン",
	}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		data["User"] = user
	}

	h.renderer.Render(w, http.StatusOK, "login.html", data)
}
