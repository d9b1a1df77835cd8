package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/schedule-arranger/internal/auth"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// AuthHandler manages the GitHub OAuth login flow and session management.
//
//   - HandleGitHubLogin    → redirect the browser to GitHub's authorization page
//   - HandleGitHubCallback → receive the code, exchange it for a user, issue the session cookie
//   - HandleLogout         → clear the session cookie and go home
type AuthHandler struct {
	github *auth.GitHubProvider
	tokens *auth.TokenService
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(
	github *auth.GitHubProvider,
	tokens *auth.TokenService,
	users repository.UserRepository,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		github: github,
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /auth/github
//
// CSRF PROTECTION VIA STATE:
// We generate a random state string and store it in a short-lived cookie.
// When GitHub calls back, HandleGitHubCallback verifies the state matches.
// This proves the callback was initiated by this server, not a CSRF attacker.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth login flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a normalized user profile
//  3. Upsert the user row — it must exist before any schedule or
//     availability references it
//  4. Issue the JWT session cookie
//  5. Redirect to wherever the user was originally heading (loginFrom
//     cookie), or the home page
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// State cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// GitHub reports "the user said no" via an error query parameter.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	user, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	if err := h.users.Upsert(r.Context(), user); err != nil {
		h.logger.Error("auth callback: upsert failed",
			slog.Int64("userID", user.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user authenticated",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	tokenStr, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.Error("auth callback: token generation failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// HttpOnly = JavaScript cannot read the cookie (XSS protection).
	// SameSite=Lax = sent on top-level navigations but not cross-site POSTs.
	// Secure should be true in production (HTTPS only).
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.loginDestination(w, r), http.StatusSeeOther)
}

// loginDestination resolves where to send the user after login: the
// loginFrom cookie target when present (and plausible), otherwise "/".
// The cookie is cleared either way.
func (h *AuthHandler) loginDestination(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(loginFromCookie)
	if err != nil || cookie.Value == "" {
		return "/"
	}

	http.SetCookie(w, &http.Cookie{
		Name:   loginFromCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// Only same-site paths — a full URL here would be an open redirect.
	if !strings.HasPrefix(cookie.Value, "/") || strings.HasPrefix(cookie.Value, "//") {
		return "/"
	}
	return cookie.Value
}

// HandleLogout clears the session cookie and redirects home.
//
// HTTP: GET /logout
//
// Sessions are stateless JWTs, so "logout" just means deleting the cookie.
// The token remains technically valid until it expires, but without the
// cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}
