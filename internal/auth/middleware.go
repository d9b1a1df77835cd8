package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sakif/schedule-arranger/internal/model"
)

// SessionCookie is the name of the HttpOnly cookie holding the JWT.
const SessionCookie = "session"

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type prevents other packages from reading or
// shadowing the user value with a colliding string key.
type contextKey string

const userKey contextKey = "user"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the session cookie, validates it, and stores the
// user in the request context. If the token is missing or invalid, the
// browser is redirected to /login?from=<original URL> so the login flow can
// bounce the user back to where they were heading — a 401 would dead-end a
// human clicking a shared schedule link.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := extractUser(r, tokens)
			if err != nil {
				http.Redirect(w, r,
					"/login?from="+url.QueryEscape(r.URL.RequestURI()),
					http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the user identity if a valid session is present, but
// does not block the request if it's missing or invalid.
//
// Used on public pages like / and /login where anonymous visitors are fine
// but logged-in users should see their own name and schedules.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := extractUser(r, tokens); err == nil {
				ctx := context.WithValue(r.Context(), userKey, user)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) if the request is anonymous.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// extractUser reads the session cookie and validates it.
func extractUser(r *http.Request, tokens *TokenService) (*model.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — not an error, just anonymous
		return nil, err
	}
	return tokens.Validate(cookie.Value)
}
