package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/sakif/schedule-arranger/internal/model"
)

// Profile is a provider-agnostic identity: the subset of any OAuth
// provider's user object that this application actually needs.
//
// WHY NORMALIZE?
// Different providers shape their profiles differently — GitHub has "login",
// Facebook has "displayName", and some hand out IDs too long for our integer
// column. One normalization step at the auth boundary means the rest of the
// app only ever sees {ID, Username}.
type Profile struct {
	ID       int64
	Username string
}

// githubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the fields we need.
//
// GitHub API docs: https://docs.github.com/en/rest/users/users#get-the-authenticated-user
type githubUser struct {
	ID          int64  `json:"id"`    // GitHub's numeric user ID — stable, never changes
	Login       string `json:"login"` // GitHub username, e.g. "sakif"
	DisplayName string `json:"name"`  // optional display name (may be empty)
}

// NormalizeProfile maps a raw provider identity onto a Profile.
//
// Two quirks carried over from production experience with multiple providers:
//   - IDs longer than nine digits are truncated to their first nine digits so
//     they fit the integer user_id column.
//   - A display name, when present, is preferred over the login handle.
func NormalizeProfile(rawID int64, login, displayName string) Profile {
	id := rawID
	if s := strconv.FormatInt(rawID, 10); len(s) > 9 {
		id, _ = strconv.ParseInt(s[:9], 10, 64)
	}

	username := login
	if displayName != "" {
		username = displayName
	}

	return Profile{ID: id, Username: username}
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization Code flow.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
//  1. Our server redirects the user to GitHub's authorization endpoint.
//  2. The user approves the request on GitHub.
//  3. GitHub redirects back to our callback URL with a short-lived "code".
//  4. Our server exchanges the code for an access token (server-to-server,
//     using the client secret — the token never touches the browser).
//  5. Our server uses the token to fetch the user's profile.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a GitHubProvider with the given credentials.
//
// callbackURL must exactly match the "Authorization callback URL" configured
// in the GitHub OAuth app settings.
//
// We request the "user:email" scope — read-only access to the profile and
// email, nothing more.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// STATE PARAMETER:
// The state is a random string we generate and store in a cookie before
// redirecting. When GitHub calls back, we verify the returned state matches
// our cookie. This prevents CSRF attacks where an attacker tricks a browser
// into completing an OAuth flow for the attacker's account.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// normalized user profile.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*model.User, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that automatically adds
	// the "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}

	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	profile := NormalizeProfile(ghUser.ID, ghUser.Login, ghUser.DisplayName)
	return &model.User{ID: profile.ID, Username: profile.Username}, nil
}
