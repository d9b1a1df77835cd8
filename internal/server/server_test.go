package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/auth"
	"github.com/sakif/schedule-arranger/internal/config"
	"github.com/sakif/schedule-arranger/internal/model"
)

const testSecret = "test-secret-at-least-16-chars!!"

// newTestServer wires a full server against a throwaway database, with
// template and static paths resolved relative to this package.
func newTestServer(t *testing.T) (*Server, *auth.TokenService) {
	t.Helper()

	cfg := config.Config{
		Port:          0,
		DBPath:        filepath.Join(t.TempDir(), "test.db"),
		TemplateDir:   "../../web/templates",
		StaticDir:     "../../web/static",
		SessionSecret: testSecret,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.db.Close() })

	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	return s, tokens
}

// loginAs upserts the user and returns a valid session cookie for them.
func loginAs(t *testing.T, s *Server, tokens *auth.TokenService, user *model.User) *http.Cookie {
	t.Helper()
	require.NoError(t, s.db.Users.Upsert(context.Background(), user))

	signed, err := tokens.Generate(user)
	require.NoError(t, err)

	return &http.Cookie{Name: auth.SessionCookie, Value: signed}
}

func get(t *testing.T, s *Server, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, s *Server, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

// createSchedule posts the creation form and returns the new schedule's ID
// extracted from the redirect.
func createSchedule(t *testing.T, s *Server, cookie *http.Cookie, name, memo, candidates string) string {
	t.Helper()
	rec := postForm(t, s, "/schedules", url.Values{
		"scheduleName": {name},
		"memo":         {memo},
		"candidates":   {candidates},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/schedules/"), "redirect = %q", location)
	return strings.TrimPrefix(location, "/schedules/")
}

func TestHomePage_Anonymous(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ログイン")
}

func TestLoginPage_LinksToGitHub(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/auth/github")
}

func TestProtectedRoutes_RedirectAnonymousToLogin(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/schedules/new", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?from=%2Fschedules%2Fnew", rec.Header().Get("Location"))
}

func TestScheduleCreateAndDetail(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})

	scheduleID := createSchedule(t, s, cookie,
		"テスト予定1", "テストメモ1\r\nテストメモ2", "テスト候補1\nテスト候補2\nテスト候補3")

	rec := get(t, s, "/schedules/"+scheduleID, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "テスト予定1")
	assert.Contains(t, body, "テストメモ1")
	assert.Contains(t, body, "テストメモ2")
	assert.Contains(t, body, "テスト候補1")
	assert.Contains(t, body, "テスト候補2")
	assert.Contains(t, body, "テスト候補3")
	assert.Contains(t, body, "testuser")
}

func TestScheduleDetail_UnknownID(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})

	rec := get(t, s, "/schedules/nonexistent-id", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "指定された予定は見つかりません")
}

func TestAvailabilityUpdate(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})
	scheduleID := createSchedule(t, s, cookie, "テスト予定1", "", "テスト候補1")

	candidates, err := s.db.Candidates.ListByScheduleID(context.Background(), scheduleID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	rec := postForm(t, s,
		"/schedules/"+scheduleID+"/users/1/candidates/"+int64String(candidates[0].ID),
		url.Values{"availability": {"2"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","availability":2}`, rec.Body.String())

	rows, err := s.db.Availabilities.ListByScheduleID(context.Background(), scheduleID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.AvailabilityPresent, rows[0].Availability.Availability)
}

func TestAvailabilityUpdate_MissingValueDefaultsToAbsent(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})
	scheduleID := createSchedule(t, s, cookie, "テスト予定1", "", "テスト候補1")

	candidates, err := s.db.Candidates.ListByScheduleID(context.Background(), scheduleID)
	require.NoError(t, err)

	rec := postForm(t, s,
		"/schedules/"+scheduleID+"/users/1/candidates/"+int64String(candidates[0].ID),
		url.Values{}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","availability":0}`, rec.Body.String())
}

func TestCommentUpdate(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})
	scheduleID := createSchedule(t, s, cookie, "テスト予定1", "", "テスト候補1")

	rec := postForm(t, s,
		"/schedules/"+scheduleID+"/users/1/comments",
		url.Values{"comment": {"testcomment"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","comment":"testcomment"}`, rec.Body.String())

	detail := get(t, s, "/schedules/"+scheduleID, cookie)
	assert.Contains(t, detail.Body.String(), "testcomment")
}

func TestScheduleEdit_AppendsCandidates(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})
	scheduleID := createSchedule(t, s, cookie, "テスト予定1", "", "テスト候補1")

	rec := postForm(t, s, "/schedules/"+scheduleID+"?edit=1", url.Values{
		"scheduleName": {"テスト予定2"},
		"memo":         {"テストメモ2"},
		"candidates":   {"テスト候補2"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/schedules/"+scheduleID, rec.Header().Get("Location"))

	detail := get(t, s, "/schedules/"+scheduleID, cookie)
	body := detail.Body.String()
	assert.Contains(t, body, "テスト予定2")
	assert.Contains(t, body, "テスト候補1") // existing candidates survive an edit
	assert.Contains(t, body, "テスト候補2")
}

func TestScheduleEdit_NonCreatorGets404(t *testing.T) {
	s, tokens := newTestServer(t)
	creator := loginAs(t, s, tokens, &model.User{ID: 1, Username: "creator"})
	other := loginAs(t, s, tokens, &model.User{ID: 2, Username: "other"})
	scheduleID := createSchedule(t, s, creator, "テスト予定1", "", "テスト候補1")

	rec := get(t, s, "/schedules/"+scheduleID+"/edit", other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The POST target hides itself the same way.
	update := postForm(t, s, "/schedules/"+scheduleID+"?edit=1", url.Values{
		"scheduleName": {"乗っ取り"},
	}, other)
	assert.Equal(t, http.StatusNotFound, update.Code)
}

func TestSchedulePost_UnknownQueryIs400(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})
	scheduleID := createSchedule(t, s, cookie, "テスト予定1", "", "")

	rec := postForm(t, s, "/schedules/"+scheduleID, url.Values{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleDelete_CascadesEverything(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})
	scheduleID := createSchedule(t, s, cookie, "テスト予定1", "", "テスト候補1")
	ctx := context.Background()

	candidates, err := s.db.Candidates.ListByScheduleID(ctx, scheduleID)
	require.NoError(t, err)

	// Leave an availability and a comment behind so the cascade has work.
	postForm(t, s,
		"/schedules/"+scheduleID+"/users/1/candidates/"+int64String(candidates[0].ID),
		url.Values{"availability": {"2"}}, cookie)
	postForm(t, s,
		"/schedules/"+scheduleID+"/users/1/comments",
		url.Values{"comment": {"testcomment"}}, cookie)

	rec := postForm(t, s, "/schedules/"+scheduleID+"?delete=1", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, err = s.db.Schedules.GetByID(ctx, scheduleID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "schedule survived delete: %v", err)

	remaining, err := s.db.Candidates.ListByScheduleID(ctx, scheduleID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	rows, err := s.db.Availabilities.ListByScheduleID(ctx, scheduleID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	comments, err := s.db.Comments.ListByScheduleID(ctx, scheduleID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestHomePage_ListsOwnSchedules(t *testing.T) {
	s, tokens := newTestServer(t)
	mine := loginAs(t, s, tokens, &model.User{ID: 1, Username: "mine"})
	theirs := loginAs(t, s, tokens, &model.User{ID: 2, Username: "theirs"})

	createSchedule(t, s, mine, "わたしの予定", "", "")
	createSchedule(t, s, theirs, "ほかの人の予定", "", "")

	rec := get(t, s, "/", mine)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "わたしの予定")
	assert.NotContains(t, rec.Body.String(), "ほかの人の予定")
}

func TestLogout_ClearsSessionAndRedirects(t *testing.T) {
	s, tokens := newTestServer(t)
	cookie := loginAs(t, s, tokens, &model.User{ID: 1, Username: "testuser"})

	rec := get(t, s, "/logout", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout did not expire the session cookie")
}

func int64String(n int64) string {
	return strconv.FormatInt(n, 10)
}
