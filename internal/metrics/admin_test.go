package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	r := gin.New()
	r.LoadHTMLGlob("../../templates/*")
	r.Use(Tracker(s))
	r.GET("/privacy", Privacy)
	NewAdmin(s, Credentials{Username: "root", Password: "secret"}, zerolog.Nop()).Register(r)
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
	return r, s
}

func login(t *testing.T, r *gin.Engine, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {user}, "password": {pass}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackedPaths(t *testing.T) {
	assert.True(t, Tracked("/"))
	assert.True(t, Tracked("/contact-form"))
	for _, p := range []string{"/static/app.css", "/admin/dashboard", "/privacy", "/game", "/keys", "/api/game", "/healthz"} {
		assert.False(t, Tracked(p), p)
	}
}

func TestTrackerRespectsDoNotTrack(t *testing.T) {
	r, s := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/privacy", nil))
	s.Wait()

	visitors, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "/", visitors[0].Path)
}

func TestPrivacyPage(t *testing.T) {
	r, _ := newAdminRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/privacy", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardRequiresLogin(t *testing.T) {
	r, _ := newAdminRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newAdminRouter(t)

	w := login(t, r, "root", "wrong")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginThenStats(t *testing.T) {
	r, s := newAdminRouter(t)
	require.NoError(t, s.Record(context.Background(), "10.0.0.1", "ua", "/"))

	w := login(t, r, "root", "secret")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalVisitors)

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Total visitors")
}

func TestCleanupEndpoint(t *testing.T) {
	r, _ := newAdminRouter(t)
	cookie := login(t, r, "root", "secret").Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/admin/privacy/cleanup", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed":0`)
}
