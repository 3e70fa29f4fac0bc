package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/osca-api/pkg/config"
)

type testServer struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rawDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		OrgCache:  config.OrgCacheConfig{Enabled: true, TTL: time.Minute},
		Forms:     config.FormConfig{Location: time.UTC},
	}
	router, err := buildRouter(cfg, zap.NewNop(), sqlx.NewDb(rawDB, "sqlmock"), rdb)
	require.NoError(t, err)
	return &testServer{router: router, mock: mock, redis: mr}
}

func (s *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	s.mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password_hash", "name", "created_at"}).
			AddRow("u1", "ada@example.com", string(hash), "Ada", time.Now()))

	rec := s.do(formRequest("/api/v1/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"pw"}}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func announcementForm(publishIn, endIn time.Duration) url.Values {
	now := time.Now().UTC()
	return url.Values{
		"org_id":       {"acme"},
		"title":        {"Launch"},
		"body":         {"We ship today"},
		"publishes_at": {now.Add(publishIn).Format(time.RFC3339)},
		"ends_at":      {now.Add(endIn).Format(time.RFC3339)},
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestCreateAnnouncementRequiresSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(formRequest("/api/v1/announcements", announcementForm(24*time.Hour, 48*time.Hour)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"You are not Logged In!","redirect":null}`, rec.Body.String())
}

func TestLoginThenCreateAnnouncement(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	s.mock.ExpectQuery(`SELECT .+ FROM organizations WHERE org_id = \$1`).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"org_id", "name", "created_at"}).AddRow("acme", "Acme", time.Now()))
	s.mock.ExpectQuery(`SELECT .+ FROM editors WHERE user_id = \$1 AND org_id = \$2`).
		WithArgs("u1", "acme").
		WillReturnRows(sqlmock.NewRows([]string{"editor_id", "user_id", "org_id", "status"}).AddRow("ed1", "u1", "acme", "active"))
	s.mock.ExpectExec(`INSERT INTO announcements`).WillReturnResult(sqlmock.NewResult(1, 1))

	rec := s.do(formRequest("/api/v1/announcements", announcementForm(24*time.Hour, 48*time.Hour)), cookie)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"redirect":"/announcement/`)
	assert.NoError(t, s.mock.ExpectationsWereMet())
	assert.True(t, s.redis.Exists("osca:cache:org:acme"))
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token invalid or expired. Please log in again!")
}
