package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/osca-api/internal/models"
	"github.com/noah-isme/osca-api/internal/session"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
)

type stubResolver struct {
	identity *models.Identity
	err      error
}

func (s stubResolver) ResolveIdentity(ctx context.Context, store session.Store) (*models.Identity, error) {
	if s.err != nil {
		if errors.Is(s.err, appErrors.ErrTokenInvalidOrExpired) {
			store.Delete()
		}
		return nil, s.err
	}
	return s.identity, nil
}

func serveWithSession(resolver identityResolver) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireSession(resolver, session.CookieOptions{}), func(c *gin.Context) {
		c.String(http.StatusOK, IdentityFromContext(c).UserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "abc"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireSessionSetsIdentity(t *testing.T) {
	rec := serveWithSession(stubResolver{identity: &models.Identity{UserID: "u1"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRequireSessionRejectsInvalidToken(t *testing.T) {
	rec := serveWithSession(stubResolver{err: appErrors.ErrTokenInvalidOrExpired})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token invalid or expired")
	cookie := rec.Header().Get("Set-Cookie")
	require.NotEmpty(t, cookie)
	assert.True(t, strings.HasPrefix(cookie, session.DefaultCookieName+"=;"))
	assert.Contains(t, cookie, "Max-Age=0")
}

func TestRequireSessionHidesInternalErrors(t *testing.T) {
	rec := serveWithSession(stubResolver{err: errors.New("redis: connection refused")})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestIdentityFromContextMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, IdentityFromContext(c))
}
