package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/osca-api/internal/middleware"
	"github.com/noah-isme/osca-api/internal/models"
	"github.com/noah-isme/osca-api/internal/session"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
	"github.com/noah-isme/osca-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest, store session.Store) models.LoginResult
	Logout(ctx context.Context, store session.Store) error
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookies session.CookieOptions
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookies session.CookieOptions) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies}
}

// Login godoc
// @Summary Sign in
// @Description Checks email and password and sets the session cookie
// @Tags Authentication
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResult
// @Failure 401 {object} models.LoginResult
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		req = models.LoginRequest{}
	}

	result := h.service.Login(c.Request.Context(), req, session.NewCookieStore(c, h.cookies))
	status := result.Status
	if status == 0 {
		status = http.StatusOK
	}
	response.Raw(c, status, result)
}

// Logout godoc
// @Summary Sign out
// @Description Revokes the session token and clears the cookie
// @Tags Authentication
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), session.NewCookieStore(c, h.cookies)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current identity
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrNotAuthenticated)
		return
	}
	response.JSON(c, http.StatusOK, identity)
}
