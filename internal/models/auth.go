package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload carried by a session token.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Identity is the verified caller for the duration of a single request.
type Identity struct {
	UserID    string    `json:"user_id"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// LoginResult mirrors the form-state contract of the login page.
type LoginResult struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}
