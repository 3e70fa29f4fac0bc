package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/osca-api/internal/models"
	"github.com/noah-isme/osca-api/internal/session"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
)

const loginSucceededMessage = "Logged in successfully!"

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type tokenIssuer interface {
	Issue(userID string) (string, *models.TokenClaims, error)
	Verify(token string) (*models.TokenClaims, error)
}

type sessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthService signs users in and out by managing the session token.
type AuthService struct {
	users       authUserRepository
	codec       tokenIssuer
	revocations sessionRevoker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthService constructs an AuthService instance. revocations may be nil,
// in which case logout only clears the cookie.
func NewAuthService(users authUserRepository, codec tokenIssuer, revocations sessionRevoker, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{users: users, codec: codec, revocations: revocations, validator: validate, logger: logger}
}

// Login checks the credentials and, on success, stores a fresh session token.
// Like the announcement pipeline it reports failures through the result.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, store session.Store) models.LoginResult {
	if err := s.login(ctx, req, store); err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrInternal.Code {
			s.logger.Error("login failed", zap.Error(err))
		}
		return models.LoginResult{Error: true, Message: appErrors.UserMessage(err), Status: appErr.Status}
	}
	return models.LoginResult{Error: false, Message: loginSucceededMessage, Status: http.StatusOK}
}

func (s *AuthService) login(ctx context.Context, req models.LoginRequest, store session.Store) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.ErrBadPassword
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrBadPassword
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return appErrors.ErrBadPassword
	}

	token, claims, err := s.codec.Issue(user.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue session token")
	}
	store.Set(token, claims.ExpiresAt.Time)

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return nil
}

// Logout revokes the current token, if it still verifies, and clears it from
// store. The cookie is removed even when revocation fails.
func (s *AuthService) Logout(ctx context.Context, store session.Store) error {
	token, ok := store.Get()
	if !ok {
		return nil
	}
	defer store.Delete()

	claims, err := s.codec.Verify(token)
	if err != nil || s.revocations == nil {
		return nil
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revocations.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke session")
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}
