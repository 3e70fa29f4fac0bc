package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/osca-api/internal/models"
	"github.com/noah-isme/osca-api/internal/session"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
)

type tokenVerifier interface {
	Verify(token string) (*models.TokenClaims, error)
}

type revocationLookup interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionResolver turns the session token held by a request into an Identity.
type SessionResolver struct {
	codec       tokenVerifier
	revocations revocationLookup
	logger      *zap.Logger
}

// NewSessionResolver constructs a resolver. revocations may be nil when
// logout revocation is not tracked.
func NewSessionResolver(codec tokenVerifier, revocations revocationLookup, logger *zap.Logger) *SessionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionResolver{codec: codec, revocations: revocations, logger: logger}
}

// ResolveIdentity verifies the token in store. A token that fails verification
// is removed from store before the error is returned.
func (r *SessionResolver) ResolveIdentity(ctx context.Context, store session.Store) (*models.Identity, error) {
	token, ok := store.Get()
	if !ok {
		return nil, appErrors.ErrNotAuthenticated
	}

	claims, err := r.codec.Verify(token)
	if err != nil {
		store.Delete()
		r.logger.Warn("unverified session token", zap.Error(err))
		return nil, appErrors.ErrTokenInvalidOrExpired
	}

	if r.revocations != nil {
		revoked, err := r.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check session revocation")
		}
		if revoked {
			store.Delete()
			r.logger.Warn("revoked session token presented", zap.String("user_id", claims.UserID))
			return nil, appErrors.ErrTokenInvalidOrExpired
		}
	}

	identity := &models.Identity{UserID: claims.UserID, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// IsSessionFailure reports whether err came from session resolution rather
// than from an internal fault.
func IsSessionFailure(err error) bool {
	return errors.Is(err, appErrors.ErrNotAuthenticated) || errors.Is(err, appErrors.ErrTokenInvalidOrExpired)
}
