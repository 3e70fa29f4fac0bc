package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/osca-api/internal/models"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
)

type organizationRepository interface {
	FindByOrgID(ctx context.Context, orgID string) (*models.Organization, error)
}

type editorRepository interface {
	FindPrivilege(ctx context.Context, userID, orgID string) (*models.EditorPrivilege, error)
}

// AuthorizationGate decides whether an identity may publish for an organization.
type AuthorizationGate struct {
	orgs    organizationRepository
	editors editorRepository
	cache   *CacheService
	logger  *zap.Logger
}

// NewAuthorizationGate constructs the gate. cache may be nil.
func NewAuthorizationGate(orgs organizationRepository, editors editorRepository, cache *CacheService, logger *zap.Logger) *AuthorizationGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorizationGate{orgs: orgs, editors: editors, cache: cache, logger: logger}
}

// FindOrganization looks up an organization, consulting the cache first.
// Only existing organizations are cached.
func (g *AuthorizationGate) FindOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	var cached models.Organization
	if g.cache.Get(ctx, orgCacheKey(orgID), &cached) {
		return &cached, nil
	}

	org, err := g.orgs.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrOrgNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load organization")
	}
	g.cache.Set(ctx, orgCacheKey(orgID), org, 0)
	return org, nil
}

// Authorize checks, in order, that the organization exists, that the identity
// is one of its editors and that the membership is active. Privileges are
// never cached.
func (g *AuthorizationGate) Authorize(ctx context.Context, identity *models.Identity, orgID string) (*models.EditorPrivilege, error) {
	if identity == nil {
		return nil, appErrors.ErrNotAuthenticated
	}

	if _, err := g.FindOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	privilege, err := g.editors.FindPrivilege(ctx, identity.UserID, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotAnEditor
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load editor privilege")
	}

	if !privilege.Active() {
		g.logger.Info("revoked editor attempted a mutation",
			zap.String("user_id", identity.UserID),
			zap.String("org_id", orgID),
			zap.String("status", string(privilege.Status)))
		return nil, appErrors.ErrEditorRevoked
	}

	return privilege, nil
}

func orgCacheKey(orgID string) string {
	return "org:" + orgID
}
