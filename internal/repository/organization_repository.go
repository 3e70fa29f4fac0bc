package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/osca-api/internal/models"
)

// OrganizationRepository reads organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository creates the repository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// FindByOrgID returns the organization with the given org_id. sql.ErrNoRows is
// returned unwrapped when it does not exist.
func (r *OrganizationRepository) FindByOrgID(ctx context.Context, orgID string) (*models.Organization, error) {
	const query = `SELECT org_id, name, created_at FROM organizations WHERE org_id = $1 LIMIT 1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return &org, nil
}
