package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/osca-api/internal/models"
)

// EditorRepository reads editor memberships.
type EditorRepository struct {
	db *sqlx.DB
}

// NewEditorRepository creates the repository.
func NewEditorRepository(db *sqlx.DB) *EditorRepository {
	return &EditorRepository{db: db}
}

// FindPrivilege returns the editor row for (userID, orgID) regardless of status.
func (r *EditorRepository) FindPrivilege(ctx context.Context, userID, orgID string) (*models.EditorPrivilege, error) {
	const query = `SELECT editor_id, user_id, org_id, status FROM editors WHERE user_id = $1 AND org_id = $2 LIMIT 1`
	var privilege models.EditorPrivilege
	if err := r.db.GetContext(ctx, &privilege, query, userID, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find editor privilege: %w", err)
	}
	return &privilege, nil
}
