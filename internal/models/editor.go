package models

// EditorStatus reports whether an editor membership is still in force.
type EditorStatus string

const (
	EditorStatusActive  EditorStatus = "active"
	EditorStatusRevoked EditorStatus = "revoked"
)

// EditorPrivilege links a user to an organization they may publish for.
type EditorPrivilege struct {
	EditorID string       `db:"editor_id" json:"editor_id"`
	UserID   string       `db:"user_id" json:"user_id"`
	OrgID    string       `db:"org_id" json:"org_id"`
	Status   EditorStatus `db:"status" json:"status"`
}

// Active reports whether the privilege currently grants editor rights.
func (p *EditorPrivilege) Active() bool {
	return p != nil && p.Status == EditorStatusActive
}
