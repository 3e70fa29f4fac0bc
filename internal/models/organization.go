package models

import "time"

// Organization is a tenant identified by a human-chosen org_id.
type Organization struct {
	OrgID     string    `db:"org_id" json:"org_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
