package models

import "time"

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID          string    `db:"announcement_id" json:"announcement_id"`
	OrgID       string    `db:"org_id" json:"org_id"`
	EditorID    string    `db:"editor_id" json:"editor_id"`
	Title       string    `db:"title" json:"title"`
	Body        string    `db:"body" json:"body"`
	PublishesAt time.Time `db:"publishes_at" json:"publishes_at"`
	EndsAt      time.Time `db:"ends_at" json:"ends_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AnnouncementForm holds the raw, untrusted values submitted by an editor.
type AnnouncementForm struct {
	OrgID       string `form:"org_id" json:"org_id"`
	Title       string `form:"title" json:"title"`
	Body        string `form:"body" json:"body"`
	PublishesAt string `form:"publishes_at" json:"publishes_at"`
	EndsAt      string `form:"ends_at" json:"ends_at"`
}

// AnnouncementDraft is the typed candidate built from a form. Nil dates mark
// values that were absent or could not be parsed.
type AnnouncementDraft struct {
	OrgID       string     `validate:"min=4"`
	Title       string     `validate:"min=1,max=40"`
	Body        string     `validate:"min=1"`
	PublishesAt *time.Time `validate:"required"`
	EndsAt      *time.Time `validate:"required"`
}
