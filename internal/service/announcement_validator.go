package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/osca-api/internal/models"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
)

// formDateLayouts are tried in order. Layouts without a zone are read in the
// validator's location.
var formDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// announcementMessages maps "Field.tag" to the message shown to the editor.
var announcementMessages = map[string]string{
	"OrgID.min":            "Organization ID is required!",
	"Title.min":            "Title is required!",
	"Title.max":            "Title must be less than 40 characters!",
	"Body.min":             "Body is required!",
	"PublishesAt.required": "publishing date is required",
	"EndsAt.required":      "publishing ending date is required",
}

// AnnouncementValidator turns untrusted form input into a valid draft.
type AnnouncementValidator struct {
	validate *validator.Validate
	location *time.Location
}

// NewAnnouncementValidator constructs a validator. loc is used for dates
// submitted without a zone and defaults to UTC.
func NewAnnouncementValidator(validate *validator.Validate, loc *time.Location) *AnnouncementValidator {
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AnnouncementValidator{validate: validate, location: loc}
}

// ParseForm coerces raw form values. Absent or unparsable dates become nil so
// that they surface as validation failures.
func (v *AnnouncementValidator) ParseForm(form models.AnnouncementForm) models.AnnouncementDraft {
	return models.AnnouncementDraft{
		OrgID:       form.OrgID,
		Title:       form.Title,
		Body:        form.Body,
		PublishesAt: v.parseDate(form.PublishesAt),
		EndsAt:      v.parseDate(form.EndsAt),
	}
}

func (v *AnnouncementValidator) parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range formDateLayouts {
		if ts, err := time.ParseInLocation(layout, raw, v.location); err == nil {
			return &ts
		}
	}
	return nil
}

// Validate applies the schema, then the temporal rules, and reports only the
// first violation found.
func (v *AnnouncementValidator) Validate(draft models.AnnouncementDraft, now time.Time) (*models.AnnouncementDraft, error) {
	if err := v.validate.Struct(draft); err != nil {
		return nil, firstViolation(err)
	}

	if !draft.PublishesAt.After(now) {
		return nil, appErrors.ErrPublishInPast
	}
	if draft.PublishesAt.After(*draft.EndsAt) {
		return nil, appErrors.ErrEndsBeforePublish
	}

	return &draft, nil
}

func firstViolation(err error) error {
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate announcement")
	}
	first := violations[0]
	message, ok := announcementMessages[first.StructField()+"."+first.Tag()]
	if !ok {
		message = first.Error()
	}
	return appErrors.Wrap(first, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
