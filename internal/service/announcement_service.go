package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/osca-api/internal/models"
	"github.com/noah-isme/osca-api/internal/session"
	appErrors "github.com/noah-isme/osca-api/pkg/errors"
)

const announcementCreatedMessage = "The announcement was created successfully!"

type announcementRepository interface {
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
}

type identityResolver interface {
	ResolveIdentity(ctx context.Context, store session.Store) (*models.Identity, error)
}

type editorAuthorizer interface {
	Authorize(ctx context.Context, identity *models.Identity, orgID string) (*models.EditorPrivilege, error)
}

// AnnouncementService runs the announcement creation pipeline and serves
// persisted announcements.
type AnnouncementService struct {
	repo      announcementRepository
	sessions  identityResolver
	gate      editorAuthorizer
	validator *AnnouncementValidator
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, sessions identityResolver, gate editorAuthorizer, validator *AnnouncementValidator, metrics *MetricsService, logger *zap.Logger) *AnnouncementService {
	if validator == nil {
		validator = NewAnnouncementValidator(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		repo:      repo,
		sessions:  sessions,
		gate:      gate,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateAnnouncement runs session check, authorization, validation and the
// insert, in that order, stopping at the first failure. It never returns an
// error: failures are reported through the result, derived from previous.
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, previous models.PipelineResult, store session.Store, form models.AnnouncementForm) (result models.PipelineResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = s.fail(previous, appErrors.Wrap(fmt.Errorf("panic: %v", r), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "announcement pipeline panicked"), form.OrgID, start)
		}
	}()

	announcement, err := s.create(ctx, store, form)
	if err != nil {
		return s.fail(previous, err, form.OrgID, start)
	}

	s.metrics.RecordPipelineResult("CREATED", time.Since(start))
	s.logger.Info("announcement created",
		zap.String("announcement_id", announcement.ID),
		zap.String("org_id", announcement.OrgID),
		zap.String("editor_id", announcement.EditorID))

	return models.Succeed(announcementCreatedMessage, "/announcement/"+announcement.ID)
}

func (s *AnnouncementService) create(ctx context.Context, store session.Store, form models.AnnouncementForm) (*models.Announcement, error) {
	candidate := s.validator.ParseForm(form)

	identity, err := s.sessions.ResolveIdentity(ctx, store)
	if err != nil {
		return nil, err
	}

	privilege, err := s.gate.Authorize(ctx, identity, candidate.OrgID)
	if err != nil {
		return nil, err
	}

	draft, err := s.validator.Validate(candidate, s.now())
	if err != nil {
		return nil, err
	}

	announcement := &models.Announcement{
		OrgID:       draft.OrgID,
		EditorID:    privilege.EditorID,
		Title:       draft.Title,
		Body:        draft.Body,
		PublishesAt: draft.PublishesAt.UTC(),
		EndsAt:      draft.EndsAt.UTC(),
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return announcement, nil
}

func (s *AnnouncementService) fail(previous models.PipelineResult, err error, orgID string, start time.Time) models.PipelineResult {
	appErr := appErrors.FromError(err)
	s.metrics.RecordPipelineResult(appErr.Code, time.Since(start))
	if appErr.Code == appErrors.ErrInternal.Code {
		s.logger.Error("announcement pipeline failed", zap.String("org_id", orgID), zap.Error(err))
	} else {
		s.logger.Debug("announcement rejected", zap.String("org_id", orgID), zap.String("code", appErr.Code))
	}
	failed := previous.Fail(appErrors.UserMessage(err))
	failed.Status = appErr.Status
	return failed
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	ann, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get announcement")
	}
	return ann, nil
}
