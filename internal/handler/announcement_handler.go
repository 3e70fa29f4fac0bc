package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/osca-api/internal/models"
	"github.com/noah-isme/osca-api/internal/session"
	"github.com/noah-isme/osca-api/pkg/response"
)

type announcementService interface {
	CreateAnnouncement(ctx context.Context, previous models.PipelineResult, store session.Store, form models.AnnouncementForm) models.PipelineResult
	Get(ctx context.Context, id string) (*models.Announcement, error)
}

// AnnouncementHandler exposes the announcement form action.
type AnnouncementHandler struct {
	service announcementService
	cookies session.CookieOptions
}

// NewAnnouncementHandler constructs an AnnouncementHandler.
func NewAnnouncementHandler(svc announcementService, cookies session.CookieOptions) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc, cookies: cookies}
}

// Create godoc
// @Summary Create announcement
// @Description Runs the announcement form action for the editor holding the session cookie
// @Tags Announcements
// @Accept x-www-form-urlencoded
// @Produce json
// @Param org_id formData string true "Organization ID"
// @Param title formData string true "Title (1-40 characters)"
// @Param body formData string true "Body"
// @Param publishes_at formData string true "Publishing date"
// @Param ends_at formData string true "Publishing end date"
// @Success 201 {object} models.PipelineResult
// @Failure 400 {object} models.PipelineResult
// @Failure 401 {object} models.PipelineResult
// @Failure 403 {object} models.PipelineResult
// @Failure 404 {object} models.PipelineResult
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var form models.AnnouncementForm
	if err := c.ShouldBind(&form); err != nil {
		// An unreadable body is treated as an empty form.
		form = models.AnnouncementForm{}
	}

	result := h.service.CreateAnnouncement(c.Request.Context(), models.PipelineResult{}, session.NewCookieStore(c, h.cookies), form)
	status := result.Status
	if status == 0 {
		status = http.StatusOK
	}
	response.Raw(c, status, result)
}

// Get godoc
// @Summary Get announcement
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcement/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	announcement, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement)
}
