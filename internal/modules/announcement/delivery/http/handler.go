package handler

import (
	"dormhub.io/repairdesk/internal/modules/announcement/dto"
	"dormhub.io/repairdesk/internal/modules/announcement/service"
	"dormhub.io/repairdesk/pkg/response"
	"dormhub.io/repairdesk/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnnouncementHandler struct {
	service service.AnnouncementService
}

func NewAnnouncementHandler(service service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	announcement, err := h.service.CreateAnnouncement(c.Request.Context(), adminID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, announcement, "announcement created")
}

func (h *AnnouncementHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}

	announcement, err := h.service.GetAnnouncement(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, announcement, "")
}

func (h *AnnouncementHandler) List(c *gin.Context) {
	var q dto.ListAnnouncementsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	q.Normalize()

	announcements, total, err := h.service.ListAnnouncements(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKPage(c, announcements, response.NewPagination(q.Page, q.PageSize, total), "")
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	announcement, err := h.service.UpdateAnnouncement(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, announcement, "announcement updated")
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}

	if err := h.service.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, nil, "announcement deleted")
}
