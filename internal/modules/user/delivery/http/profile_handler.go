package handler

import (
	"dormhub.io/repairdesk/internal/modules/user/dto"
	user "dormhub.io/repairdesk/internal/modules/user/service"
	"dormhub.io/repairdesk/pkg/response"
	"dormhub.io/repairdesk/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service user.ProfileService
}

func NewProfileHandler(service user.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, profile, "")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, profile, "profile updated")
}
