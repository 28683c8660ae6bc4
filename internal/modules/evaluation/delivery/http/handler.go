package handler

import (
	"dormhub.io/repairdesk/internal/modules/evaluation/dto"
	"dormhub.io/repairdesk/internal/modules/evaluation/service"
	"dormhub.io/repairdesk/pkg/response"
	"dormhub.io/repairdesk/pkg/validator"
	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct {
	service service.EvaluationService
}

func NewEvaluationHandler(service service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: service}
}

func (h *EvaluationHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	evaluation, err := h.service.CreateEvaluation(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, evaluation, "evaluation created")
}

func (h *EvaluationHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var q dto.ListEvaluationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	q.Normalize()

	evaluations, total, err := h.service.ListMyEvaluations(c.Request.Context(), userID, q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKPage(c, evaluations, response.NewPagination(q.Page, q.PageSize, total), "")
}

func (h *EvaluationHandler) ListAll(c *gin.Context) {
	var q dto.ListEvaluationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	q.Normalize()

	evaluations, total, err := h.service.ListAllEvaluations(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKPage(c, evaluations, response.NewPagination(q.Page, q.PageSize, total), "")
}
