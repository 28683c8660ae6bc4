package handler

import (
	"dormhub.io/repairdesk/internal/modules/order/dto"
	"dormhub.io/repairdesk/internal/modules/order/service"
	"dormhub.io/repairdesk/pkg/response"
	"dormhub.io/repairdesk/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order, "order created")
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	role, err := response.GetRole(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), userID, role, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order, "")
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var q dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	q.Normalize()

	orders, total, err := h.service.ListMyOrders(c.Request.Context(), userID, q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKPage(c, orders, response.NewPagination(q.Page, q.PageSize, total), "")
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	var q dto.AdminListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	q.Normalize()

	orders, total, err := h.service.ListAllOrders(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKPage(c, orders, response.NewPagination(q.Page, q.PageSize, total), "")
}

func (h *OrderHandler) ListPending(c *gin.Context) {
	orders, err := h.service.ListPendingOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, orders, "")
}

func (h *OrderHandler) Accept(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.service.AcceptOrder(c.Request.Context(), adminID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"order_id": order.ID, "status": order.Status}, "order accepted")
}

func (h *OrderHandler) Complete(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req dto.CompleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	order, err := h.service.CompleteOrder(c.Request.Context(), adminID, orderID, req.CompletionImageURLs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"order_id": order.ID, "status": order.Status, "completed_at": order.CompletedAt}, "order completed")
}
