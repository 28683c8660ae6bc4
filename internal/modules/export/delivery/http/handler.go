package handler

import (
	"fmt"
	"net/http"
	"time"

	"dormhub.io/repairdesk/internal/modules/export/service"
	orderdto "dormhub.io/repairdesk/internal/modules/order/dto"
	"dormhub.io/repairdesk/pkg/response"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	service service.ExportService
}

func NewExportHandler(service service.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ExportOrders streams an xlsx workbook of the filtered orders.
func (h *ExportHandler) ExportOrders(c *gin.Context) {
	var q orderdto.AdminListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	f, err := h.service.ExportOrders(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.FileName(time.Now())))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; all we can do is log via the envelope path.
		c.Error(err) //nolint:errcheck
	}
}
