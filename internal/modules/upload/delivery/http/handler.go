package handler

import (
	"mime/multipart"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/upload/service"
	"dormhub.io/repairdesk/pkg/response"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service service.UploadService
}

func NewUploadHandler(service service.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// UploadRepairImages accepts the student's evidence photos before an order is
// filed. The client sends multipart form data with one "image" field or
// several "images" fields.
func (h *UploadHandler) UploadRepairImages(c *gin.Context) {
	h.upload(c, entity.UploadRepair)
}

// UploadCompletionImages accepts the admin's proof photos before completing
// an order.
func (h *UploadHandler) UploadCompletionImages(c *gin.Context) {
	h.upload(c, entity.UploadCompletion)
}

func (h *UploadHandler) upload(c *gin.Context, kind entity.UploadKind) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "expected multipart form data")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		if single := form.File["image"]; len(single) > 0 {
			files = []*multipart.FileHeader{single[0]}
		}
	}

	urls, err := h.service.UploadImages(c.Request.Context(), userID, kind, files)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"urls": urls}, "upload complete")
}
