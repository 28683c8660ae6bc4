package response

import (
	"net/http"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the uniform response shape consumed by the mini-program client:
// code mirrors the HTTP status, 200 signals success, data is null on error.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Pagination is the list metadata attached to paginated reads.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// OK writes a success envelope.
func OK(c *gin.Context, data interface{}, message string) {
	if message == "" {
		message = "success"
	}
	c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Message: message, Data: data})
}

// OKPage writes a success envelope wrapping a paginated list.
func OKPage(c *gin.Context, list interface{}, p Pagination, message string) {
	OK(c, PageData{List: list, Pagination: p}, message)
}

// Error maps err through the apperror taxonomy and writes an error envelope.
// Internal failures are logged and surfaced without detail.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		message = "internal server error"
	}
	c.JSON(code, Envelope{Code: code, Message: message, Data: nil})
}

// BadRequest writes a 400 envelope with a caller-facing message, used by
// handlers for binding failures.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Code: http.StatusBadRequest, Message: message, Data: nil})
}

// GetUserID retrieves the authenticated user ID set by the auth middleware.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// GetRole retrieves the authenticated role set by the auth middleware.
func GetRole(c *gin.Context) (entity.Role, error) {
	raw, exists := c.Get("role")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	role := entity.Role(raw.(string))
	if !role.Valid() {
		return "", apperror.ErrUnauthorized
	}

	return role, nil
}
