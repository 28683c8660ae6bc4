package dto

import (
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"github.com/google/uuid"
)

type CreateEvaluationRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Rating  int       `json:"rating" binding:"required"`
	Content *string   `json:"content"`
}

// EvaluationItem is the listing projection: the rating joined with the
// context of the order it rates. Student fields are filled only on the
// admin view.
type EvaluationItem struct {
	EvaluationID     uuid.UUID `json:"evaluation_id"`
	OrderID          uuid.UUID `json:"order_id"`
	Rating           int       `json:"rating"`
	Content          *string   `json:"content,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	RepairType       string    `json:"repair_type,omitempty"`
	OrderDescription string    `json:"order_description,omitempty"`
	Username         string    `json:"username,omitempty"`
	RealName         *string   `json:"real_name,omitempty"`
}

func NewEvaluationItem(e entity.Evaluation, withStudent bool) EvaluationItem {
	item := EvaluationItem{
		EvaluationID: e.ID,
		OrderID:      e.OrderID,
		Rating:       e.Rating,
		Content:      e.Content,
		CreatedAt:    e.CreatedAt,
	}

	if e.Order != nil {
		item.RepairType = e.Order.RepairType
		item.OrderDescription = e.Order.Description

		if withStudent && e.Order.User != nil {
			item.Username = e.Order.User.Username
			item.RealName = e.Order.User.RealName
		}
	}
	return item
}

type ListEvaluationsQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (q *ListEvaluationsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}
}
