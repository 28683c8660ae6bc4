package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what order event produced the notification.
type NotificationType string

const (
	NotificationOrderAccepted  NotificationType = "order_accepted"
	NotificationOrderCompleted NotificationType = "order_completed"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID   *uuid.UUID       `gorm:"type:uuid" json:"order_id,omitempty"`
	Type      NotificationType `gorm:"size:50;not null" json:"type"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
}
