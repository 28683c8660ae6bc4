package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the repair order lifecycle state. Transitions are linear:
// pending -> processing -> completed. completed is terminal.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// CanAdvance reports whether the order may move from s to target. This is the
// single legality table; services never compare status strings themselves.
func (s OrderStatus) CanAdvance(target OrderStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing
	case StatusProcessing:
		return target == StatusCompleted
	}
	return false
}

type RepairOrder struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"order_id"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User             `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	RepairType       string            `gorm:"size:50;not null" json:"repair_type"`
	Building         string            `gorm:"size:50;not null" json:"building"`
	RoomNumber       string            `gorm:"size:20;not null" json:"room_number"`
	ContactPhone     string            `gorm:"size:20;not null" json:"contact_phone"`
	Description      string            `gorm:"type:text;not null" json:"description"`
	Status           OrderStatus       `gorm:"size:20;not null;default:pending;index" json:"status"`
	AdminID          *uuid.UUID        `gorm:"type:uuid;index" json:"admin_id,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	Images           []OrderImage      `gorm:"foreignKey:OrderID" json:"images,omitempty"`
	CompletionImages []CompletionImage `gorm:"foreignKey:OrderID" json:"completion_images,omitempty"`
	Evaluation       *Evaluation       `gorm:"foreignKey:OrderID" json:"evaluation,omitempty"`
}

func (o *RepairOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Advance mutates the order toward target after checking the legality table
// and keeps the adminId/completedAt fields in sync with the state:
// claiming records the handling admin, completing stamps completedAt once.
func (o *RepairOrder) Advance(target OrderStatus, adminID uuid.UUID, now time.Time) error {
	if !o.Status.CanAdvance(target) {
		return fmt.Errorf("order %s cannot move from %s to %s", o.ID, o.Status, target)
	}

	switch target {
	case StatusProcessing:
		o.AdminID = &adminID
	case StatusCompleted:
		o.CompletedAt = &now
	}
	o.Status = target
	return nil
}

// OrderImage is submission evidence attached by the student. Rows are written
// only inside the order-creation transaction and never change afterwards.
type OrderImage struct {
	ID        uint      `gorm:"primaryKey" json:"image_id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CompletionImage is proof evidence attached by the handling admin. Rows are
// written only inside the order-completion transaction.
type CompletionImage struct {
	ID         uint       `gorm:"primaryKey" json:"image_id"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ImageURL   string     `gorm:"type:text;not null" json:"image_url"`
	UploadedBy *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
