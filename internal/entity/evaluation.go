package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Evaluation is a student's one-time rating of a completed order. The unique
// index on OrderID enforces at-most-one per order at the storage level.
type Evaluation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"evaluation_id"`
	OrderID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Content   *string   `gorm:"type:text" json:"content,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Order is preloaded on the read paths so listings can show which repair
	// the rating belongs to.
	Order *RepairOrder `gorm:"foreignKey:OrderID;references:ID" json:"-"`
}

func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
