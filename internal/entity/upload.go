package entity

import (
	"time"

	"github.com/google/uuid"
)

// UploadKind distinguishes who the upload endpoint accepted the file from.
type UploadKind string

const (
	UploadRepair     UploadKind = "repair"
	UploadCompletion UploadKind = "completion"
)

// Upload is bookkeeping for files pushed to the blob store. Orders reference
// uploads only by URL; rows whose URL never lands in an order image table are
// reclaimed by the orphan-cleanup job.
type Upload struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	FileURL   string     `gorm:"type:text;not null" json:"file_url"`
	Kind      UploadKind `gorm:"size:20;not null" json:"kind"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
