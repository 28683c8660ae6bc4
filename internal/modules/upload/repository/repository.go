package repository

import (
	"context"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"gorm.io/gorm"
)

type UploadRepository interface {
	Create(ctx context.Context, upload *entity.Upload) error
	// FindOrphans returns uploads older than cutoff whose URL was never
	// attached to an order, either as submission or completion evidence.
	FindOrphans(ctx context.Context, cutoff time.Time) ([]entity.Upload, error)
	Delete(ctx context.Context, id uint) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *entity.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *uploadRepository) FindOrphans(ctx context.Context, cutoff time.Time) ([]entity.Upload, error) {
	var uploads []entity.Upload
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Where("file_url NOT IN (?)", r.db.Model(&entity.OrderImage{}).Select("image_url")).
		Where("file_url NOT IN (?)", r.db.Model(&entity.CompletionImage{}).Select("image_url")).
		Find(&uploads).Error
	return uploads, err
}

func (r *uploadRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Upload{}, id).Error
}
