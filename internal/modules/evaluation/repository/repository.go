package repository

import (
	"context"

	"dormhub.io/repairdesk/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *entity.Evaluation) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Evaluation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]entity.Evaluation, int64, error)
	FindAll(ctx context.Context, offset, limit int) ([]entity.Evaluation, int64, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Evaluation, error) {
	var evaluation entity.Evaluation
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&evaluation).Error; err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// FindByUserID returns the student's evaluations with the rated order
// preloaded, so the listing can show what each rating refers to.
func (r *evaluationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]entity.Evaluation, int64, error) {
	var evaluations []entity.Evaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Evaluation{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Order").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&evaluations).Error
	return evaluations, total, err
}

// FindAll additionally preloads the order's owner for the admin view.
func (r *evaluationRepository) FindAll(ctx context.Context, offset, limit int) ([]entity.Evaluation, int64, error) {
	var evaluations []entity.Evaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Evaluation{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Order").
		Preload("Order.User").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&evaluations).Error
	return evaluations, total, err
}
