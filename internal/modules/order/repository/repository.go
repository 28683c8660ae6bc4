package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateConflictError is returned when a lifecycle write finds the order in a
// state that forbids the transition. Current lets the service phrase the
// rejection ("already claimed" vs "already completed").
type StateConflictError struct {
	Current entity.OrderStatus
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("order is %s", e.Current)
}

// ErrNotClaimant is returned when an admin tries to complete an order claimed
// by a different admin.
var ErrNotClaimant = errors.New("order is claimed by another admin")

// OrderFilter narrows FindAll. Nil fields are ignored.
type OrderFilter struct {
	UserID    *uuid.UUID
	Status    *entity.OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
}

type OrderRepository interface {
	// Create inserts the order and its submission images in one transaction.
	Create(ctx context.Context, order *entity.RepairOrder, imageURLs []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RepairOrder, error)
	FindAll(ctx context.Context, filter OrderFilter, offset, limit int) ([]*entity.RepairOrder, int64, error)
	FindPending(ctx context.Context) ([]*entity.RepairOrder, error)
	// Accept claims a pending order for adminID. The row is locked
	// FOR UPDATE so concurrent claims serialize: exactly one caller wins,
	// the rest get StateConflictError.
	Accept(ctx context.Context, orderID, adminID uuid.UUID) (*entity.RepairOrder, error)
	// Complete moves a processing order claimed by adminID to completed and
	// inserts the proof images, all in one transaction. Any failure rolls
	// back the status change.
	Complete(ctx context.Context, orderID, adminID uuid.UUID, imageURLs []string) (*entity.RepairOrder, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.RepairOrder, imageURLs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, url := range imageURLs {
			image := entity.OrderImage{OrderID: order.ID, ImageURL: url}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
			order.Images = append(order.Images, image)
		}
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RepairOrder, error) {
	var order entity.RepairOrder
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images").
		Preload("CompletionImages").
		Preload("Evaluation").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindAll(ctx context.Context, filter OrderFilter, offset, limit int) ([]*entity.RepairOrder, int64, error) {
	var orders []*entity.RepairOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RepairOrder{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Preload("Images").
		Preload("CompletionImages").
		Preload("Evaluation").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindPending is the admin work queue: oldest first so early requests get
// picked up first.
func (r *orderRepository) FindPending(ctx context.Context) ([]*entity.RepairOrder, error) {
	var orders []*entity.RepairOrder
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images").
		Where("status = ?", entity.StatusPending).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Accept(ctx context.Context, orderID, adminID uuid.UUID) (*entity.RepairOrder, error) {
	var order entity.RepairOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if !order.Status.CanAdvance(entity.StatusProcessing) {
			return &StateConflictError{Current: order.Status}
		}
		now := time.Now()
		if err := order.Advance(entity.StatusProcessing, adminID, now); err != nil {
			return err
		}
		order.UpdatedAt = now

		return tx.Model(&entity.RepairOrder{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     order.Status,
				"admin_id":   adminID,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Complete(ctx context.Context, orderID, adminID uuid.UUID, imageURLs []string) (*entity.RepairOrder, error) {
	var order entity.RepairOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		if !order.Status.CanAdvance(entity.StatusCompleted) {
			return &StateConflictError{Current: order.Status}
		}
		if order.AdminID == nil || *order.AdminID != adminID {
			return ErrNotClaimant
		}
		now := time.Now()
		if err := order.Advance(entity.StatusCompleted, adminID, now); err != nil {
			return err
		}
		order.UpdatedAt = now

		if err := tx.Model(&entity.RepairOrder{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":       order.Status,
				"completed_at": order.CompletedAt,
				"updated_at":   now,
			}).Error; err != nil {
			return err
		}

		for _, url := range imageURLs {
			image := entity.CompletionImage{OrderID: order.ID, ImageURL: url, UploadedBy: &adminID}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
			order.CompletionImages = append(order.CompletionImages, image)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
