package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/order/dto"
	"dormhub.io/repairdesk/internal/modules/order/repository"
	notification "dormhub.io/repairdesk/internal/modules/notification/service"
	"dormhub.io/repairdesk/pkg/apperror"
	"dormhub.io/repairdesk/pkg/metrics"
	"dormhub.io/repairdesk/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type OrderService interface {
	CreateOrder(ctx context.Context, studentID uuid.UUID, input dto.CreateOrderRequest) (*entity.RepairOrder, error)
	// GetOrder returns the order if the requester may see it: admins see every
	// order, students only their own. A student probing another student's
	// order gets not-found, not forbidden, so order IDs leak nothing.
	GetOrder(ctx context.Context, requesterID uuid.UUID, role entity.Role, orderID uuid.UUID) (*entity.RepairOrder, error)
	ListMyOrders(ctx context.Context, studentID uuid.UUID, q dto.ListOrdersQuery) ([]*entity.RepairOrder, int64, error)
	ListAllOrders(ctx context.Context, q dto.AdminListOrdersQuery) ([]*entity.RepairOrder, int64, error)
	ListPendingOrders(ctx context.Context) ([]*entity.RepairOrder, error)
	AcceptOrder(ctx context.Context, adminID, orderID uuid.UUID) (*entity.RepairOrder, error)
	CompleteOrder(ctx context.Context, adminID, orderID uuid.UUID, imageURLs []string) (*entity.RepairOrder, error)
}

type orderService struct {
	repo     repository.OrderRepository
	notifier notification.NotificationService
	logger   *zap.Logger
}

func NewOrderService(repo repository.OrderRepository, notifier notification.NotificationService, logger *zap.Logger) OrderService {
	return &orderService{repo: repo, notifier: notifier, logger: logger}
}

func (s *orderService) CreateOrder(ctx context.Context, studentID uuid.UUID, input dto.CreateOrderRequest) (*entity.RepairOrder, error) {
	input.RepairType = strings.TrimSpace(input.RepairType)
	input.Building = strings.TrimSpace(input.Building)
	input.RoomNumber = strings.TrimSpace(input.RoomNumber)
	input.Description = strings.TrimSpace(input.Description)

	if input.RepairType == "" || input.Building == "" || input.RoomNumber == "" || input.Description == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "repair type, building, room number and description are required")
	}
	if !validator.ValidMobile(input.ContactPhone) {
		return nil, apperror.New(apperror.ErrInvalidInput, "invalid contact phone number")
	}

	order := &entity.RepairOrder{
		UserID:       studentID,
		RepairType:   input.RepairType,
		Building:     input.Building,
		RoomNumber:   input.RoomNumber,
		ContactPhone: input.ContactPhone,
		Description:  input.Description,
		Status:       entity.StatusPending,
	}

	if err := s.repo.Create(ctx, order, input.ImageURLs); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	s.logger.Info("repair order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", studentID.String()),
		zap.String("repair_type", order.RepairType))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, requesterID uuid.UUID, role entity.Role, orderID uuid.UUID) (*entity.RepairOrder, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "order not found")
		}
		return nil, err
	}

	if role != entity.RoleAdmin && order.UserID != requesterID {
		return nil, apperror.New(apperror.ErrNotFound, "order not found")
	}
	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, studentID uuid.UUID, q dto.ListOrdersQuery) ([]*entity.RepairOrder, int64, error) {
	q.Normalize()

	filter := repository.OrderFilter{UserID: &studentID}
	status, err := parseStatus(q.Status)
	if err != nil {
		return nil, 0, err
	}
	filter.Status = status

	return s.repo.FindAll(ctx, filter, (q.Page-1)*q.PageSize, q.PageSize)
}

func (s *orderService) ListAllOrders(ctx context.Context, q dto.AdminListOrdersQuery) ([]*entity.RepairOrder, int64, error) {
	q.Normalize()

	var filter repository.OrderFilter
	status, err := parseStatus(q.Status)
	if err != nil {
		return nil, 0, err
	}
	filter.Status = status

	if q.StartDate != "" {
		start, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return nil, 0, apperror.New(apperror.ErrInvalidInput, "start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return nil, 0, apperror.New(apperror.ErrInvalidInput, "end_date must be YYYY-MM-DD")
		}
		// Inclusive through the end of the named day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	return s.repo.FindAll(ctx, filter, (q.Page-1)*q.PageSize, q.PageSize)
}

func (s *orderService) ListPendingOrders(ctx context.Context) ([]*entity.RepairOrder, error) {
	return s.repo.FindPending(ctx)
}

func (s *orderService) AcceptOrder(ctx context.Context, adminID, orderID uuid.UUID) (*entity.RepairOrder, error) {
	order, err := s.repo.Accept(ctx, orderID, adminID)
	if err != nil {
		return nil, mapLifecycleError(err, entity.StatusProcessing)
	}

	metrics.OrdersAccepted.Inc()
	s.logger.Info("repair order accepted",
		zap.String("order_id", order.ID.String()),
		zap.String("admin_id", adminID.String()))

	s.notifier.NotifyOrderEvent(ctx, order.UserID, order.ID,
		entity.NotificationOrderAccepted,
		"Your repair order has been accepted and is being processed")
	return order, nil
}

func (s *orderService) CompleteOrder(ctx context.Context, adminID, orderID uuid.UUID, imageURLs []string) (*entity.RepairOrder, error) {
	if len(imageURLs) == 0 {
		return nil, apperror.New(apperror.ErrInvalidInput, "at least one completion image is required")
	}

	order, err := s.repo.Complete(ctx, orderID, adminID, imageURLs)
	if err != nil {
		return nil, mapLifecycleError(err, entity.StatusCompleted)
	}

	metrics.OrdersCompleted.Inc()
	s.logger.Info("repair order completed",
		zap.String("order_id", order.ID.String()),
		zap.String("admin_id", adminID.String()))

	s.notifier.NotifyOrderEvent(ctx, order.UserID, order.ID,
		entity.NotificationOrderCompleted,
		"Your repair order has been completed")
	return order, nil
}

func parseStatus(raw string) (*entity.OrderStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status := entity.OrderStatus(raw)
	if !status.Valid() {
		return nil, apperror.New(apperror.ErrInvalidInput, "invalid status parameter")
	}
	return &status, nil
}

// mapLifecycleError turns repository lifecycle failures into caller-facing
// errors with a message specific to where the order actually is.
func mapLifecycleError(err error, target entity.OrderStatus) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(apperror.ErrNotFound, "order not found")
	}
	if errors.Is(err, repository.ErrNotClaimant) {
		return apperror.New(apperror.ErrForbidden, "order is being handled by another admin")
	}

	var conflict *repository.StateConflictError
	if errors.As(err, &conflict) {
		switch {
		case conflict.Current == entity.StatusCompleted:
			return apperror.New(apperror.ErrInvalidState, "order already completed")
		case target == entity.StatusProcessing:
			return apperror.New(apperror.ErrInvalidState, "order already claimed")
		default:
			return apperror.New(apperror.ErrInvalidState, "order has not been accepted yet")
		}
	}
	return err
}
