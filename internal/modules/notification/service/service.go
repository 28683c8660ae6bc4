package service

import (
	"context"
	"encoding/json"
	"fmt"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/notification/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type NotificationService interface {
	// NotifyOrderEvent records a notification for the order's owner and
	// publishes it on the owner's redis channel. The caller's mutation has
	// already committed, so failures are logged rather than returned.
	NotifyOrderEvent(ctx context.Context, userID, orderID uuid.UUID, typ entity.NotificationType, message string)
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uint, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, redisClient: redisClient, logger: logger}
}

// Channel is the redis pub/sub channel carrying a user's notifications.
func Channel(userID string) string {
	return fmt.Sprintf("user_notifications:%s", userID)
}

func (s *notificationService) NotifyOrderEvent(ctx context.Context, userID, orderID uuid.UUID, typ entity.NotificationType, message string) {
	notification := &entity.Notification{
		UserID:  userID,
		OrderID: &orderID,
		Type:    typ,
		Message: message,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("failed to record notification",
			zap.String("order_id", orderID.String()), zap.Error(err))
		return
	}

	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}
	if err := s.redisClient.Publish(ctx, Channel(userID.String()), payload).Err(); err != nil {
		s.logger.Warn("failed to publish notification", zap.Error(err))
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return s.repo.FindByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uint, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
