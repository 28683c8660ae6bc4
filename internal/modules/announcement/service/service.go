package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/announcement/dto"
	"dormhub.io/repairdesk/internal/modules/announcement/repository"
	"dormhub.io/repairdesk/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	listCacheKeyPrefix = "announcements:list:"
	cacheTTL           = 5 * time.Minute
)

type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, adminID uuid.UUID, input dto.CreateAnnouncementRequest) (*entity.Announcement, error)
	GetAnnouncement(ctx context.Context, id uuid.UUID) (*entity.Announcement, error)
	ListAnnouncements(ctx context.Context, q dto.ListAnnouncementsQuery) ([]entity.Announcement, int64, error)
	UpdateAnnouncement(ctx context.Context, id uuid.UUID, input dto.UpdateAnnouncementRequest) (*entity.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id uuid.UUID) error
}

type announcementService struct {
	repo        repository.AnnouncementRepository
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewAnnouncementService(repo repository.AnnouncementRepository, redisClient *redis.Client, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, redisClient: redisClient, logger: logger}
}

func (s *announcementService) CreateAnnouncement(ctx context.Context, adminID uuid.UUID, input dto.CreateAnnouncementRequest) (*entity.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "title and content are required")
	}

	announcement := &entity.Announcement{
		Title:   title,
		Content: content,
		AdminID: adminID,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	s.logger.Info("announcement created", zap.String("announcement_id", announcement.ID.String()))
	return announcement, nil
}

func (s *announcementService) GetAnnouncement(ctx context.Context, id uuid.UUID) (*entity.Announcement, error) {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "announcement not found")
		}
		return nil, err
	}
	return announcement, nil
}

type cachedList struct {
	List  []entity.Announcement `json:"list"`
	Total int64                 `json:"total"`
}

// ListAnnouncements serves from the redis cache when possible; the cache is
// keyed per page and flushed on any write.
func (s *announcementService) ListAnnouncements(ctx context.Context, q dto.ListAnnouncementsQuery) ([]entity.Announcement, int64, error) {
	q.Normalize()
	key := fmt.Sprintf("%s%d:%d", listCacheKeyPrefix, q.Page, q.PageSize)

	if s.redisClient != nil {
		if raw, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			var cached cachedList
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached.List, cached.Total, nil
			}
		}
	}

	announcements, total, err := s.repo.FindAll(ctx, (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		return nil, 0, err
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(cachedList{List: announcements, Total: total}); err == nil {
			if err := s.redisClient.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache announcement list", zap.Error(err))
			}
		}
	}

	return announcements, total, nil
}

func (s *announcementService) UpdateAnnouncement(ctx context.Context, id uuid.UUID, input dto.UpdateAnnouncementRequest) (*entity.Announcement, error) {
	if input.Title == nil && input.Content == nil {
		return nil, apperror.New(apperror.ErrInvalidInput, "no fields to update")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "title cannot be empty")
	}
	if input.Content != nil && strings.TrimSpace(*input.Content) == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "content cannot be empty")
	}

	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "announcement not found")
		}
		return nil, err
	}

	if input.Title != nil {
		announcement.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		announcement.Content = strings.TrimSpace(*input.Content)
	}

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return announcement, nil
}

func (s *announcementService) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.ErrNotFound, "announcement not found")
		}
		return err
	}

	s.invalidateListCache(ctx)
	s.logger.Info("announcement deleted", zap.String("announcement_id", id.String()))
	return nil
}

func (s *announcementService) invalidateListCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	iter := s.redisClient.Scan(ctx, 0, listCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("failed to invalidate announcement cache", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("failed to scan announcement cache keys", zap.Error(err))
	}
}
