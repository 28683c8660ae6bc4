package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/upload/repository"
	"dormhub.io/repairdesk/pkg/apperror"
	"dormhub.io/repairdesk/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxImageSize     = 5 << 20 // 5 MiB
	maxImagesPerCall = 5
	orphanAge        = 24 * time.Hour
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadService interface {
	// UploadImages stores up to maxImagesPerCall files and returns their URLs
	// in input order. Each stored file gets a bookkeeping row so unattached
	// uploads can be reaped later.
	UploadImages(ctx context.Context, userID uuid.UUID, kind entity.UploadKind, files []*multipart.FileHeader) ([]string, error)
	// CleanupOrphans deletes uploads that were never attached to an order.
	// Run from the scheduler.
	CleanupOrphans(ctx context.Context) error
}

type uploadService struct {
	repo    repository.UploadRepository
	storage storage.ImageStorage
	folder  string
	logger  *zap.Logger
}

func NewUploadService(repo repository.UploadRepository, store storage.ImageStorage, folder string, logger *zap.Logger) UploadService {
	return &uploadService{repo: repo, storage: store, folder: folder, logger: logger}
}

func (s *uploadService) UploadImages(ctx context.Context, userID uuid.UUID, kind entity.UploadKind, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, apperror.New(apperror.ErrInvalidInput, "no image files provided")
	}
	if len(files) > maxImagesPerCall {
		return nil, apperror.New(apperror.ErrInvalidInput, fmt.Sprintf("at most %d images per upload", maxImagesPerCall))
	}

	for _, fh := range files {
		if fh.Size > maxImageSize {
			return nil, apperror.New(apperror.ErrInvalidInput, fmt.Sprintf("%s exceeds the 5MB size limit", fh.Filename))
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			return nil, apperror.New(apperror.ErrInvalidInput, fmt.Sprintf("%s is not a supported image type", fh.Filename))
		}
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		url, err := s.storage.UploadImage(ctx, f, s.folder+"/"+string(kind), fh.Filename)
		f.Close()
		if err != nil {
			return nil, err
		}

		record := &entity.Upload{UserID: userID, FileURL: url, Kind: kind}
		if err := s.repo.Create(ctx, record); err != nil {
			// The image is already in storage; losing the bookkeeping row only
			// skips the orphan reaper for this file.
			s.logger.Warn("failed to record upload", zap.String("url", url), zap.Error(err))
		}

		urls = append(urls, url)
	}

	return urls, nil
}

func (s *uploadService) CleanupOrphans(ctx context.Context) error {
	orphans, err := s.repo.FindOrphans(ctx, time.Now().Add(-orphanAge))
	if err != nil {
		return err
	}

	for _, orphan := range orphans {
		if err := s.storage.DeleteImage(ctx, orphan.FileURL); err != nil {
			s.logger.Warn("failed to delete orphan image from storage",
				zap.String("url", orphan.FileURL), zap.Error(err))
			continue
		}
		if err := s.repo.Delete(ctx, orphan.ID); err != nil {
			s.logger.Warn("failed to delete orphan upload row",
				zap.Uint("upload_id", orphan.ID), zap.Error(err))
		}
	}

	if len(orphans) > 0 {
		s.logger.Info("orphan upload cleanup finished", zap.Int("candidates", len(orphans)))
	}
	return nil
}
