package service

import (
	"context"
	"errors"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/user/dto"
	"dormhub.io/repairdesk/internal/modules/user/repository"
	"dormhub.io/repairdesk/pkg/apperror"
	"dormhub.io/repairdesk/pkg/validator"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileRequest) (*entity.User, error)
}

type profileService struct {
	repo repository.UserRepository
}

func NewProfileService(repo repository.UserRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileRequest) (*entity.User, error) {
	if input.RealName == nil && input.Phone == nil && input.RoomNumber == nil && input.Building == nil {
		return nil, apperror.New(apperror.ErrInvalidInput, "no fields to update")
	}

	if input.Phone != nil && *input.Phone != "" && !validator.ValidMobile(*input.Phone) {
		return nil, apperror.New(apperror.ErrInvalidInput, "invalid phone number format")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "user not found")
		}
		return nil, err
	}

	if input.RealName != nil {
		user.RealName = input.RealName
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.RoomNumber != nil {
		user.RoomNumber = input.RoomNumber
	}
	if input.Building != nil {
		user.Building = input.Building
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
