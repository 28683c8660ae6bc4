package service

import (
	"context"
	"errors"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/user/dto"
	"dormhub.io/repairdesk/internal/modules/user/repository"
	"dormhub.io/repairdesk/pkg/apperror"
	"dormhub.io/repairdesk/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
	ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error
}

type authService struct {
	repo   repository.UserRepository
	tokens *jwt.Manager
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{repo: repo, tokens: tokens, logger: logger}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if input.Password != input.ConfirmPassword {
		return nil, apperror.New(apperror.ErrInvalidInput, "passwords do not match")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperror.New(apperror.ErrInvalidInput, "password must be at least 6 characters")
	}

	role := entity.Role(input.Role)
	if input.Role == "" {
		role = entity.RoleStudent
	}
	if !role.Valid() {
		return nil, apperror.New(apperror.ErrInvalidInput, "invalid user role")
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperror.New(apperror.ErrInvalidInput, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         role,
		RealName:     input.RealName,
		Phone:        input.Phone,
		RoomNumber:   input.RoomNumber,
		Building:     input.Building,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &dto.RegisterResponse{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrUnauthorized, "invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(apperror.ErrUnauthorized, "invalid username or password")
	}

	if input.Role != "" && entity.Role(input.Role) != user.Role {
		return nil, apperror.New(apperror.ErrUnauthorized, "role mismatch")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserSummary(user),
	}, nil
}

// ResetPassword overwrites the stored hash by username without an
// old-password check; this backs the mini-program's forgot-password page.
func (s *authService) ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error {
	if input.NewPassword != input.ConfirmPassword {
		return apperror.New(apperror.ErrInvalidInput, "passwords do not match")
	}
	if len(input.NewPassword) < minPasswordLength {
		return apperror.New(apperror.ErrInvalidInput, "password must be at least 6 characters")
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.ErrNotFound, "user not found")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, input.Username, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("username", input.Username))
	return nil
}
