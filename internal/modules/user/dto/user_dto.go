package dto

import (
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username        string  `json:"username" binding:"required,max=50"`
	Password        string  `json:"password" binding:"required"`
	ConfirmPassword string  `json:"confirm_password" binding:"required"`
	Role            string  `json:"role"`
	RealName        *string `json:"real_name"`
	Phone           *string `json:"phone"`
	RoomNumber      *string `json:"room_number"`
	Building        *string `json:"building"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	// Role, when present, must match the stored role. The mini-program login
	// page sends it so a student cannot land in the admin screens.
	Role string `json:"role"`
}

type ResetPasswordRequest struct {
	Username        string `json:"username" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type UpdateProfileRequest struct {
	RealName   *string `json:"real_name"`
	Phone      *string `json:"phone"`
	RoomNumber *string `json:"room_number"`
	Building   *string `json:"building"`
}

// UserSummary is the public projection of a user (never the password hash).
type UserSummary struct {
	UserID   uuid.UUID   `json:"user_id"`
	Username string      `json:"username"`
	Role     entity.Role `json:"role"`
	RealName *string     `json:"real_name,omitempty"`
}

type RegisterResponse struct {
	UserID   uuid.UUID   `json:"user_id"`
	Username string      `json:"username"`
	Role     entity.Role `json:"role"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

func NewUserSummary(u *entity.User) UserSummary {
	return UserSummary{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RealName: u.RealName,
	}
}
