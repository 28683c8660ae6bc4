package service

import (
	"context"
	"errors"
	"testing"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/user/dto"
	"dormhub.io/repairdesk/pkg/apperror"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func newTestProfileService() (ProfileService, *entity.User) {
	repo := newFakeUserRepo()
	user := &entity.User{
		ID:       uuid.New(),
		Username: "li.na",
		Role:     entity.RoleStudent,
	}
	repo.byUsername[user.Username] = user

	return NewProfileService(repo), user
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, user := newTestProfileService()

	updated, err := svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		Phone:    strPtr("13912345678"),
		Building: strPtr("B7"),
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if updated.Phone == nil || *updated.Phone != "13912345678" {
		t.Fatal("phone not updated")
	}
	if updated.Building == nil || *updated.Building != "B7" {
		t.Fatal("building not updated")
	}
	if updated.RealName != nil {
		t.Fatal("untouched field changed")
	}
}

func TestUpdateProfileRejectsEmptyRequest(t *testing.T) {
	svc, user := newTestProfileService()

	_, err := svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateProfileRejectsBadPhone(t *testing.T) {
	svc, user := newTestProfileService()

	_, err := svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		Phone: strPtr("007"),
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc, _ := newTestProfileService()

	_, err := svc.GetProfile(context.Background(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
