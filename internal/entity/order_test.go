package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOrderStatusCanAdvance(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCompleted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanAdvance(tc.to); got != tc.want {
			t.Errorf("CanAdvance(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAdvanceRecordsAdminAndCompletionTime(t *testing.T) {
	adminID := uuid.New()
	now := time.Now()

	order := &RepairOrder{ID: uuid.New(), Status: StatusPending}

	if err := order.Advance(StatusProcessing, adminID, now); err != nil {
		t.Fatalf("advance to processing: %v", err)
	}
	if order.AdminID == nil || *order.AdminID != adminID {
		t.Fatal("expected admin to be recorded on claim")
	}
	if order.CompletedAt != nil {
		t.Fatal("completedAt must not be set before completion")
	}

	if err := order.Advance(StatusCompleted, adminID, now); err != nil {
		t.Fatalf("advance to completed: %v", err)
	}
	if order.CompletedAt == nil || !order.CompletedAt.Equal(now) {
		t.Fatal("expected completedAt to be stamped on completion")
	}
}

func TestAdvanceRejectsIllegalTransition(t *testing.T) {
	order := &RepairOrder{ID: uuid.New(), Status: StatusPending}

	if err := order.Advance(StatusCompleted, uuid.New(), time.Now()); err == nil {
		t.Fatal("expected error skipping processing")
	}
	if order.Status != StatusPending {
		t.Fatalf("status changed on rejected transition: %s", order.Status)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleStudent.Valid() || !RoleAdmin.Valid() {
		t.Fatal("built-in roles must be valid")
	}
	if Role("janitor").Valid() {
		t.Fatal("unknown role must be invalid")
	}
}
