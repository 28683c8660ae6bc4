package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/order/dto"
	"dormhub.io/repairdesk/internal/modules/order/repository"
	"dormhub.io/repairdesk/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeOrderRepo keeps orders in memory and mirrors the repository's locking
// contract: lifecycle writes check the current status and fail with the same
// error types the real implementation produces.
type fakeOrderRepo struct {
	orders map[uuid.UUID]*entity.RepairOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.RepairOrder)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *entity.RepairOrder, imageURLs []string) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	for _, url := range imageURLs {
		order.Images = append(order.Images, entity.OrderImage{OrderID: order.ID, ImageURL: url})
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RepairOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) FindAll(_ context.Context, filter repository.OrderFilter, offset, limit int) ([]*entity.RepairOrder, int64, error) {
	var matched []*entity.RepairOrder
	for _, order := range f.orders {
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.StartDate != nil && order.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && order.CreatedAt.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, order)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeOrderRepo) FindPending(_ context.Context) ([]*entity.RepairOrder, error) {
	var pending []*entity.RepairOrder
	for _, order := range f.orders {
		if order.Status == entity.StatusPending {
			pending = append(pending, order)
		}
	}
	return pending, nil
}

func (f *fakeOrderRepo) Accept(_ context.Context, orderID, adminID uuid.UUID) (*entity.RepairOrder, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !order.Status.CanAdvance(entity.StatusProcessing) {
		return nil, &repository.StateConflictError{Current: order.Status}
	}
	now := time.Now()
	if err := order.Advance(entity.StatusProcessing, adminID, now); err != nil {
		return nil, err
	}
	order.UpdatedAt = now
	return order, nil
}

func (f *fakeOrderRepo) Complete(_ context.Context, orderID, adminID uuid.UUID, imageURLs []string) (*entity.RepairOrder, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !order.Status.CanAdvance(entity.StatusCompleted) {
		return nil, &repository.StateConflictError{Current: order.Status}
	}
	if order.AdminID == nil || *order.AdminID != adminID {
		return nil, repository.ErrNotClaimant
	}
	now := time.Now()
	if err := order.Advance(entity.StatusCompleted, adminID, now); err != nil {
		return nil, err
	}
	order.UpdatedAt = now
	for _, url := range imageURLs {
		order.CompletionImages = append(order.CompletionImages, entity.CompletionImage{
			OrderID: order.ID, ImageURL: url, UploadedBy: &adminID,
		})
	}
	return order, nil
}

type recordedEvent struct {
	userID  uuid.UUID
	orderID uuid.UUID
	typ     entity.NotificationType
}

// fakeNotifier records events instead of touching the database or redis.
type fakeNotifier struct {
	events []recordedEvent
}

func (f *fakeNotifier) NotifyOrderEvent(_ context.Context, userID, orderID uuid.UUID, typ entity.NotificationType, _ string) {
	f.events = append(f.events, recordedEvent{userID: userID, orderID: orderID, typ: typ})
}

func (f *fakeNotifier) GetNotifications(_ context.Context, _ uuid.UUID, _, _ int) ([]entity.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkAsRead(_ context.Context, _ uint, _ uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllAsRead(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeNotifier) UnreadCount(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil }

func newTestService() (OrderService, *fakeOrderRepo, *fakeNotifier) {
	repo := newFakeOrderRepo()
	notifier := &fakeNotifier{}
	return NewOrderService(repo, notifier, zap.NewNop()), repo, notifier
}

func validCreateRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		RepairType:   "plumbing",
		Building:     "B3",
		RoomNumber:   "512",
		ContactPhone: "13812345678",
		Description:  "water leaking under the sink",
		ImageURLs:    []string{"https://img.example.com/leak1.webp", "https://img.example.com/leak2.webp"},
	}
}

func TestCreateOrderStoresImages(t *testing.T) {
	svc, _, _ := newTestService()
	studentID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), studentID, validCreateRequest())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.Status != entity.StatusPending {
		t.Fatalf("new order status = %s, want pending", order.Status)
	}
	if order.UserID != studentID {
		t.Fatal("order not attributed to the creating student")
	}
	if len(order.Images) != 2 {
		t.Fatalf("stored %d images, want 2", len(order.Images))
	}
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	req := validCreateRequest()
	req.Description = "   "

	_, err := svc.CreateOrder(context.Background(), uuid.New(), req)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCreateOrderRejectsBadPhone(t *testing.T) {
	svc, _, _ := newTestService()

	req := validCreateRequest()
	req.ContactPhone = "12345"

	_, err := svc.CreateOrder(context.Background(), uuid.New(), req)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAcceptOrderNotifiesStudent(t *testing.T) {
	svc, _, notifier := newTestService()
	studentID := uuid.New()
	adminID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), studentID, validCreateRequest())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	accepted, err := svc.AcceptOrder(context.Background(), adminID, order.ID)
	if err != nil {
		t.Fatalf("accept order: %v", err)
	}
	if accepted.Status != entity.StatusProcessing {
		t.Fatalf("status = %s, want processing", accepted.Status)
	}
	if accepted.AdminID == nil || *accepted.AdminID != adminID {
		t.Fatal("claiming admin not recorded")
	}

	if len(notifier.events) != 1 {
		t.Fatalf("recorded %d notifications, want 1", len(notifier.events))
	}
	if notifier.events[0].userID != studentID || notifier.events[0].typ != entity.NotificationOrderAccepted {
		t.Fatalf("unexpected notification %+v", notifier.events[0])
	}
}

func TestAcceptOrderOnlyOneAdminWins(t *testing.T) {
	svc, _, _ := newTestService()
	firstAdmin := uuid.New()
	secondAdmin := uuid.New()

	order, err := svc.CreateOrder(context.Background(), uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.AcceptOrder(context.Background(), firstAdmin, order.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	_, err = svc.AcceptOrder(context.Background(), secondAdmin, order.ID)
	if !errors.Is(err, apperror.ErrInvalidState) {
		t.Fatalf("expected state error for second accept, got %v", err)
	}
	if err.Error() != "order already claimed" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestAcceptOrderNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AcceptOrder(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompleteOrderRequiresProofImages(t *testing.T) {
	svc, repo, _ := newTestService()
	adminID := uuid.New()

	order, _ := svc.CreateOrder(context.Background(), uuid.New(), validCreateRequest())
	if _, err := svc.AcceptOrder(context.Background(), adminID, order.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err := svc.CompleteOrder(context.Background(), adminID, order.ID, nil)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	stored := repo.orders[order.ID]
	if stored.Status != entity.StatusProcessing {
		t.Fatalf("status moved to %s on failed completion", stored.Status)
	}
	if stored.CompletedAt != nil {
		t.Fatal("completedAt set on failed completion")
	}
}

func TestCompleteOrderByNonClaimant(t *testing.T) {
	svc, _, _ := newTestService()
	claimant := uuid.New()
	intruder := uuid.New()

	order, _ := svc.CreateOrder(context.Background(), uuid.New(), validCreateRequest())
	if _, err := svc.AcceptOrder(context.Background(), claimant, order.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err := svc.CompleteOrder(context.Background(), intruder, order.ID, []string{"https://img.example.com/done.webp"})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCompleteOrderBeforeAccept(t *testing.T) {
	svc, _, _ := newTestService()

	order, _ := svc.CreateOrder(context.Background(), uuid.New(), validCreateRequest())

	_, err := svc.CompleteOrder(context.Background(), uuid.New(), order.ID, []string{"https://img.example.com/done.webp"})
	if !errors.Is(err, apperror.ErrInvalidState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if err.Error() != "order has not been accepted yet" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestOrderLifecycle(t *testing.T) {
	svc, _, notifier := newTestService()
	studentID := uuid.New()
	adminID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), studentID, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AcceptOrder(context.Background(), adminID, order.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	completed, err := svc.CompleteOrder(context.Background(), adminID, order.ID,
		[]string{"https://img.example.com/fixed1.webp", "https://img.example.com/fixed2.webp"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if completed.Status != entity.StatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatal("completedAt not stamped")
	}
	if completed.UpdatedAt.Before(completed.CreatedAt) {
		t.Fatal("updatedAt not refreshed by the lifecycle write")
	}
	if len(completed.CompletionImages) != 2 {
		t.Fatalf("stored %d completion images, want 2", len(completed.CompletionImages))
	}

	// Terminal state: a second completion must be rejected.
	if _, err := svc.CompleteOrder(context.Background(), adminID, order.ID,
		[]string{"https://img.example.com/again.webp"}); !errors.Is(err, apperror.ErrInvalidState) {
		t.Fatalf("expected state error on double completion, got %v", err)
	}

	if len(notifier.events) != 2 {
		t.Fatalf("recorded %d notifications, want 2", len(notifier.events))
	}
	if notifier.events[1].typ != entity.NotificationOrderCompleted {
		t.Fatalf("second notification = %s", notifier.events[1].typ)
	}
}

func TestGetOrderHidesOtherStudentsOrders(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()
	stranger := uuid.New()

	order, _ := svc.CreateOrder(context.Background(), owner, validCreateRequest())

	if _, err := svc.GetOrder(context.Background(), owner, entity.RoleStudent, order.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), stranger, entity.RoleAdmin, order.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}

	_, err := svc.GetOrder(context.Background(), stranger, entity.RoleStudent, order.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
}

func TestListMyOrdersFiltersByStatus(t *testing.T) {
	svc, _, _ := newTestService()
	studentID := uuid.New()
	adminID := uuid.New()

	first, _ := svc.CreateOrder(context.Background(), studentID, validCreateRequest())
	if _, err := svc.CreateOrder(context.Background(), studentID, validCreateRequest()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AcceptOrder(context.Background(), adminID, first.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	orders, total, err := svc.ListMyOrders(context.Background(), studentID, dto.ListOrdersQuery{Status: "pending"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("got %d/%d pending orders, want 1", len(orders), total)
	}

	if _, _, err := svc.ListMyOrders(context.Background(), studentID, dto.ListOrdersQuery{Status: "bogus"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bogus status, got %v", err)
	}
}

func TestListAllOrdersRejectsBadDates(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.ListAllOrders(context.Background(), dto.AdminListOrdersQuery{StartDate: "08/01/2026"})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestListAllOrdersDateRangeIsInclusive(t *testing.T) {
	svc, repo, _ := newTestService()

	order, _ := svc.CreateOrder(context.Background(), uuid.New(), validCreateRequest())
	day := time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC)
	repo.orders[order.ID].CreatedAt = day

	orders, _, err := svc.ListAllOrders(context.Background(), dto.AdminListOrdersQuery{
		StartDate: "2026-08-15",
		EndDate:   "2026-08-15",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("an order created mid-day was excluded from its own day, got %d", len(orders))
	}
}
