package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/announcement/dto"
	"dormhub.io/repairdesk/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeAnnouncementRepo struct {
	byID map[uuid.UUID]*entity.Announcement
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{byID: make(map[uuid.UUID]*entity.Announcement)}
}

func (f *fakeAnnouncementRepo) Create(_ context.Context, announcement *entity.Announcement) error {
	if announcement.ID == uuid.Nil {
		announcement.ID = uuid.New()
	}
	announcement.CreatedAt = time.Now()
	f.byID[announcement.ID] = announcement
	return nil
}

func (f *fakeAnnouncementRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Announcement, error) {
	announcement, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return announcement, nil
}

func (f *fakeAnnouncementRepo) FindAll(_ context.Context, offset, limit int) ([]entity.Announcement, int64, error) {
	var all []entity.Announcement
	for _, announcement := range f.byID {
		all = append(all, *announcement)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeAnnouncementRepo) Update(_ context.Context, announcement *entity.Announcement) error {
	f.byID[announcement.ID] = announcement
	return nil
}

func (f *fakeAnnouncementRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

func newTestAnnouncementService() (AnnouncementService, *fakeAnnouncementRepo) {
	repo := newFakeAnnouncementRepo()
	return NewAnnouncementService(repo, nil, zap.NewNop()), repo
}

func TestCreateAnnouncement(t *testing.T) {
	svc, _ := newTestAnnouncementService()
	adminID := uuid.New()

	announcement, err := svc.CreateAnnouncement(context.Background(), adminID, dto.CreateAnnouncementRequest{
		Title:   "Water outage on Saturday",
		Content: "Building B3 will have no water from 9:00 to 12:00.",
	})
	if err != nil {
		t.Fatalf("create announcement: %v", err)
	}
	if announcement.AdminID != adminID {
		t.Fatal("author not recorded")
	}
}

func TestCreateAnnouncementRejectsBlankFields(t *testing.T) {
	svc, _ := newTestAnnouncementService()

	_, err := svc.CreateAnnouncement(context.Background(), uuid.New(), dto.CreateAnnouncementRequest{
		Title:   "  ",
		Content: "something",
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateAnnouncementPartial(t *testing.T) {
	svc, _ := newTestAnnouncementService()

	created, err := svc.CreateAnnouncement(context.Background(), uuid.New(), dto.CreateAnnouncementRequest{
		Title:   "Original title",
		Content: "Original content.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Corrected title"
	updated, err := svc.UpdateAnnouncement(context.Background(), created.ID, dto.UpdateAnnouncementRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Corrected title" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.Content != "Original content." {
		t.Fatal("content changed by a title-only update")
	}
}

func TestUpdateAnnouncementRejectsEmptyValues(t *testing.T) {
	svc, _ := newTestAnnouncementService()

	created, err := svc.CreateAnnouncement(context.Background(), uuid.New(), dto.CreateAnnouncementRequest{
		Title:   "Title",
		Content: "Content.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := " "
	if _, err := svc.UpdateAnnouncement(context.Background(), created.ID, dto.UpdateAnnouncementRequest{Title: &empty}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank title, got %v", err)
	}
	if _, err := svc.UpdateAnnouncement(context.Background(), created.ID, dto.UpdateAnnouncementRequest{}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty update, got %v", err)
	}
}

func TestDeleteAnnouncement(t *testing.T) {
	svc, repo := newTestAnnouncementService()

	created, err := svc.CreateAnnouncement(context.Background(), uuid.New(), dto.CreateAnnouncementRequest{
		Title:   "Obsolete",
		Content: "To be removed.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteAnnouncement(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("announcement still stored after delete")
	}

	if err := svc.DeleteAnnouncement(context.Background(), created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListAnnouncementsNewestFirst(t *testing.T) {
	svc, repo := newTestAnnouncementService()

	old, _ := svc.CreateAnnouncement(context.Background(), uuid.New(), dto.CreateAnnouncementRequest{
		Title: "Older", Content: "older",
	})
	repo.byID[old.ID].CreatedAt = time.Now().Add(-time.Hour)

	if _, err := svc.CreateAnnouncement(context.Background(), uuid.New(), dto.CreateAnnouncementRequest{
		Title: "Newer", Content: "newer",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, total, err := svc.ListAnnouncements(context.Background(), dto.ListAnnouncementsQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("got %d/%d announcements, want 2", len(list), total)
	}
	if list[0].Title != "Newer" {
		t.Fatalf("first item = %q, want the newest", list[0].Title)
	}
}
