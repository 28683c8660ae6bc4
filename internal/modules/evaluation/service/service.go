package service

import (
	"context"
	"errors"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/modules/evaluation/dto"
	"dormhub.io/repairdesk/internal/modules/evaluation/repository"
	orderrepo "dormhub.io/repairdesk/internal/modules/order/repository"
	"dormhub.io/repairdesk/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EvaluationService interface {
	// CreateEvaluation checks, in order: the rating range, that the order
	// exists, that the caller owns it, that it is completed, and that it has
	// not been evaluated before. Each failure gets its own error class so the
	// client can tell them apart.
	CreateEvaluation(ctx context.Context, studentID uuid.UUID, input dto.CreateEvaluationRequest) (*entity.Evaluation, error)
	// Listings are read-only projections joined with the rated order's
	// context; the admin view also carries the evaluating student.
	ListMyEvaluations(ctx context.Context, studentID uuid.UUID, q dto.ListEvaluationsQuery) ([]dto.EvaluationItem, int64, error)
	ListAllEvaluations(ctx context.Context, q dto.ListEvaluationsQuery) ([]dto.EvaluationItem, int64, error)
}

type evaluationService struct {
	repo      repository.EvaluationRepository
	orderRepo orderrepo.OrderRepository
	logger    *zap.Logger
}

func NewEvaluationService(repo repository.EvaluationRepository, orderRepo orderrepo.OrderRepository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, orderRepo: orderRepo, logger: logger}
}

func (s *evaluationService) CreateEvaluation(ctx context.Context, studentID uuid.UUID, input dto.CreateEvaluationRequest) (*entity.Evaluation, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.New(apperror.ErrInvalidInput, "rating must be between 1 and 5")
	}

	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "order not found")
		}
		return nil, err
	}

	if order.UserID != studentID {
		return nil, apperror.New(apperror.ErrForbidden, "you can only evaluate your own orders")
	}
	if order.Status != entity.StatusCompleted {
		return nil, apperror.New(apperror.ErrInvalidState, "only completed orders can be evaluated")
	}

	if _, err := s.repo.FindByOrderID(ctx, input.OrderID); err == nil {
		return nil, apperror.New(apperror.ErrConflict, "order has already been evaluated")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	evaluation := &entity.Evaluation{
		OrderID: input.OrderID,
		UserID:  studentID,
		Rating:  input.Rating,
		Content: input.Content,
	}
	if err := s.repo.Create(ctx, evaluation); err != nil {
		// The unique index on order_id backstops the pre-check under
		// concurrent submissions.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(apperror.ErrConflict, "order has already been evaluated")
		}
		return nil, err
	}

	s.logger.Info("evaluation created",
		zap.String("order_id", input.OrderID.String()),
		zap.Int("rating", input.Rating))
	return evaluation, nil
}

func (s *evaluationService) ListMyEvaluations(ctx context.Context, studentID uuid.UUID, q dto.ListEvaluationsQuery) ([]dto.EvaluationItem, int64, error) {
	q.Normalize()

	evaluations, total, err := s.repo.FindByUserID(ctx, studentID, (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return projectItems(evaluations, false), total, nil
}

func (s *evaluationService) ListAllEvaluations(ctx context.Context, q dto.ListEvaluationsQuery) ([]dto.EvaluationItem, int64, error) {
	q.Normalize()

	evaluations, total, err := s.repo.FindAll(ctx, (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return projectItems(evaluations, true), total, nil
}

func projectItems(evaluations []entity.Evaluation, withStudent bool) []dto.EvaluationItem {
	items := make([]dto.EvaluationItem, 0, len(evaluations))
	for _, evaluation := range evaluations {
		items = append(items, dto.NewEvaluationItem(evaluation, withStudent))
	}
	return items
}
