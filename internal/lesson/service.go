// AngelaMos | 2026
// service.go

package lesson

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/arcana-vip/internal/core"
	"github.com/carterperez-dev/arcana-vip/internal/progress"
)

type ProgressTracker interface {
	Status(
		ctx context.Context,
		userID, itemID string,
		kind progress.Kind,
	) (progress.Status, error)
	StatusByItem(
		ctx context.Context,
		userID string,
		kind progress.Kind,
	) (map[string]progress.Status, error)
	RecordFirstView(
		ctx context.Context,
		userID, itemID string,
		kind progress.Kind,
		payload any,
	) error
}

type Service struct {
	repo     Repository
	progress ProgressTracker
}

func NewService(repo Repository, tracker ProgressTracker) *Service {
	return &Service{repo: repo, progress: tracker}
}

func (s *Service) List(ctx context.Context, userID string) ([]SummaryResponse, error) {
	lessons, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	byItem, err := s.progress.StatusByItem(ctx, userID, progress.KindLesson)
	if err != nil {
		return nil, err
	}

	return ToSummaryList(lessons, byItem), nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*LessonResponse, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := s.progress.Status(ctx, userID, l.ID, progress.KindLesson)
	if err != nil {
		return nil, err
	}

	resp := ToLessonResponse(l, status)
	return &resp, nil
}

// Complete is idempotent: a second call keeps the first record.
func (s *Service) Complete(ctx context.Context, userID, id string) error {
	l, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	return s.progress.RecordFirstView(ctx, userID, l.ID, progress.KindLesson, nil)
}

func (s *Service) find(ctx context.Context, id string) (*Lesson, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get lesson: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}
