package lesson

import (
	"context"
	"errors"

	"github.com/mentora/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("lesson not found")
)

type (
	Repository interface {
		GetLesson(ctx context.Context, id string, exec ...core.DBExecutor) (Lesson, error)
		// QueryLessons applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Title or Topic.
		QueryLessons(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Lesson, error)
	}

	ServiceInterface interface {
		Get(ctx context.Context, id string) (Lesson, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Lesson, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLesson(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx, filter, ordering)
}
