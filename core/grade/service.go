package grade

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("grade not found")

	errBadPercentage = errors.New("percentage must be between 0 and 100")
)

type (
	Repository interface {
		// UpsertGrade creates the grade or updates the existing row with the same
		// (student, lesson, plan) key. The operation is atomic per key so
		// concurrent submits for the same pair never produce duplicate rows.
		UpsertGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		GetGrade(ctx context.Context, id string, exec ...core.DBExecutor) (Grade, error)
		// FindGrade looks a grade up by its natural key.
		FindGrade(ctx context.Context, studentID, lessonID string, planID null.String, exec ...core.DBExecutor) (Grade, error)
		// QueryGrades applies AND operation on available QueryFilter fields.
		QueryGrades(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Grade, error)
		DeleteGrade(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		Upsert(ctx context.Context, mentorID string, ug UpsertGrade) (Grade, error)
		Get(ctx context.Context, id string) (Grade, error)
		FindExisting(ctx context.Context, studentID, lessonID, planID string) (Grade, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Grade, error)
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert records a grade, overwriting any previous one for the same
// (student, lesson, plan) key. The percentage is the source of truth; the
// achievement level is re-derived on every write and left unset when no band
// matches.
func (svc *Service) Upsert(ctx context.Context, mentorID string, ug UpsertGrade) (Grade, error) {
	// the API validates on binding; the store still refuses bad input on its own
	if ug.Percentage < 0 || ug.Percentage > 100 {
		return Grade{}, core.NewValidationError(errBadPercentage,
			core.FieldError{Field: "percentage", Error: errBadPercentage.Error()})
	}

	now := time.Now().UTC()
	g := Grade{
		StudentID:  ug.StudentID,
		LessonID:   ug.LessonID,
		MentorID:   mentorID,
		PlanID:     null.NewString(ug.PlanID, ug.PlanID != ""),
		Percentage: ug.Percentage,
		Notes:      ug.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if lvl, ok := LevelFor(ug.Percentage); ok {
		g.Level = null.StringFrom(lvl.Code)
	}
	return svc.repo.UpsertGrade(ctx, g)
}

func (svc *Service) Get(ctx context.Context, id string) (Grade, error) {
	return svc.repo.GetGrade(ctx, id)
}

func (svc *Service) FindExisting(ctx context.Context, studentID, lessonID, planID string) (Grade, error) {
	return svc.repo.FindGrade(ctx, studentID, lessonID, null.NewString(planID, planID != ""))
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx, filter, ordering)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteGrade(ctx, id)
}
