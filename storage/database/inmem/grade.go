package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) query() []grade.Grade {
	grades := make([]grade.Grade, 0, len(repo.db.grade.table))
	for _, g := range repo.db.grade.table {
		grades = append(grades, *g)
	}
	sort.Slice(grades, func(i, j int) bool {
		if !grades[i].CreatedAt.Equal(grades[j].CreatedAt) {
			return grades[i].CreatedAt.Before(grades[j].CreatedAt)
		}
		return grades[i].ID < grades[j].ID
	})
	return grades
}

func sameKey(g *grade.Grade, studentID, lessonID string, planID null.String) bool {
	return g.StudentID == studentID && g.LessonID == lessonID &&
		g.PlanID.Valid == planID.Valid && g.PlanID.String == planID.String
}

func (repo *gradeRepository) UpsertGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	repo.db.grade.mutex.Lock()
	defer repo.db.grade.mutex.Unlock()

	for _, existing := range repo.db.grade.table {
		if sameKey(existing, g.StudentID, g.LessonID, g.PlanID) {
			existing.MentorID = g.MentorID
			existing.Percentage = g.Percentage
			existing.Level = g.Level
			existing.Notes = g.Notes
			existing.UpdatedAt = g.UpdatedAt
			return *existing, nil
		}
	}

	g.ID = uuid.New().String()
	repo.db.grade.table[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) GetGrade(ctx context.Context, id string, exec ...core.DBExecutor) (grade.Grade, error) {
	repo.db.grade.mutex.RLock()
	defer repo.db.grade.mutex.RUnlock()

	if g, ok := repo.db.grade.table[id]; ok {
		return *g, nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) FindGrade(ctx context.Context, studentID, lessonID string, planID null.String, exec ...core.DBExecutor) (grade.Grade, error) {
	repo.db.grade.mutex.RLock()
	defer repo.db.grade.mutex.RUnlock()

	for _, g := range repo.db.grade.table {
		if sameKey(g, studentID, lessonID, planID) {
			return *g, nil
		}
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) QueryGrades(ctx context.Context, filter *grade.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]grade.Grade, error) {
	repo.db.grade.mutex.RLock()
	defer repo.db.grade.mutex.RUnlock()

	grades := repo.query()
	if filter == nil || filter.IsEmpty() {
		return grades, nil
	}

	matches := make([]grade.Grade, 0, len(grades))
	for _, g := range grades {
		if filter.StudentID != "" && g.StudentID != filter.StudentID {
			continue
		}
		if filter.LessonID != "" && g.LessonID != filter.LessonID {
			continue
		}
		if filter.PlanID != "" && g.PlanID.String != filter.PlanID {
			continue
		}
		if filter.MentorID != "" && g.MentorID != filter.MentorID {
			continue
		}
		matches = append(matches, g)
	}
	return matches, nil
}

func (repo *gradeRepository) DeleteGrade(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.grade.mutex.Lock()
	defer repo.db.grade.mutex.Unlock()

	if _, ok := repo.db.grade.table[id]; !ok {
		return grade.ErrNotFound
	}
	delete(repo.db.grade.table, id)
	return nil
}
