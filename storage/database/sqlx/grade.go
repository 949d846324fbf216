package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/grade"
)

const gradeColumns = `id, student_id, lesson_id, mentor_id, plan_id, percentage, achievement_level, notes, created_at, updated_at`

// nilPlanID stands in for a NULL plan_id inside the natural-key unique index.
const nilPlanID = "00000000-0000-0000-0000-000000000000"

type gradeRepository struct {
	exec core.DBExecutor
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(exec core.DBExecutor) *gradeRepository {
	return &gradeRepository{exec: exec}
}

func (repo gradeRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps psql "no rows" err to grade.ErrNotFound
func (repo gradeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return grade.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo gradeRepository) UpsertGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	g.ID = uuid.New().String()
	var saved grade.Grade
	err := repo.getExec(exec).GetContext(ctx, &saved,
		`INSERT INTO grade (id, student_id, lesson_id, mentor_id, plan_id, percentage, achievement_level, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (student_id, lesson_id, COALESCE(plan_id, '`+nilPlanID+`'))
		 DO UPDATE SET
			mentor_id = EXCLUDED.mentor_id,
			percentage = EXCLUDED.percentage,
			achievement_level = EXCLUDED.achievement_level,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		 RETURNING `+gradeColumns,
		g.ID, g.StudentID, g.LessonID, g.MentorID, g.PlanID, g.Percentage, g.Level, g.Notes, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "upserting grade")
	}
	return saved, nil
}

func (repo gradeRepository) GetGrade(ctx context.Context, id string, exec ...core.DBExecutor) (grade.Grade, error) {
	var g grade.Grade
	err := repo.getExec(exec).GetContext(ctx, &g,
		`SELECT `+gradeColumns+` FROM grade WHERE id = $1`, id)
	if err != nil {
		return grade.Grade{}, repo.trapNoRowsErr(err, "getting grade")
	}
	return g, nil
}

func (repo gradeRepository) FindGrade(ctx context.Context, studentID, lessonID string, planID null.String, exec ...core.DBExecutor) (grade.Grade, error) {
	var g grade.Grade
	err := repo.getExec(exec).GetContext(ctx, &g,
		`SELECT `+gradeColumns+` FROM grade
		 WHERE student_id = $1 AND lesson_id = $2 AND COALESCE(plan_id, '`+nilPlanID+`') = COALESCE($3, '`+nilPlanID+`')`,
		studentID, lessonID, planID)
	if err != nil {
		return grade.Grade{}, repo.trapNoRowsErr(err, "finding grade")
	}
	return g, nil
}

func (repo gradeRepository) QueryGrades(ctx context.Context, filter *grade.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]grade.Grade, error) {
	query := `SELECT ` + gradeColumns + ` FROM grade`
	var clauses []string
	var args []interface{}

	if filter != nil {
		if filter.StudentID != "" {
			args = append(args, filter.StudentID)
			clauses = append(clauses, "student_id = $"+itoa(len(args)))
		}
		if filter.LessonID != "" {
			args = append(args, filter.LessonID)
			clauses = append(clauses, "lesson_id = $"+itoa(len(args)))
		}
		if filter.PlanID != "" {
			args = append(args, filter.PlanID)
			clauses = append(clauses, "plan_id = $"+itoa(len(args)))
		}
		if filter.MentorID != "" {
			args = append(args, filter.MentorID)
			clauses = append(clauses, "mentor_id = $"+itoa(len(args)))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderBy(ordering, "created_at ASC, id ASC")

	grades := []grade.Grade{}
	if err := repo.getExec(exec).SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	return grades, nil
}

func (repo gradeRepository) DeleteGrade(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM grade WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	if n == 0 {
		return grade.ErrNotFound
	}
	return nil
}
